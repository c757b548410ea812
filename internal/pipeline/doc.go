// Package pipeline runs one reconciliation batch end to end:
//
//  1. open the intake and working workbooks (.xls converted on the fly)
//  2. write the evaluation parameters into the working workbook
//  3. carry the reference date over
//  4. bind headers and copy the active roster into the working roster
//  5. load both rosters and run the rule battery
//  6. save the working workbook under a new name, write the report
//  7. optionally review the intake with a model and archive the run
//
// Source files are never modified. Temporary conversion output is removed on
// every exit path.
package pipeline
