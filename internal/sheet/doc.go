// Package sheet is the spreadsheet access layer shared by the copy engine,
// the record loaders and the rule engine.
//
// Every cell is read through two views at once:
//
//   - Computed: the value as last evaluated by the spreadsheet application
//   - Literal: the stored value, or the formula text for formula cells
//
// [Cell.Resolve] encodes the precedence between them. Row ranges with no
// authoritative count are walked with [ScanUntilBlankKey], which stops at the
// first row whose key column is blank.
//
// Backends:
//   - [File] wraps an excelize workbook (xlsx, or xls converted on open)
//   - [Mem] is an in-memory grid used by tests and CSV intake
package sheet
