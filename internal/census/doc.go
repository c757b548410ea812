// Package census loads roster rows into read-only records.
//
// Columns are located once per load through header rules (see
// match.Resolve) and rows are walked with sheet.ScanUntilBlankKey. Records
// keep both views of every cell; typed accessors read the computed view,
// which is what a user sees in the spreadsheet application.
package census
