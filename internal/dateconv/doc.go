// Package dateconv converts spreadsheet date cells into a canonical day count.
//
// A [Serial] is the number of days since 1899-12-30, the epoch spreadsheet
// applications use for date serials. Raw serial numbers, 8-digit YYYYMMDD
// numbers, calendar timestamps and free-text dates all normalize to a Serial;
// anything else is reported as not ok and skipped by the caller.
//
// [CorrectBirthYear] repairs century digits that an upstream digitization
// step is known to misrecord. It applies to birth dates only.
package dateconv
