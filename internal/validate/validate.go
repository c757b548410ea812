package validate

import (
	"fmt"

	"census-reconciler/internal/census"
	"census-reconciler/internal/sheet"
)

// Input is everything the rules read.
type Input struct {
	// Active is the active roster in source-row order.
	Active []census.SourceRecord
	// ActiveSheet names the sheet Active was read from.
	ActiveSheet string
	// Departed is the departed roster in source-row order.
	Departed []census.DepartedRecord
	// DepartedSheet names the sheet Departed was read from.
	DepartedSheet string
	// Workbook is scanned by the literal-false rule; nil skips the scan.
	Workbook sheet.Workbook
}

type activeRule struct {
	kind  Kind
	check func(r *Result, rec census.SourceRecord, sheetName string, p Policy)
}

var activeRules = []activeRule{
	{KindBirthYear, checkBirthYear},
	{KindRetireeEstimate, checkRetireeEstimate},
	{KindInterimSettlement, checkInterimSettlement},
	{KindSalaryDeviation, checkSalaryDeviation},
	{KindCategoryEstimate, checkCategoryEstimate},
}

// Validate runs every rule over in and returns the findings.
func Validate(in Input, p Policy) *Result {
	r := &Result{}

	if in.Workbook != nil {
		for _, name := range in.Workbook.SheetNames() {
			guard(r, KindLiteralFalse, 0, Placeholder, func() {
				scanLiteralFalse(r, in.Workbook, name, p)
			})
		}
	}

	for _, rule := range activeRules {
		for _, rec := range in.Active {
			guard(r, rule.kind, rec.Row, rec.EmployeeID, func() {
				rule.check(r, rec, in.ActiveSheet, p)
			})
		}
	}

	for _, rec := range in.Departed {
		guard(r, KindDepartedRoster, rec.Row, rec.EmployeeID, func() {
			checkDeparted(r, rec, in.DepartedSheet)
		})
	}

	return r
}

// guard runs one (rule, record) evaluation and records a panic as a skip.
// Findings added before the panic are kept.
func guard(r *Result, kind Kind, row int, employeeID string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.Skipped = append(r.Skipped, Skip{
				Kind:       kind,
				Row:        row,
				EmployeeID: employeeID,
				Reason:     fmt.Sprint(rec),
			})
		}
	}()

	fn()
}
