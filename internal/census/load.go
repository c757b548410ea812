package census

import (
	"errors"
	"fmt"

	"census-reconciler/internal/diagnostic"
	"census-reconciler/internal/mapping"
	"census-reconciler/internal/match"
	"census-reconciler/internal/sheet"
)

// ErrKeyUnbound is returned when the key column of a roster cannot be located.
var ErrKeyUnbound = errors.New("key column is not bound")

const (
	suggestionLimit     = 3
	suggestionThreshold = 0.5
)

// Bind resolves the header row of g against rules and reports fallbacks and
// missing fields as diagnostics.
func Bind(g sheet.Grid, headerRow int, rules []match.Rule) (match.Binding, *diagnostic.Diagnostics) {
	headers := sheet.HeaderRow(g, headerRow)
	b := match.Resolve(headers, rules)
	diags := &diagnostic.Diagnostics{}

	for _, field := range b.Fallback {
		diags.AddInfo("header_fallback",
			fmt.Sprintf("no header matched, using fixed column %s", sheet.ColumnName(b.Columns[field])),
			g.Name(), field)
	}

	for _, rule := range rules {
		if _, ok := b.Column(rule.Field); ok {
			continue
		}

		var suggestions []string

		if len(rule.Patterns) > 0 {
			want := rule.Patterns[0].Label()
			suggestions = match.RankHeaders(want, headers).
				AboveThreshold(suggestionThreshold).
				Top(suggestionLimit).
				Headers()
		}

		diags.AddWarning("header_missing", "no header matched and no fixed column is set",
			g.Name(), rule.Field, suggestions...)
	}

	return b, diags
}

// LoadActive reads every active roster row up to the first blank key.
func LoadActive(g sheet.Grid, spec mapping.SheetSpec, b match.Binding) ([]SourceRecord, error) {
	keyCol, ok := b.Column(spec.Key)
	if !ok {
		return nil, fmt.Errorf("failed to load %s: %w: %s", g.Name(), ErrKeyUnbound, spec.Key)
	}

	var records []SourceRecord

	for row := range sheet.ScanUntilBlankKey(g, keyCol, spec.FirstRow) {
		rec := SourceRecord{
			Row:        row,
			EmployeeID: keyText(g.Cell(keyCol, row)),
			Cells:      make(map[string]sheet.Cell, len(b.Columns)),
		}

		for field, col := range b.Columns {
			rec.Cells[field] = g.Cell(col, row)
		}

		records = append(records, rec)
	}

	return records, nil
}

// LoadDeparted reads every departed roster row up to the first blank key.
// Unbound severance or departure-date columns read as blank cells.
func LoadDeparted(g sheet.Grid, spec mapping.SheetSpec, b match.Binding) ([]DepartedRecord, error) {
	keyCol, ok := b.Column(spec.Key)
	if !ok {
		return nil, fmt.Errorf("failed to load %s: %w: %s", g.Name(), ErrKeyUnbound, spec.Key)
	}

	severanceCol, hasSeverance := b.Column(mapping.FieldSeveranceAmount)
	dateCol, hasDate := b.Column(mapping.FieldDepartureDate)

	var records []DepartedRecord

	for row := range sheet.ScanUntilBlankKey(g, keyCol, spec.FirstRow) {
		rec := DepartedRecord{
			Row:        row,
			EmployeeID: keyText(g.Cell(keyCol, row)),
		}

		if hasSeverance {
			c := g.Cell(severanceCol, row)
			rec.Severance = &c
		}

		if hasDate {
			c := g.Cell(dateCol, row)
			rec.DepartureDate = &c
		}

		records = append(records, rec)
	}

	return records, nil
}
