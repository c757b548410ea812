package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"census-reconciler/internal/dateconv"
	"census-reconciler/internal/diagnostic"
	"census-reconciler/internal/mapping"
	"census-reconciler/internal/sheet"
	"census-reconciler/internal/validate"
)

// writeSettings writes the evaluation window and retirement age into the
// parameter sheet of the working workbook.
func writeSettings(wb *sheet.File, spec mapping.SettingsSpec, p validate.Policy) error {
	s, ok := wb.Sheet(spec.Sheet)
	if !ok {
		return sheetMissing(wb.Path(), spec.Sheet, wb)
	}

	cells := []struct {
		ref string
		v   sheet.Value
	}{
		{spec.Start, sheet.Str(p.Window.Start.Render())},
		{spec.End, sheet.Str(p.Window.End.Render())},
		{spec.RetirementAge, sheet.Num(float64(p.RetirementAge))},
	}

	for _, c := range cells {
		if err := setCell(s, c.ref, c.v); err != nil {
			return err
		}
	}

	return nil
}

// copyReferenceDate copies the reference date from the first intake sheet
// whose name contains every configured substring. A missing sheet or empty
// cell is reported as a warning.
func copyReferenceDate(
	intake sheet.Workbook,
	dst sheet.Sheet,
	spec mapping.ReferenceDateSpec,
	diags *diagnostic.Diagnostics,
) (string, error) {
	if spec.Cell == "" || spec.Target == "" {
		return "", nil
	}

	name, ok := findSheet(intake, spec.SheetContains)
	if !ok {
		diags.AddWarning("reference_sheet_missing",
			fmt.Sprintf("no sheet name contains %s", strings.Join(spec.SheetContains, ", ")), "", "",
			intake.SheetNames()...)

		return "", nil
	}

	g, _ := intake.Grid(name)

	ref, err := sheet.ParseRef(spec.Cell)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}

	text, ok := referenceText(g.Cell(ref.Col, ref.Row))
	if !ok {
		diags.AddWarning("reference_date_empty", spec.Cell+" is empty", name, "")
		return "", nil
	}

	if err := setCell(dst, spec.Target, sheet.Str(text)); err != nil {
		return "", err
	}

	return text, nil
}

func findSheet(wb sheet.Workbook, contains []string) (string, bool) {
	for _, name := range wb.SheetNames() {
		all := true

		for _, part := range contains {
			if !strings.Contains(name, part) {
				all = false
				break
			}
		}

		if all {
			return name, true
		}
	}

	return "", false
}

// referenceText renders a reference date cell as YYYYMMDD text: dots are
// removed from text, numbers keep their integer digits, dates are formatted.
func referenceText(c sheet.Cell) (string, bool) {
	v := c.Literal
	if v.IsFormula() {
		v = c.Computed
	}

	switch v.Kind {
	case sheet.KindEmpty:
		return "", false
	case sheet.KindText:
		text := strings.TrimSpace(strings.ReplaceAll(v.Text, ".", ""))
		return text, text != ""
	case sheet.KindNumber:
		return strconv.FormatInt(int64(v.Num), 10), true
	case sheet.KindTime:
		return dateconv.FromTime(v.Time).Render(), true
	default:
		return v.String(), true
	}
}

func setCell(s sheet.Sheet, name string, v sheet.Value) error {
	ref, err := sheet.ParseRef(name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}

	if err := s.SetValue(ref.Col, ref.Row, v); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}

	return nil
}
