package copier

import (
	"fmt"
	"regexp"
	"strings"

	"census-reconciler/internal/sheet"
)

// References reports whether formula refers to the exact cell column+row,
// with or without "$" anchors. "AA2" does not match "AA20" or "BAA2".
func References(formula, column string, row int) bool {
	pattern := fmt.Sprintf(`(?i)(?:^|[^A-Z0-9_$])\$?%s\$?%d(?:[^0-9]|$)`, regexp.QuoteMeta(column), row)

	return regexp.MustCompile(pattern).MatchString(formula)
}

// Augment appends "-<subtract><row>" to the formula in column at row unless
// the formula already refers to that cell. Non-formula cells are left alone.
func Augment(dst sheet.Sheet, column int, subtract string, row int) error {
	lit := dst.Cell(column, row).Literal
	if !lit.IsFormula() {
		return nil
	}

	subtract = strings.ToUpper(subtract)
	if References(lit.Text, subtract, row) {
		return nil
	}

	augmented := sheet.Formula(fmt.Sprintf("%s-%s%d", lit.Text, subtract, row))
	if err := dst.SetValue(column, row, augmented); err != nil {
		return fmt.Errorf("failed to augment %s: %w", sheet.Ref{Col: column, Row: row}, err)
	}

	return nil
}
