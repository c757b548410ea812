package validate

import (
	"slices"

	"github.com/shopspring/decimal"

	"census-reconciler/internal/dateconv"
)

// Default business thresholds.
const (
	DefaultDeviationPercent = 5
	DefaultScanRows         = 999
	DefaultScanCols         = 49

	CategoryOfficer  = 3
	CategoryContract = 4
)

// DaysPerAgeYear is the divisor of the coarse age formula.
const DaysPerAgeYear = 365

// Window is the evaluation period, inclusive on both ends.
type Window struct {
	Start dateconv.Serial
	End   dateconv.Serial
}

// Contains reports whether s lies inside the window.
func (w Window) Contains(s dateconv.Serial) bool {
	return w.Start <= s && s <= w.End
}

// Policy holds the configuration the rules evaluate against.
type Policy struct {
	Window        Window
	RetirementAge int
	// DeviationPercent is the inclusive salary deviation threshold.
	DeviationPercent decimal.Decimal
	// MandatoryCategories require a next-year estimate.
	MandatoryCategories []int
	// ScanRows and ScanCols bound the literal-false scan.
	ScanRows int
	ScanCols int
}

// DefaultPolicy returns a policy with the default thresholds.
func DefaultPolicy(window Window, retirementAge int) Policy {
	return Policy{
		Window:              window,
		RetirementAge:       retirementAge,
		DeviationPercent:    decimal.NewFromInt(DefaultDeviationPercent),
		MandatoryCategories: []int{CategoryOfficer, CategoryContract},
		ScanRows:            DefaultScanRows,
		ScanCols:            DefaultScanCols,
	}
}

func (p Policy) mandatory(category int) bool {
	return slices.Contains(p.MandatoryCategories, category)
}

// Age returns whole years between birth and asOf as floor(days / 365).
// It drifts from calendar age by a day per leap year.
func Age(birth, asOf dateconv.Serial) int {
	days := int(asOf - birth)
	age := days / DaysPerAgeYear

	if days%DaysPerAgeYear != 0 && days < 0 {
		age--
	}

	return age
}
