package mapping

import (
	"slices"

	"census-reconciler/internal/dateconv"
	"census-reconciler/internal/sheet"
)

// Built-in transform names.
const (
	TransformPassthrough  = "passthrough"
	TransformDate         = "date"
	TransformBirthDate    = "birth_date"
	TransformDual         = "dual"
	TransformYearFraction = "year_fraction"
)

// DaysPerYear is the divisor of the leave-days year fraction.
const DaysPerYear = 365.25

// Transform converts a source cell into the value written to every target
// column of a field. It reports false when nothing should be written.
type Transform func(c sheet.Cell) (sheet.Value, bool)

// TransformRegistry holds transforms by name.
type TransformRegistry struct {
	transforms map[string]Transform
}

// NewTransformRegistry creates a new empty transform registry.
func NewTransformRegistry() *TransformRegistry {
	return &TransformRegistry{
		transforms: make(map[string]Transform),
	}
}

// DefaultRegistry returns a registry holding the built-in transforms.
func DefaultRegistry() *TransformRegistry {
	r := NewTransformRegistry()
	r.Add(TransformPassthrough, Passthrough)
	r.Add(TransformDate, DateText)
	r.Add(TransformBirthDate, BirthDateText)
	r.Add(TransformDual, Dual)
	r.Add(TransformYearFraction, LeaveYearFraction)

	return r
}

// Add adds a transform to the registry.
func (r *TransformRegistry) Add(name string, fn Transform) {
	r.transforms[name] = fn
}

// Get returns a transform by name.
func (r *TransformRegistry) Get(name string) (Transform, bool) {
	fn, ok := r.transforms[name]
	return fn, ok
}

// Has returns true if a transform with the given name exists.
func (r *TransformRegistry) Has(name string) bool {
	_, exists := r.transforms[name]
	return exists
}

// Names returns all transform names, sorted.
func (r *TransformRegistry) Names() []string {
	names := make([]string, 0, len(r.transforms))
	for name := range r.transforms {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Passthrough copies the stored value verbatim; formula text stays a formula.
func Passthrough(c sheet.Cell) (sheet.Value, bool) {
	if !c.Literal.IsEmpty() {
		return c.Literal, true
	}

	if !c.Computed.IsEmpty() {
		return c.Computed, true
	}

	return sheet.Empty, false
}

// DateText normalizes a date cell and renders it as YYYYMMDD text.
func DateText(c sheet.Cell) (sheet.Value, bool) {
	s, ok := normalizeCell(c)
	if !ok {
		return sheet.Empty, false
	}

	return sheet.Str(s.Render()), true
}

// BirthDateText is DateText with the birth-year correction applied.
func BirthDateText(c sheet.Cell) (sheet.Value, bool) {
	s, ok := normalizeCell(c)
	if !ok {
		return sheet.Empty, false
	}

	return sheet.Str(dateconv.CorrectBirthYear(s).Render()), true
}

func normalizeCell(c sheet.Cell) (dateconv.Serial, bool) {
	v, ok := c.Resolve()
	if !ok {
		return 0, false
	}

	return dateconv.Normalize(v)
}

// Dual copies the computed value when present (zero included), else the
// formula text, else any stored value.
func Dual(c sheet.Cell) (sheet.Value, bool) {
	return c.Resolve()
}

// LeaveYearFraction converts leave days to a fraction of a year.
// It always writes: absent or zero days become 0.
func LeaveYearFraction(c sheet.Cell) (sheet.Value, bool) {
	v, ok := c.Resolve()
	if !ok {
		return sheet.Num(0), true
	}

	days, ok := v.Number()
	if !ok {
		return sheet.Num(0), true
	}

	return sheet.Num(YearFraction(days)), true
}

// YearFraction returns days / DaysPerYear, or 0 for zero days.
func YearFraction(days float64) float64 {
	if days == 0 {
		return 0
	}

	return days / DaysPerYear
}
