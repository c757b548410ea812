package mapping

import (
	"slices"
	"strings"

	"census-reconciler/internal/match"
	"census-reconciler/internal/sheet"
)

// Canonical field names of the active roster.
const (
	FieldEmployeeID              = "employeeId"
	FieldBirthDate               = "birthDate"
	FieldGender                  = "gender"
	FieldHireDate                = "hireDate"
	FieldBaseSalary              = "baseSalary"
	FieldCurrentYearEstimate     = "currentYearEstimate"
	FieldNextYearEstimate        = "nextYearEstimate"
	FieldEmploymentCategory      = "employmentCategory"
	FieldInterimSettlementDate   = "interimSettlementDate"
	FieldInterimSettlementAmount = "interimSettlementAmount"
	FieldApplicableMultiplier    = "applicableMultiplier"
	FieldLeaveDaysDeduction      = "leaveDaysDeduction"
)

// Canonical field names of the departed roster.
const (
	FieldSeveranceAmount = "severanceAmount"
	FieldDepartureDate   = "departureDate"
)

// ActiveFields lists every canonical field the active roster must map.
var ActiveFields = []string{
	FieldEmployeeID,
	FieldBirthDate,
	FieldGender,
	FieldHireDate,
	FieldBaseSalary,
	FieldCurrentYearEstimate,
	FieldNextYearEstimate,
	FieldEmploymentCategory,
	FieldInterimSettlementDate,
	FieldInterimSettlementAmount,
	FieldApplicableMultiplier,
	FieldLeaveDaysDeduction,
}

// DepartedFields lists every canonical field the departed roster must map.
var DepartedFields = []string{
	FieldEmployeeID,
	FieldSeveranceAmount,
	FieldDepartureDate,
}

// MappingFile represents the root of a census mapping file.
type MappingFile struct {
	// Version of the mapping schema.
	Version string `yaml:"version"`
	// Source describes the intake active roster.
	Source SheetSpec `yaml:"source"`
	// Target describes the working roster written by the copy engine.
	Target SheetSpec `yaml:"target"`
	// Fields maps each canonical field to its source and target columns.
	Fields []FieldMapping `yaml:"fields"`
	// Augment lists formula columns that must subtract a reference column.
	Augment []Augment `yaml:"augment,omitempty"`
	// Labels are target header cells written only when empty.
	Labels map[string]string `yaml:"labels,omitempty"`
	// Departed describes the departed roster.
	Departed DepartedSpec `yaml:"departed"`
	// Settings locates the parameter cells of the working workbook.
	Settings SettingsSpec `yaml:"settings"`
	// ReferenceDate locates the valuation reference date to carry over.
	ReferenceDate ReferenceDateSpec `yaml:"reference_date"`
}

// SheetSpec locates a roster inside a workbook.
type SheetSpec struct {
	// Sheet is the sheet name.
	Sheet string `yaml:"sheet"`
	// HeaderRow is the 1-based row holding column headers.
	HeaderRow int `yaml:"header_row,omitempty"`
	// FirstRow is the first 1-based data row.
	FirstRow int `yaml:"first_row,omitempty"`
	// Key is the canonical field whose blank cell ends the data.
	Key string `yaml:"key,omitempty"`
}

// FieldMapping represents one canonical field.
type FieldMapping struct {
	// Name is the canonical field name.
	Name string `yaml:"name"`
	// Source is the fixed-layout source column letter.
	Source string `yaml:"source,omitempty"`
	// Target lists destination column letters (1:many allowed).
	Target StringOrArray `yaml:"target,omitempty"`
	// Transform names the transform applied while copying.
	Transform string `yaml:"transform,omitempty"`
	// Header lists header patterns that locate the source column.
	Header HeaderPatterns `yaml:"header,omitempty"`
}

// DepartedSpec describes the departed roster.
type DepartedSpec struct {
	SheetSpec `yaml:",inline"`
	// SheetMatch lists name fragments tried when Sheet is absent; the first
	// sheet containing any of them is the departed roster.
	SheetMatch []string `yaml:"sheet_match,omitempty"`
	// Fields locate the departed roster columns. Only Name, Source and
	// Header are used.
	Fields []FieldMapping `yaml:"fields"`
}

// Locate picks the departed roster among the given sheet names: Sheet when
// present, else the first name containing any SheetMatch fragment.
func (d DepartedSpec) Locate(names []string) (string, bool) {
	if slices.Contains(names, d.Sheet) {
		return d.Sheet, true
	}

	for _, name := range names {
		for _, part := range d.SheetMatch {
			if part != "" && strings.Contains(name, part) {
				return name, true
			}
		}
	}

	return "", false
}

// Augment appends "-<Subtract><row>" to formula cells of Column.
type Augment struct {
	// Column is the formula column letter.
	Column string `yaml:"column"`
	// Subtract is the reference column letter.
	Subtract string `yaml:"subtract"`
}

// SettingsSpec locates the run parameters in the working workbook.
type SettingsSpec struct {
	Sheet         string `yaml:"sheet"`
	Start         string `yaml:"start"`
	End           string `yaml:"end"`
	RetirementAge string `yaml:"retirement_age"`
}

// ReferenceDateSpec locates the reference date in the intake workbook.
type ReferenceDateSpec struct {
	// SheetContains are substrings that must all appear in the sheet name.
	SheetContains []string `yaml:"sheet_contains"`
	// Cell is the source cell name.
	Cell string `yaml:"cell"`
	// Target is the destination cell name in the working roster.
	Target string `yaml:"target"`
}

// StringOrArray represents a value that can be either a single string or an array of strings.
type StringOrArray []string

// HeaderPattern is the YAML form of a match.Pattern.
type HeaderPattern struct {
	All  StringOrArray `yaml:"all,omitempty"`
	Any  StringOrArray `yaml:"any,omitempty"`
	None StringOrArray `yaml:"none,omitempty"`
}

// HeaderPatterns is a list of alternative header patterns.
// A single pattern or a bare string may be written instead of a list.
type HeaderPatterns []HeaderPattern

// Pattern converts p to a match.Pattern.
func (p HeaderPattern) Pattern() match.Pattern {
	return match.Pattern{All: p.All, Any: p.Any, None: p.None}
}

// Field returns the field mapping with the given name.
func (mf *MappingFile) Field(name string) (*FieldMapping, bool) {
	for i := range mf.Fields {
		if mf.Fields[i].Name == name {
			return &mf.Fields[i], true
		}
	}

	return nil, false
}

// SourceRules returns header rules for the active roster in declaration order.
func (mf *MappingFile) SourceRules() []match.Rule {
	return rules(mf.Fields)
}

// DepartedRules returns header rules for the departed roster.
func (mf *MappingFile) DepartedRules() []match.Rule {
	return rules(mf.Departed.Fields)
}

func rules(fields []FieldMapping) []match.Rule {
	out := make([]match.Rule, 0, len(fields))

	for _, f := range fields {
		r := match.Rule{Field: f.Name, Fallback: f.SourceColumn()}
		for _, p := range f.Header {
			r.Patterns = append(r.Patterns, p.Pattern())
		}

		out = append(out, r)
	}

	return out
}

// SourceColumn returns the fixed-layout source column number, or 0 when unset or invalid.
func (f *FieldMapping) SourceColumn() int {
	if f.Source == "" {
		return 0
	}

	n, err := sheet.ColumnNumber(f.Source)
	if err != nil {
		return 0
	}

	return n
}

// TargetColumns returns the destination column numbers, skipping invalid letters.
func (f *FieldMapping) TargetColumns() []int {
	cols := make([]int, 0, len(f.Target))

	for _, letters := range f.Target {
		n, err := sheet.ColumnNumber(letters)
		if err != nil {
			continue
		}

		cols = append(cols, n)
	}

	return cols
}
