package census

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"census-reconciler/internal/dateconv"
	"census-reconciler/internal/mapping"
	"census-reconciler/internal/sheet"
)

// SourceRecord is one row of the intake active roster.
type SourceRecord struct {
	// Row is the 1-based sheet row.
	Row int
	// EmployeeID is the trimmed display text of the key cell.
	EmployeeID string
	// Cells holds both views of every bound field cell by canonical name.
	Cells map[string]sheet.Cell
}

// Has reports whether the field was bound to a column when the record was loaded.
func (r SourceRecord) Has(field string) bool {
	_, ok := r.Cells[field]
	return ok
}

// Cell returns the cell of a canonical field; unbound fields read as blank.
func (r SourceRecord) Cell(field string) sheet.Cell {
	return r.Cells[field]
}

// Date normalizes a date field without any correction.
func (r SourceRecord) Date(field string) (dateconv.Serial, bool) {
	return cellDate(r.Cell(field))
}

// BirthDate returns the normalized birth date before correction.
func (r SourceRecord) BirthDate() (dateconv.Serial, bool) {
	return r.Date(mapping.FieldBirthDate)
}

// CorrectedBirthDate returns the birth date with the birth-year correction
// applied, the same value the copy engine writes.
func (r SourceRecord) CorrectedBirthDate() (dateconv.Serial, bool) {
	s, ok := r.BirthDate()
	if !ok {
		return 0, false
	}

	return dateconv.CorrectBirthYear(s), true
}

// HireDate returns the normalized hire date.
func (r SourceRecord) HireDate() (dateconv.Serial, bool) {
	return r.Date(mapping.FieldHireDate)
}

// InterimSettlementDate returns the normalized interim-settlement date.
func (r SourceRecord) InterimSettlementDate() (dateconv.Serial, bool) {
	return r.Date(mapping.FieldInterimSettlementDate)
}

// Amount returns a numeric field from the computed view.
func (r SourceRecord) Amount(field string) (decimal.Decimal, bool) {
	return r.Cell(field).Computed.Decimal()
}

// BaseSalary returns the base salary.
func (r SourceRecord) BaseSalary() (decimal.Decimal, bool) {
	return r.Amount(mapping.FieldBaseSalary)
}

// CurrentYearEstimate returns the current-year severance estimate.
func (r SourceRecord) CurrentYearEstimate() (decimal.Decimal, bool) {
	return r.Amount(mapping.FieldCurrentYearEstimate)
}

// NextYearEstimate returns the next-year severance estimate.
func (r SourceRecord) NextYearEstimate() (decimal.Decimal, bool) {
	return r.Amount(mapping.FieldNextYearEstimate)
}

// InterimSettlementAmount returns the interim-settlement amount.
func (r SourceRecord) InterimSettlementAmount() (decimal.Decimal, bool) {
	return r.Amount(mapping.FieldInterimSettlementAmount)
}

// ApplicableMultiplier returns the applicable multiplier.
func (r SourceRecord) ApplicableMultiplier() (decimal.Decimal, bool) {
	return r.Amount(mapping.FieldApplicableMultiplier)
}

// NextYearEstimateMissing reports whether the next-year estimate shows blank.
func (r SourceRecord) NextYearEstimateMissing() bool {
	return r.Cell(mapping.FieldNextYearEstimate).Computed.IsEmpty()
}

// Gender returns the gender code as text.
func (r SourceRecord) Gender() string {
	return strings.TrimSpace(r.Cell(mapping.FieldGender).Computed.String())
}

// EmploymentCategory returns the integer category code.
// Numeric text is accepted; fractional values are not codes.
func (r SourceRecord) EmploymentCategory() (int, bool) {
	f, ok := r.Cell(mapping.FieldEmploymentCategory).Computed.Number()
	if !ok || f != math.Trunc(f) {
		return 0, false
	}

	return int(f), true
}

// LeaveDays returns the leave-days deduction, 0 when absent.
func (r SourceRecord) LeaveDays() float64 {
	f, ok := r.Cell(mapping.FieldLeaveDaysDeduction).Computed.Number()
	if !ok {
		return 0
	}

	return f
}

// DepartedRecord is one row of the departed roster.
// Severance and DepartureDate are nil when their column is not bound.
type DepartedRecord struct {
	Row           int
	EmployeeID    string
	Severance     *sheet.Cell
	DepartureDate *sheet.Cell
}

// SeveranceMissing reports whether a bound severance cell is blank.
func (r DepartedRecord) SeveranceMissing() bool {
	return r.Severance != nil && r.Severance.Computed.IsEmpty()
}

// DepartureDateMissing reports whether a bound departure-date cell is blank.
func (r DepartedRecord) DepartureDateMissing() bool {
	return r.DepartureDate != nil && r.DepartureDate.Computed.IsEmpty()
}

func cellDate(c sheet.Cell) (dateconv.Serial, bool) {
	v, ok := c.Resolve()
	if !ok {
		return 0, false
	}

	return dateconv.Normalize(v)
}

func keyText(c sheet.Cell) string {
	v, _ := c.Resolve()
	return strings.TrimSpace(v.String())
}
