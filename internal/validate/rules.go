package validate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"census-reconciler/internal/census"
	"census-reconciler/internal/mapping"
	"census-reconciler/internal/sheet"
	"census-reconciler/utils"
)

const (
	minBirthYear = 1900
	maxBirthYear = 2100
)

var hundred = decimal.NewFromInt(100)

func scanLiteralFalse(r *Result, wb sheet.Workbook, name string, p Policy) {
	g, ok := wb.Grid(name)
	if !ok {
		return
	}

	for ref, cell := range sheet.Bounded(g, p.ScanRows, p.ScanCols) {
		if !cell.Literal.IsFalse() {
			continue
		}

		r.add(Finding{
			Kind:       KindLiteralFalse,
			Sheet:      name,
			Cell:       ref.String(),
			EmployeeID: Placeholder,
			Detail:     "False 값이 발견되었습니다",
			Brief:      fmt.Sprintf("%s!%s", name, ref),
		})
	}
}

func checkBirthYear(r *Result, rec census.SourceRecord, sheetName string, _ Policy) {
	birth, ok := rec.BirthDate()
	if !ok {
		return
	}

	year := birth.Year()
	if utils.IsInRange(minBirthYear, year, maxBirthYear) {
		return
	}

	r.add(Finding{
		Kind:       KindBirthYear,
		Sheet:      sheetName,
		Row:        rec.Row,
		EmployeeID: rec.EmployeeID,
		Detail:     fmt.Sprintf("생년월일 연도 이상: %d년", year),
		Brief:      fmt.Sprintf("사원번호 %s (연도: %d)", rec.EmployeeID, year),
	})
}

func checkRetireeEstimate(r *Result, rec census.SourceRecord, sheetName string, p Policy) {
	birth, ok := rec.CorrectedBirthDate()
	if !ok {
		return
	}

	age := Age(birth, p.Window.End)
	if age <= p.RetirementAge {
		return
	}

	r.Retirees = append(r.Retirees, Retiree{EmployeeID: rec.EmployeeID, Age: age, Row: rec.Row})

	if !rec.Has(mapping.FieldNextYearEstimate) || !rec.NextYearEstimateMissing() {
		return
	}

	r.add(Finding{
		Kind:       KindRetireeEstimate,
		Sheet:      sheetName,
		Row:        rec.Row,
		EmployeeID: rec.EmployeeID,
		Detail:     fmt.Sprintf("정년초과자(나이: %d세)의 차년도 퇴직금추계액이 공란입니다", age),
		Brief:      fmt.Sprintf("사원번호 %s (나이: %d세)", rec.EmployeeID, age),
	})
}

func checkInterimSettlement(r *Result, rec census.SourceRecord, sheetName string, p Policy) {
	if !rec.Has(mapping.FieldInterimSettlementAmount) {
		return
	}

	settled, ok := rec.InterimSettlementDate()
	if !ok || !p.Window.Contains(settled) {
		return
	}

	amount, ok := rec.InterimSettlementAmount()
	if ok && !amount.IsZero() {
		return
	}

	date := settled.Render()
	r.add(Finding{
		Kind:       KindInterimSettlement,
		Sheet:      sheetName,
		Row:        rec.Row,
		EmployeeID: rec.EmployeeID,
		Detail:     fmt.Sprintf("평가년도 내 중간정산자(%s)인데 중간정산액이 없습니다", date),
		Brief:      fmt.Sprintf("사원번호 %s (중간정산일: %s)", rec.EmployeeID, date),
	})
}

func checkSalaryDeviation(r *Result, rec census.SourceRecord, sheetName string, p Policy) {
	base, ok := rec.BaseSalary()
	if !ok || !base.IsPositive() {
		return
	}

	current, ok := rec.CurrentYearEstimate()
	if !ok {
		return
	}

	deviation := current.Sub(base).Abs().Mul(hundred).Div(base)
	if deviation.LessThan(p.DeviationPercent) {
		return
	}

	pct := deviation.StringFixed(2)
	r.add(Finding{
		Kind:       KindSalaryDeviation,
		Sheet:      sheetName,
		Row:        rec.Row,
		EmployeeID: rec.EmployeeID,
		Detail:     fmt.Sprintf("차이율: %s%%", pct),
		Brief:      fmt.Sprintf("사원번호 %s (차이율: %s%%)", rec.EmployeeID, pct),
	})
}

func checkCategoryEstimate(r *Result, rec census.SourceRecord, sheetName string, p Policy) {
	if !rec.Has(mapping.FieldNextYearEstimate) {
		return
	}

	category, ok := rec.EmploymentCategory()
	if !ok || !p.mandatory(category) || !rec.NextYearEstimateMissing() {
		return
	}

	r.add(Finding{
		Kind:       KindCategoryEstimate,
		Sheet:      sheetName,
		Row:        rec.Row,
		EmployeeID: rec.EmployeeID,
		Detail:     fmt.Sprintf("임원/계약직(%d)의 차년도 퇴직금추계액이 공란입니다", category),
		Brief:      fmt.Sprintf("사원번호 %s (구분: %d)", rec.EmployeeID, category),
	})
}

func checkDeparted(r *Result, rec census.DepartedRecord, sheetName string) {
	if rec.SeveranceMissing() {
		r.add(Finding{
			Kind:       KindDepartedRoster,
			Sheet:      sheetName,
			Row:        rec.Row,
			EmployeeID: rec.EmployeeID,
			Detail:     "퇴직금이 누락되었습니다",
			Brief:      fmt.Sprintf("사원번호 %s (퇴직금 누락)", rec.EmployeeID),
		})
	}

	if rec.DepartureDateMissing() {
		r.add(Finding{
			Kind:       KindDepartedRoster,
			Sheet:      sheetName,
			Row:        rec.Row,
			EmployeeID: rec.EmployeeID,
			Detail:     "퇴직일이 누락되었습니다",
			Brief:      fmt.Sprintf("사원번호 %s (퇴직일 누락)", rec.EmployeeID),
		})
	}
}
