package census

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"census-reconciler/internal/mapping"
	"census-reconciler/internal/sheet"
)

func activeSheet() *sheet.Mem {
	m := sheet.NewMem("(2-2) 재직자 명부")
	headers := map[string]string{
		"A1": "순번", "B1": "사원번호", "C1": "생년월일", "D1": "성별", "E1": "입사일자",
		"F1": "기준급여", "G1": "당년도 퇴직금추계액", "H1": "차년도 퇴직금추계액",
		"I1": "종업원 구분", "J1": "중간정산기준일", "K1": "중간정산액", "M1": "적용배수", "N1": "휴직일수",
	}
	for ref, h := range headers {
		m.Set(ref, sheet.Str(h))
	}

	m.Set("B2", sheet.Num(190001))
	m.Set("C2", sheet.Num(19010315))
	m.Set("F2", sheet.Str("3,000,000"))
	m.Put("G2", sheet.Cell{Computed: sheet.Num(3100000), Literal: sheet.Formula("=F2*1.0333")})
	m.Set("I2", sheet.Str("3"))
	m.Set("N2", sheet.Num(30))

	m.Set("B3", sheet.Str(" 1002 "))
	m.Set("C3", sheet.Str("1985.03.12"))
	m.Set("H3", sheet.Num(0))

	m.Set("B5", sheet.Str("1005"))

	return m
}

func TestLoadActive(t *testing.T) {
	mf := mapping.Default()
	g := activeSheet()

	b, diags := Bind(g, mf.Source.HeaderRow, mf.SourceRules())
	assert.True(t, diags.IsValid())
	assert.Empty(t, diags.Warnings)
	assert.Empty(t, b.Fallback)
	assert.Equal(t, 14, b.Columns[mapping.FieldLeaveDaysDeduction])

	records, err := LoadActive(g, mf.Source, b)
	require.NoError(t, err)
	require.Len(t, records, 2, "row 4 has no key and ends the roster")

	r := records[0]
	assert.Equal(t, 2, r.Row)
	assert.Equal(t, "190001", r.EmployeeID)
	assert.True(t, r.Has(mapping.FieldNextYearEstimate))

	birth, ok := r.BirthDate()
	require.True(t, ok)
	assert.Equal(t, 1901, birth.Year())

	corrected, ok := r.CorrectedBirthDate()
	require.True(t, ok)
	assert.Equal(t, "20010315", corrected.Render())

	salary, ok := r.BaseSalary()
	require.True(t, ok)
	assert.True(t, salary.Equal(decimal.NewFromInt(3000000)))

	current, ok := r.CurrentYearEstimate()
	require.True(t, ok)
	assert.True(t, current.Equal(decimal.NewFromInt(3100000)))

	category, ok := r.EmploymentCategory()
	require.True(t, ok)
	assert.Equal(t, 3, category)

	assert.True(t, r.NextYearEstimateMissing())
	assert.InDelta(t, 30.0, r.LeaveDays(), 1e-9)

	_, ok = r.InterimSettlementDate()
	assert.False(t, ok)

	r = records[1]
	assert.Equal(t, "1002", r.EmployeeID)
	assert.False(t, r.NextYearEstimateMissing(), "explicit zero is present")
	assert.Equal(t, 0.0, r.LeaveDays())

	_, ok = r.EmploymentCategory()
	assert.False(t, ok)
}

func TestBindFallbackAndMissing(t *testing.T) {
	mf := mapping.Default()
	g := sheet.NewMem("(2-2) 재직자 명부")
	g.Set("B1", sheet.Str("사원 번호"))
	g.Set("C1", sheet.Str("생일"))

	b, diags := Bind(g, 1, mf.SourceRules())
	assert.Equal(t, 2, b.Columns[mapping.FieldEmployeeID])
	assert.Equal(t, 3, b.Columns[mapping.FieldBirthDate], "falls back to fixed column C")
	assert.Contains(t, b.Fallback, mapping.FieldBirthDate)
	assert.Empty(t, b.Missing)
	assert.Len(t, diags.Infos, len(mapping.ActiveFields)-1)

	rules := mf.DepartedRules()
	b, diags = Bind(g, 1, rules)
	assert.ElementsMatch(t, []string{mapping.FieldSeveranceAmount, mapping.FieldDepartureDate}, b.Missing)
	require.Len(t, diags.Warnings, 2)
	assert.Equal(t, "header_missing", diags.Warnings[0].Code)
}

func TestLoadDeparted(t *testing.T) {
	mf := mapping.Default()
	g := sheet.NewMem("(2-3) 퇴직자 및 DC전환자 명부")
	g.Set("A1", sheet.Str("사원번호"))
	g.Set("B1", sheet.Str("퇴직금 추계액"))
	g.Set("C1", sheet.Str("퇴직금"))
	g.Set("D1", sheet.Str("퇴직일"))
	g.Set("A2", sheet.Str("2001"))
	g.Set("C2", sheet.Num(1500000))
	g.Set("A3", sheet.Str("2002"))
	g.Set("D3", sheet.Num(45300))

	b, _ := Bind(g, 1, mf.DepartedRules())
	assert.Equal(t, 3, b.Columns[mapping.FieldSeveranceAmount])

	records, err := LoadDeparted(g, mf.Departed.SheetSpec, b)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.False(t, records[0].SeveranceMissing())
	assert.True(t, records[0].DepartureDateMissing())
	assert.True(t, records[1].SeveranceMissing())
	assert.False(t, records[1].DepartureDateMissing())
}

func TestLoadDepartedUnboundColumns(t *testing.T) {
	mf := mapping.Default()
	g := sheet.NewMem("퇴직자")
	g.Set("A1", sheet.Str("사원번호"))
	g.Set("A2", sheet.Str("2001"))

	b, _ := Bind(g, 1, mf.DepartedRules())

	records, err := LoadDeparted(g, mf.Departed.SheetSpec, b)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Severance)
	assert.False(t, records[0].SeveranceMissing(), "unbound columns are not checked")
}

func TestLoadKeyUnbound(t *testing.T) {
	mf := mapping.Default()
	g := sheet.NewMem("퇴직자")

	b, _ := Bind(g, 1, mf.DepartedRules())

	_, err := LoadDeparted(g, mf.Departed.SheetSpec, b)
	require.ErrorIs(t, err, ErrKeyUnbound)
}
