package sheet

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanUntilBlankKey(t *testing.T) {
	m := NewMem("roster")
	m.Set("B1", Str("사원번호"))
	m.Set("B2", Str("1001"))
	m.Set("B3", Num(1002))
	m.Set("B4", Str("   "))
	m.Set("B5", Str("1005"))

	rows := slices.Collect(ScanUntilBlankKey(m, 2, 2))
	assert.Equal(t, []int{2, 3}, rows, "blank key mid-range truncates")
}

func TestScanUntilBlankKeyFormulaKey(t *testing.T) {
	m := NewMem("roster")
	m.Put("A2", Cell{Literal: Formula("=B2")})

	rows := slices.Collect(ScanUntilBlankKey(m, 1, 2))
	assert.Equal(t, []int{2}, rows)
}

func TestScanUntilBlankKeyStopsEarly(t *testing.T) {
	m := NewMem("roster")
	for i := 2; i < 10; i++ {
		require.NoError(t, m.SetValue(1, i, Num(float64(i))))
	}

	var seen []int

	for row := range ScanUntilBlankKey(m, 1, 2) {
		seen = append(seen, row)
		if row == 4 {
			break
		}
	}

	assert.Equal(t, []int{2, 3, 4}, seen)
}

func TestBounded(t *testing.T) {
	m := NewMem("data")
	m.Set("A1", Str("x"))
	m.Set("C2", Bool(false))
	m.Set("E9", Str("far"))

	var refs []string
	for ref := range Bounded(m, 3, 3) {
		refs = append(refs, ref.String())
	}

	assert.Len(t, refs, 9)
	assert.Equal(t, "A1", refs[0])
	assert.Equal(t, "C3", refs[8])
	assert.NotContains(t, refs, "E9")
}

func TestHeaderRow(t *testing.T) {
	m := NewMem("data")
	m.Set("A1", Str("번호"))
	m.Set("C1", Str("생년월일"))

	assert.Equal(t, []string{"번호", "", "생년월일"}, HeaderRow(m, 1))
}

func TestRef(t *testing.T) {
	assert.Equal(t, "AA12", Ref{Col: 27, Row: 12}.String())

	r, err := ParseRef("X1")
	require.NoError(t, err)
	assert.Equal(t, Ref{Col: 24, Row: 1}, r)

	_, err = ParseRef("1X")
	require.Error(t, err)

	n, err := ColumnNumber("AA")
	require.NoError(t, err)
	assert.Equal(t, 27, n)
	assert.Equal(t, "S", ColumnName(19))
}
