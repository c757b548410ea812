package mapping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"census-reconciler/internal/sheet"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t,
		[]string{TransformBirthDate, TransformDate, TransformDual, TransformPassthrough, TransformYearFraction},
		r.Names())

	_, ok := r.Get("nope")
	assert.False(t, ok)

	r.Add("upper", Passthrough)
	assert.True(t, r.Has("upper"))
}

func TestPassthrough(t *testing.T) {
	v, ok := Passthrough(sheet.Plain(sheet.Str("M")))
	assert.True(t, ok)
	assert.Equal(t, sheet.Str("M"), v)

	v, ok = Passthrough(sheet.Cell{Computed: sheet.Num(3), Literal: sheet.Formula("=1+2")})
	assert.True(t, ok)
	assert.Equal(t, sheet.Formula("=1+2"), v, "stored formula is copied as a formula")

	_, ok = Passthrough(sheet.Plain(sheet.Str("  ")))
	assert.False(t, ok)
}

func TestDateText(t *testing.T) {
	tests := []struct {
		name   string
		cell   sheet.Cell
		want   string
		wantOK bool
	}{
		{"serial", sheet.Plain(sheet.Num(45292)), "20240101", true},
		{"compact number", sheet.Plain(sheet.Num(19010315)), "19010315", true},
		{"timestamp", sheet.Plain(sheet.Date(time.Date(2015, 7, 1, 0, 0, 0, 0, time.UTC))), "20150701", true},
		{"dotted text", sheet.Plain(sheet.Str("2015.07.01")), "20150701", true},
		{"unparseable", sheet.Plain(sheet.Str("모름")), "", false},
		{"empty", sheet.Cell{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := DateText(tt.cell)
			require.Equal(t, tt.wantOK, ok)

			if ok {
				assert.Equal(t, sheet.Str(tt.want), v)
			}
		})
	}
}

func TestBirthDateText(t *testing.T) {
	v, ok := BirthDateText(sheet.Plain(sheet.Num(19010315)))
	require.True(t, ok)
	assert.Equal(t, sheet.Str("20010315"), v)

	v, ok = BirthDateText(sheet.Plain(sheet.Str("2070-05-05")))
	require.True(t, ok)
	assert.Equal(t, sheet.Str("19700505"), v)

	v, ok = DateText(sheet.Plain(sheet.Num(19010315)))
	require.True(t, ok)
	assert.Equal(t, sheet.Str("19010315"), v, "plain dates are never corrected")
}

func TestDual(t *testing.T) {
	v, ok := Dual(sheet.Cell{Computed: sheet.Num(0), Literal: sheet.Formula("=H2*0")})
	assert.True(t, ok)
	assert.Equal(t, sheet.Num(0), v)

	v, ok = Dual(sheet.Cell{Literal: sheet.Formula("=H2*2")})
	assert.True(t, ok)
	assert.Equal(t, sheet.Formula("=H2*2"), v)

	_, ok = Dual(sheet.Cell{})
	assert.False(t, ok)
}

func TestLeaveYearFraction(t *testing.T) {
	assert.InDelta(t, 0.0, YearFraction(0), 1e-12)
	assert.InDelta(t, 1.0, YearFraction(365.25), 1e-12)
	assert.InDelta(t, 0.5, YearFraction(182.625), 1e-12)

	v, ok := LeaveYearFraction(sheet.Plain(sheet.Num(365.25)))
	require.True(t, ok)
	assert.InDelta(t, 1.0, v.Num, 1e-12)

	v, ok = LeaveYearFraction(sheet.Cell{})
	require.True(t, ok)
	assert.Equal(t, sheet.Num(0), v)

	v, ok = LeaveYearFraction(sheet.Plain(sheet.Str("없음")))
	require.True(t, ok)
	assert.Equal(t, sheet.Num(0), v)
}
