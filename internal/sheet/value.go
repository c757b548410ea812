package sheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies the type of value stored in a cell.
type Kind int

const (
	KindEmpty Kind = iota
	KindNumber
	KindText
	KindBool
	KindTime
	KindFormula
	KindError
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindFormula:
		return "formula"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Value is a single typed cell value.
// Formula values keep their text with a leading "=".
type Value struct {
	Kind Kind
	Num  float64
	Text string
	Bool bool
	Time time.Time
}

// Empty is the value of a cell that holds nothing.
var Empty = Value{}

// Num returns a number value.
func Num(f float64) Value {
	return Value{Kind: KindNumber, Num: f}
}

// Str returns a text value.
func Str(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// Date returns a calendar timestamp value.
func Date(t time.Time) Value {
	return Value{Kind: KindTime, Time: t}
}

// Formula returns a formula value, adding the leading "=" when missing.
func Formula(text string) Value {
	if !strings.HasPrefix(text, "=") {
		text = "=" + text
	}

	return Value{Kind: KindFormula, Text: text}
}

// IsEmpty reports whether the value carries nothing, treating
// whitespace-only text as empty.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindEmpty:
		return true
	case KindText:
		return strings.TrimSpace(v.Text) == ""
	default:
		return false
	}
}

// IsFormula reports whether the value is formula text.
func (v Value) IsFormula() bool {
	return v.Kind == KindFormula
}

// IsFalse reports whether the value is a boolean false or the text "false"
// in any case.
func (v Value) IsFalse() bool {
	switch v.Kind {
	case KindBool:
		return !v.Bool
	case KindText:
		return strings.EqualFold(strings.TrimSpace(v.Text), "false")
	default:
		return false
	}
}

// Number returns the numeric content of the value.
// Numeric text (thousands separators allowed) is accepted.
func (v Value) Number() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindText:
		s := strings.ReplaceAll(strings.TrimSpace(v.Text), ",", "")
		if s == "" {
			return 0, false
		}

		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}

		return f, true
	default:
		return 0, false
	}
}

// Decimal returns the numeric content of the value as a decimal.
func (v Value) Decimal() (decimal.Decimal, bool) {
	switch v.Kind {
	case KindNumber:
		return decimal.NewFromFloat(v.Num), true
	case KindText:
		s := strings.ReplaceAll(strings.TrimSpace(v.Text), ",", "")
		if s == "" {
			return decimal.Zero, false
		}

		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}

		return d, true
	default:
		return decimal.Zero, false
	}
}

// String renders the value the way it reads in a report or prompt.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindText, KindFormula, KindError:
		return v.Text
	case KindBool:
		if v.Bool {
			return "TRUE"
		}

		return "FALSE"
	case KindTime:
		return v.Time.Format("2006-01-02")
	default:
		return ""
	}
}

// Cell carries both read views of one spreadsheet cell.
type Cell struct {
	// Computed is the value as last evaluated.
	Computed Value
	// Literal is the stored value or formula text.
	Literal Value
}

// Plain returns a cell whose views agree, as for any non-formula cell.
func Plain(v Value) Cell {
	return Cell{Computed: v, Literal: v}
}

// Resolve picks the value to copy out of the cell: a non-empty computed value
// (explicit zero included), else formula text, else any non-empty literal.
// It reports false when the cell has nothing to copy.
func (c Cell) Resolve() (Value, bool) {
	if !c.Computed.IsEmpty() {
		return c.Computed, true
	}

	if c.Literal.IsFormula() {
		return c.Literal, true
	}

	if !c.Literal.IsEmpty() {
		return c.Literal, true
	}

	return Empty, false
}

// IsBlank reports whether neither view holds anything.
func (c Cell) IsBlank() bool {
	_, ok := c.Resolve()
	return !ok
}
