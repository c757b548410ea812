package dateconv

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"census-reconciler/internal/sheet"
	"census-reconciler/utils"
)

// Serial is a canonical day count since Epoch.
type Serial int

// Epoch is day zero of the canonical day count.
var Epoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const secondsPerDay = 24 * 60 * 60

// FromTime returns the serial of the calendar date of t, ignoring time of day.
func FromTime(t time.Time) Serial {
	y, m, d := t.Date()
	days := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() - Epoch.Unix()

	return Serial(days / secondsPerDay)
}

// FromDate returns the serial of a calendar date. It reports false when the
// date does not exist, e.g. month 13 or February 30.
func FromDate(year, month, day int) (Serial, bool) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return 0, false
	}

	return FromTime(t), true
}

// Time returns the calendar date of s at midnight UTC.
func (s Serial) Time() time.Time {
	return Epoch.AddDate(0, 0, int(s))
}

// Year returns the calendar year of s.
func (s Serial) Year() int {
	return s.Time().Year()
}

// Render returns s as 8-digit YYYYMMDD text.
func (s Serial) Render() string {
	return s.Time().Format("20060102")
}

// String implements fmt.Stringer.
func (s Serial) String() string {
	return s.Render()
}

// ParseCompact parses 8-digit YYYYMMDD text.
func ParseCompact(text string) (Serial, error) {
	text = strings.TrimSpace(text)
	if len(text) != 8 {
		return 0, fmt.Errorf("expected 8-digit YYYYMMDD, got %q", text)
	}

	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("expected 8-digit YYYYMMDD, got %q", text)
	}

	s, ok := FromDate(n/10000, n/100%100, n%100)
	if !ok {
		return 0, fmt.Errorf("invalid calendar date %q", text)
	}

	return s, nil
}

// Normalize converts a cell value to a Serial.
//
//   - numbers strictly between 1 and 100000 are already serials; a time of
//     day fraction is dropped
//   - numbers with exactly 8 integer digits are YYYYMMDD
//   - timestamps convert by their calendar date
//   - text is parsed against the layouts in textLayouts
//
// Anything else, empty cells included, reports false.
func Normalize(v sheet.Value) (Serial, bool) {
	switch v.Kind {
	case sheet.KindNumber:
		return fromNumber(v.Num)
	case sheet.KindTime:
		return FromTime(v.Time), true
	case sheet.KindText:
		return ParseText(v.Text)
	default:
		return 0, false
	}
}

func fromNumber(f float64) (Serial, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	if utils.IsInOpenRange(1, f, 100000) {
		return Serial(math.Floor(f)), true
	}

	n := math.Floor(f)
	if utils.IsInRange(10000000, n, 99999999) {
		i := int(n)
		return FromDate(i/10000, i/100%100, i%100)
	}

	return 0, false
}

// textLayouts are tried in order after YYYYMMDD.
var textLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"2006.1.2",
	"2006. 1. 2",
	"2006년 1월 2일",
	"2006년1월2일",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// ParseText parses free-text dates such as "1985.03.12.", "1985-3-12" or
// "1985년 3월 12일".
func ParseText(text string) (Serial, bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, ".")
	text = strings.TrimSpace(text)

	if text == "" {
		return 0, false
	}

	if isDigits(text) {
		if len(text) != 8 {
			return 0, false
		}

		s, err := ParseCompact(text)

		return s, err == nil
	}

	for _, layout := range textLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return FromTime(t), true
		}
	}

	return 0, false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
