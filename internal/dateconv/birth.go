package dateconv

import "census-reconciler/utils"

// correctionPasses bounds CorrectBirthYear. A year above 2100 can land in the
// 1900-1905 band, which needs one more pass to settle.
const correctionPasses = 3

// correctYear maps a misrecorded birth year to its repaired value.
func correctYear(year int) int {
	switch {
	case year == 1901:
		return 2001
	case year == 2070:
		return 1970
	case utils.IsInRange(1900, year, 1905):
		return year + 100
	case year > 2100:
		return 1900 + year%100
	default:
		return year
	}
}

// CorrectBirthYear repairs implausible birth years, keeping month and day:
//
//	1901       -> 2001
//	2070       -> 1970
//	1900..1905 -> year + 100
//	> 2100     -> 1900 + year mod 100
//
// The table is applied until the year stops moving, so the result is a fixed
// point and reapplying it changes nothing. When the new year has no such day
// (February 29 into a non-leap year) the value is returned unchanged.
// Only birth dates go through this; hire and settlement dates never do.
func CorrectBirthYear(s Serial) Serial {
	for range correctionPasses {
		t := s.Time()

		year := correctYear(t.Year())
		if year == t.Year() {
			return s
		}

		next, ok := FromDate(year, int(t.Month()), t.Day())
		if !ok {
			return s
		}

		s = next
	}

	return s
}
