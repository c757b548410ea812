package match

import (
	"math"
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		// Identical strings
		{"", "", 0},
		{"a", "a", 0},
		{"사원번호", "사원번호", 0},

		// Empty vs non-empty
		{"", "abc", 3},
		{"생년월일", "", 4},

		// Single rune operations count runes, not bytes
		{"퇴직금", "퇴직일", 1},
		{"입사일", "입사일자", 1},
		{"기준급여", "급여", 2},

		// Multiple operations
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			result := Levenshtein(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, result, tt.expected)
			}

			// Verify symmetry
			resultReverse := Levenshtein(tt.b, tt.a)
			if result != resultReverse {
				t.Errorf("Levenshtein symmetry failed: (%q, %q) = %d, (%q, %q) = %d",
					tt.a, tt.b, result, tt.b, tt.a, resultReverse)
			}
		})
	}
}

func TestLevenshteinNormalized(t *testing.T) {
	tests := []struct {
		a, b     string
		expected float64
	}{
		{"", "", 1.0},
		{"퇴직금", "퇴직금", 1.0},
		{"퇴직금", "퇴직일", 1.0 - 1.0/3.0},
		{"abc", "xyz", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			got := LevenshteinNormalized(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("LevenshteinNormalized(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestHeaderSimilarity(t *testing.T) {
	if got := HeaderSimilarity("사원 번호", "사원번호"); got != 1.0 {
		t.Errorf("HeaderSimilarity ignores spacing, got %f", got)
	}
}
