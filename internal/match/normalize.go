package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeHeader normalizes header text for substring matching.
// The normalization pipeline:
// 1. Compose to NFC (exports from some tools carry decomposed Hangul).
// 2. Case-fold to lower.
// 3. Strip whitespace and separators (_, -).
func NormalizeHeader(s string) string {
	s = norm.NFC.String(s)

	var result strings.Builder

	result.Grow(len(s))

	for _, r := range s {
		if unicode.IsSpace(r) || isSeparator(r) {
			continue
		}

		result.WriteRune(unicode.ToLower(r))
	}

	return result.String()
}

// isSeparator returns true if the rune is a common separator.
func isSeparator(r rune) bool {
	return r == '_' || r == '-'
}

// NormalizeAll normalizes every string in terms.
func NormalizeAll(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = NormalizeHeader(t)
	}

	return out
}
