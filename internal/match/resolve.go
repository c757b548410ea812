package match

import (
	"slices"
	"strings"
)

// Pattern matches a normalized header by substrings.
// A header matches when it contains every All term, at least one Any term
// (if any are given) and none of the None terms.
type Pattern struct {
	All  []string
	Any  []string
	None []string
}

// Matches reports whether the header satisfies the pattern.
// The header is normalized before comparison.
func (p Pattern) Matches(header string) bool {
	h := NormalizeHeader(header)
	if h == "" || (len(p.All) == 0 && len(p.Any) == 0) {
		return false
	}

	for _, term := range p.All {
		if !strings.Contains(h, NormalizeHeader(term)) {
			return false
		}
	}

	if len(p.Any) > 0 && !slices.ContainsFunc(p.Any, func(term string) bool {
		return strings.Contains(h, NormalizeHeader(term))
	}) {
		return false
	}

	for _, term := range p.None {
		if strings.Contains(h, NormalizeHeader(term)) {
			return false
		}
	}

	return true
}

// Label returns a short human-readable form of the pattern, e.g. "당년도+퇴직금".
func (p Pattern) Label() string {
	parts := slices.Clone(p.All)
	if len(p.Any) > 0 {
		parts = append(parts, "("+strings.Join(p.Any, "|")+")")
	}

	label := strings.Join(parts, "+")
	if len(p.None) > 0 {
		label += " !" + strings.Join(p.None, "!")
	}

	return label
}

// Rule binds one canonical field to a column.
type Rule struct {
	// Field is the canonical field name.
	Field string
	// Patterns are alternatives; a header matching any of them qualifies.
	Patterns []Pattern
	// Fallback is the fixed-layout column used when no header qualifies (0 = none).
	Fallback int
}

// Matches reports whether the header satisfies any of the rule's patterns.
func (r Rule) Matches(header string) bool {
	return slices.ContainsFunc(r.Patterns, func(p Pattern) bool {
		return p.Matches(header)
	})
}

// Binding is the resolved field to column table.
type Binding struct {
	// Columns maps canonical field names to 1-based column numbers.
	Columns map[string]int
	// Headers maps canonical field names to the header text that bound them.
	Headers map[string]string
	// Fallback lists fields bound through their fixed-layout column.
	Fallback []string
	// Missing lists fields with neither a matching header nor a fallback.
	Missing []string
}

// Column returns the column bound to field.
func (b Binding) Column(field string) (int, bool) {
	col, ok := b.Columns[field]
	return col, ok
}

// Resolve evaluates rules in declaration order against a header row
// (index 0 is column 1). Each rule binds the first column, left to right,
// that is not already bound and whose header satisfies the rule. Fields
// without a qualifying header use their fallback column.
func Resolve(headers []string, rules []Rule) Binding {
	b := Binding{
		Columns: make(map[string]int, len(rules)),
		Headers: make(map[string]string, len(rules)),
	}

	taken := make(map[int]bool, len(rules))

	for _, rule := range rules {
		if _, done := b.Columns[rule.Field]; done {
			continue
		}

		col := 0

		for i, h := range headers {
			if !taken[i+1] && rule.Matches(h) {
				col = i + 1

				break
			}
		}

		switch {
		case col > 0:
			taken[col] = true
			b.Columns[rule.Field] = col
			b.Headers[rule.Field] = headers[col-1]
		case rule.Fallback > 0:
			b.Columns[rule.Field] = rule.Fallback
			b.Fallback = append(b.Fallback, rule.Field)
		default:
			b.Missing = append(b.Missing, rule.Field)
		}
	}

	return b
}
