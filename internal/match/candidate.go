package match

import (
	"sort"
	"strings"
)

// Candidate is a header considered for a canonical field.
type Candidate struct {
	// Column is the 1-based column number of the header.
	Column int
	// Header is the header text as it appears in the sheet.
	Header string
	// Score is the similarity to the wanted label (0-1).
	Score float64
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankHeaders scores every non-blank header against want and returns
// candidates sorted by score (descending).
func RankHeaders(want string, headers []string) CandidateList {
	var candidates CandidateList

	for i, h := range headers {
		if strings.TrimSpace(h) == "" {
			continue
		}

		candidates = append(candidates, Candidate{
			Column: i + 1,
			Header: h,
			Score:  HeaderSimilarity(want, h),
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by column for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Column < c[j].Column
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// AboveThreshold returns candidates with score at or above the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

// Headers returns the header text of every candidate.
func (c CandidateList) Headers() []string {
	out := make([]string, len(c))
	for i, cand := range c {
		out[i] = cand.Header
	}

	return out
}
