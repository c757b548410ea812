package validate

import (
	"fmt"

	"census-reconciler/internal/common"
)

// Placeholder is the employee id of findings not tied to an employee.
const Placeholder = "-"

// Finding is one flagged condition. Findings are never merged or deduplicated.
type Finding struct {
	Kind Kind
	// Sheet is the sheet the finding refers to.
	Sheet string
	// Cell is the cell coordinate, set by the literal-false scan only.
	Cell string
	// Row is the source row, 0 when not row-based.
	Row int
	// EmployeeID is the subject, or Placeholder.
	EmployeeID string
	// Detail is the full description.
	Detail string
	// Brief is the compact form used in summaries.
	Brief string
}

// Retiree is a member of the retirement-eligible roster.
type Retiree struct {
	EmployeeID string
	Age        int
	Row        int
}

// String returns the compact roster line.
func (r Retiree) String() string {
	return fmt.Sprintf("사원번호 %s (나이: %d세)", r.EmployeeID, r.Age)
}

// Skip records a (rule, record) evaluation that failed and was skipped.
type Skip struct {
	Kind       Kind
	Row        int
	EmployeeID string
	Reason     string
}

// Summary groups finding briefs by kind, in finding order.
type Summary struct {
	items map[Kind][]string
}

// Items returns every brief of kind k.
func (s Summary) Items(k Kind) []string {
	return s.items[k]
}

// Count returns the number of findings of kind k.
func (s Summary) Count(k Kind) int {
	return len(s.items[k])
}

// Preview returns at most n briefs of kind k and how many were left out.
func (s Summary) Preview(k Kind, n int) ([]string, int) {
	return common.Cap(s.items[k], n)
}

func (s *Summary) add(f Finding) {
	if s.items == nil {
		s.items = make(map[Kind][]string)
	}

	s.items[f.Kind] = append(s.items[f.Kind], f.Brief)
}

// Result is the outcome of one validation run.
type Result struct {
	// Findings in rule order, source-row order within a rule.
	Findings []Finding
	// Summary is derived from Findings.
	Summary Summary
	// Retirees is the retirement-eligible roster.
	Retirees []Retiree
	// Skipped lists evaluations that failed.
	Skipped []Skip
}

// ByKind returns the findings of kind k.
func (r *Result) ByKind(k Kind) []Finding {
	var out []Finding

	for _, f := range r.Findings {
		if f.Kind == k {
			out = append(out, f)
		}
	}

	return out
}

// Count returns the total number of findings.
func (r *Result) Count() int {
	return len(r.Findings)
}

func (r *Result) add(f Finding) {
	r.Findings = append(r.Findings, f)
	r.Summary.add(f)
}
