package validate

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind identifies the rule that produced a finding.
type Kind int

const (
	_ Kind = iota // skip zero value, use it as a default (invalid) value for Kind

	KindLiteralFalse
	KindBirthYear
	KindRetireeEstimate
	KindInterimSettlement
	KindSalaryDeviation
	KindCategoryEstimate
	KindDepartedRoster

	// KindTotal is the number of kinds defined plus the skipped zero value.
	KindTotal = int(iota)
)

// Kinds returns every rule kind in evaluation order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, KindTotal-1)
	for k := KindLiteralFalse; int(k) < KindTotal; k++ {
		kinds = append(kinds, k)
	}

	return kinds
}

// IsValid reports whether k is one of the defined kinds.
func (k Kind) IsValid() bool {
	return k >= KindLiteralFalse && int(k) < KindTotal
}

// Title returns the report heading of the kind.
func (k Kind) Title() string {
	switch k {
	case KindLiteralFalse:
		return "False 수치 발견"
	case KindBirthYear:
		return "생년월일 이상"
	case KindRetireeEstimate:
		return "차년도 퇴직금추계액 누락 (정년초과자)"
	case KindInterimSettlement:
		return "중간정산액 누락"
	case KindSalaryDeviation:
		return "기준급여/당년도 차이 과다"
	case KindCategoryEstimate:
		return "차년도 퇴직금추계액 누락 (임원/계약직)"
	case KindDepartedRoster:
		return "퇴직자명부 누락 항목"
	default:
		return k.String()
	}
}
