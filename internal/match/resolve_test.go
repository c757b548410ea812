package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatternMatches(t *testing.T) {
	salary := Pattern{All: []string{"기준급여"}, None: []string{"차"}}
	assert.True(t, salary.Matches("기준급여"))
	assert.True(t, salary.Matches("기준 급여(원)"))
	assert.False(t, salary.Matches("차년도 기준급여"))

	category := Pattern{All: []string{"구분"}, Any: []string{"종업원", "직원"}}
	assert.True(t, category.Matches("종업원 구분"))
	assert.True(t, category.Matches("직원구분"))
	assert.False(t, category.Matches("구분"))
	assert.False(t, category.Matches("직원"))

	assert.False(t, Pattern{}.Matches("anything"))
	assert.False(t, salary.Matches("   "))
}

func TestPatternLabel(t *testing.T) {
	p := Pattern{All: []string{"구분"}, Any: []string{"종업원", "직원"}, None: []string{"차"}}
	assert.Equal(t, "구분+(종업원|직원) !차", p.Label())
}

func TestResolve(t *testing.T) {
	headers := []string{"", "사원번호", "생년월일", "성별", "입사일자", "기준급여", "당년도 퇴직금추계액", "차년도 퇴직금추계액"}
	rules := []Rule{
		{Field: "employeeId", Patterns: []Pattern{{All: []string{"사원번호"}}}, Fallback: 2},
		{Field: "birthDate", Patterns: []Pattern{{All: []string{"생년월일"}}}, Fallback: 3},
		{Field: "currentYearEstimate", Patterns: []Pattern{{All: []string{"당년도", "퇴직금"}}}, Fallback: 7},
		{Field: "nextYearEstimate", Patterns: []Pattern{{All: []string{"차년도", "퇴직금"}}}, Fallback: 8},
		{Field: "interimSettlementAmount", Patterns: []Pattern{{All: []string{"중간정산액"}}}, Fallback: 11},
		{Field: "note", Patterns: []Pattern{{All: []string{"비고"}}}},
	}

	b := Resolve(headers, rules)

	col, ok := b.Column("employeeId")
	assert.True(t, ok)
	assert.Equal(t, 2, col)
	assert.Equal(t, 7, b.Columns["currentYearEstimate"])
	assert.Equal(t, 8, b.Columns["nextYearEstimate"])
	assert.Equal(t, "차년도 퇴직금추계액", b.Headers["nextYearEstimate"])
	assert.Equal(t, 11, b.Columns["interimSettlementAmount"])
	assert.Equal(t, []string{"interimSettlementAmount"}, b.Fallback)
	assert.Equal(t, []string{"note"}, b.Missing)

	_, ok = b.Column("note")
	assert.False(t, ok)
}

func TestResolveFirstUnboundColumnWins(t *testing.T) {
	headers := []string{"퇴직금", "퇴직금 추계액", "퇴직일", "퇴직금(정산)"}
	rules := []Rule{
		{Field: "severance", Patterns: []Pattern{{All: []string{"퇴직금"}, None: []string{"추계"}}}},
		{Field: "severance2", Patterns: []Pattern{{All: []string{"퇴직금"}, None: []string{"추계"}}}},
		{Field: "departureDate", Patterns: []Pattern{{All: []string{"퇴직일"}}}},
	}

	b := Resolve(headers, rules)
	assert.Equal(t, 1, b.Columns["severance"])
	assert.Equal(t, 4, b.Columns["severance2"], "column 1 is already bound")
	assert.Equal(t, 3, b.Columns["departureDate"])
}

func TestResolveAlternatives(t *testing.T) {
	rule := Rule{Field: "interimSettlementDate", Patterns: []Pattern{
		{All: []string{"중간정산기준일"}},
		{All: []string{"중간정산", "일"}},
	}}

	b := Resolve([]string{"중간정산액", "중간 정산일"}, []Rule{rule})
	assert.Equal(t, 2, b.Columns["interimSettlementDate"])
}

func TestRankHeaders(t *testing.T) {
	ranked := RankHeaders("사원번호", []string{"성명", "", "사번호", "사원 번호"})

	best := ranked.Best()
	if assert.NotNil(t, best) {
		assert.Equal(t, 4, best.Column)
		assert.InDelta(t, 1.0, best.Score, 1e-9)
	}

	assert.Len(t, ranked, 3)
	assert.Equal(t, []string{"사원 번호", "사번호"}, ranked.AboveThreshold(0.5).Headers())
	assert.Len(t, ranked.Top(1), 1)
	assert.Nil(t, CandidateList(nil).Best())
}
