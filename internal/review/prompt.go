package review

import (
	"fmt"
	"strings"

	"census-reconciler/internal/sheet"
)

// DefaultMaxRows is the number of data rows sent per sheet.
const DefaultMaxRows = 1000

const instructions = `당신은 퇴직연금 계리사입니다.

엑셀 데이터를 읽어보고, 다음 규칙에 따라 이상한 부분이 있는지 확인하세요:

1. 사원번호 중복 확인 (매우 중요):
   - 재직자 명부 내부에서 사원번호 중복 확인
   - 퇴직자 명부 내부에서 사원번호 중복 확인
   - 재직자 명부와 퇴직자 명부 간 사원번호 중복 확인
2. 중간정산자가 재직자 명부에 있는지 확인
3. 날짜 순서 확인 (생년월일 < 입사일 < 중간정산일 < 퇴직일 < 평가기준일)
4. 근속기간 1년 이상인데 퇴직금이 0원인 경우 확인

이상한 부분을 발견하면 사원번호, 이름, 날짜, 구체적인 문제점을 반드시 포함하세요.

문제가 없으면 "담당자님, 이 시트의 데이터를 검토한 결과 특별한 문제가 발견되지 않았습니다."라고 작성하세요.`

// Table is the text rendition of one sheet.
type Table struct {
	Sheet   string
	Columns []string
	// Rows holds at most the row limit, header excluded.
	Rows [][]string
	// Total is the number of data rows in the sheet.
	Total int
}

// Tabulate reads the header row and up to maxRows data rows of g.
func Tabulate(g sheet.Grid, maxRows int) Table {
	cols, rows := g.Extent()

	t := Table{
		Sheet:   g.Name(),
		Columns: sheet.HeaderRow(g, 1),
		Total:   max(rows-1, 0),
	}

	last := min(rows, maxRows+1)
	for row := 2; row <= last; row++ {
		line := make([]string, cols)
		for col := 1; col <= cols; col++ {
			if v, ok := g.Cell(col, row).Resolve(); ok {
				line[col-1] = v.String()
			}
		}

		t.Rows = append(t.Rows, line)
	}

	return t
}

// Prompt renders the audit request for t.
func Prompt(t Table) string {
	var b strings.Builder

	b.WriteString(instructions)
	fmt.Fprintf(&b, "\n\n시트명: '%s'\n", t.Sheet)
	fmt.Fprintf(&b, "컬럼명: [%s]\n", strings.Join(t.Columns, ", "))

	b.WriteString("데이터:\n")

	if t.Total > len(t.Rows) {
		fmt.Fprintf(&b, "총 %d행 중 상위 %d행:\n", t.Total, len(t.Rows))
	}

	for i, row := range t.Rows {
		fmt.Fprintf(&b, "%d\t%s\n", i+2, strings.Join(row, "\t"))
	}

	b.WriteString("\n위 데이터를 읽어보고 이상한 부분이 있으면 피드백을 작성하세요.")

	return b.String()
}
