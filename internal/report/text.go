package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"census-reconciler/internal/review"
	"census-reconciler/internal/validate"
)

// FileName is the default report file name.
const FileName = "검증결과_및_추가작업필요사항.txt"

// Default caps.
const (
	DefaultPreview = 10
	DefaultDetail  = 50
)

const timeLayout = "2006-01-02 15:04:05"

var (
	rule = strings.Repeat("=", 80)
	thin = strings.Repeat("-", 80)
)

// Options controls report rendering.
type Options struct {
	// GeneratedAt is printed as the validation time.
	GeneratedAt time.Time
	// IntakeFile is the intake workbook name.
	IntakeFile string
	// Preview caps each summary category.
	Preview int
	// Detail caps each detail group.
	Detail int
	// DeviationPercent is the salary deviation threshold shown in headings.
	DeviationPercent decimal.Decimal
	// Review is appended when present.
	Review *review.Report
}

func (o Options) withDefaults() Options {
	if o.Preview <= 0 {
		o.Preview = DefaultPreview
	}

	if o.Detail <= 0 {
		o.Detail = DefaultDetail
	}

	if o.DeviationPercent.IsZero() {
		o.DeviationPercent = decimal.NewFromInt(validate.DefaultDeviationPercent)
	}

	if o.GeneratedAt.IsZero() {
		o.GeneratedAt = time.Now()
	}

	return o
}

// WriteFile renders res into path.
func WriteFile(path string, res *validate.Result, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}

	if err := WriteText(f, res, opts); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report %s: %w", path, err)
	}

	return nil
}

// WriteText renders res to w. A result without findings gets the short pass report.
func WriteText(w io.Writer, res *validate.Result, opts Options) error {
	opts = opts.withDefaults()
	bw := bufio.NewWriter(w)

	if res.Count() == 0 {
		writePass(bw, opts)
	} else {
		writeHeader(bw, res, opts)
		writeSummary(bw, res, opts)
		writeChecklist(bw, res, opts)
		writeDetails(bw, res, opts)
	}

	if opts.Review != nil {
		writeReview(bw, opts.Review)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "%s\n%s\n%s\n\n", rule, title, rule)
}

func heading(k validate.Kind, opts Options) string {
	if k == validate.KindSalaryDeviation {
		return fmt.Sprintf("기준급여/당년도 차이 %s%% 이상", opts.DeviationPercent.String())
	}

	return k.Title()
}

func writePass(w io.Writer, opts Options) {
	section(w, "작성요청 파일 검증 결과")
	fmt.Fprintf(w, "검증 일시: %s\n", opts.GeneratedAt.Format(timeLayout))
	fmt.Fprintf(w, "작성요청 파일: %s\n\n", opts.IntakeFile)
	fmt.Fprint(w, "✓ 기본 검증 통과\n\n")
	fmt.Fprint(w, "추가 확인 사항:\n")
	fmt.Fprint(w, "- (1-2) 시트 D34, E34 셀의 연도 확인\n")
	fmt.Fprint(w, "- 2개년도 평가 시 명부 누락 확인\n")
	fmt.Fprint(w, "- 혼합형(DB+DC) DB 비율 확인\n")
	fmt.Fprint(w, "- 기타장기 DC 대상자 확인\n")
}

func writeHeader(w io.Writer, res *validate.Result, opts Options) {
	section(w, "작성요청 파일 검증 결과 및 추가 작업 필요사항")
	fmt.Fprintf(w, "검증 일시: %s\n", opts.GeneratedAt.Format(timeLayout))
	fmt.Fprintf(w, "작성요청 파일: %s\n", opts.IntakeFile)
	fmt.Fprintf(w, "총 검증 이슈: %d건\n\n", res.Count())
}

func writeSummary(w io.Writer, res *validate.Result, opts Options) {
	section(w, "1. 검증 결과 요약")

	for _, k := range validate.Kinds() {
		n := res.Summary.Count(k)
		if n == 0 {
			continue
		}

		fmt.Fprintf(w, "⚠ %s: %d건\n", heading(k, opts), n)

		if k == validate.KindSalaryDeviation {
			fmt.Fprint(w, "   → 고객사에 확인 요청 필요\n")
		}

		items, rest := res.Summary.Preview(k, opts.Preview)
		for _, item := range items {
			fmt.Fprintf(w, "   - %s\n", item)
		}

		if rest > 0 {
			fmt.Fprintf(w, "   ... 외 %d건\n", rest)
		}

		fmt.Fprint(w, "\n")
	}
}

func writeChecklist(w io.Writer, res *validate.Result, opts Options) {
	has := func(kinds ...validate.Kind) bool {
		for _, k := range kinds {
			if res.Summary.Count(k) > 0 {
				return true
			}
		}

		return false
	}

	section(w, "2. 추가 작업 및 확인 필요사항")

	fmt.Fprint(w, "ⓐ (1-2) 시트 D34, E34 셀의 연도 확인\n")
	fmt.Fprint(w, "   - 평가년도에 맞게 연도가 수정되었는지 확인\n")
	fmt.Fprint(w, "   - 종업원수에 따른 범위 확인\n\n")

	if has(validate.KindLiteralFalse) {
		fmt.Fprint(w, "ⓑ False 수치 수정 필요\n")
		fmt.Fprint(w, "   - 발견된 False 값들을 올바른 값으로 수정 요청\n\n")
	}

	if has(validate.KindRetireeEstimate, validate.KindCategoryEstimate) {
		fmt.Fprint(w, "ⓒ 차년도 퇴직금추계액 입력 필요\n")
		fmt.Fprint(w, "   - 임원, 계약직, 정년초과자의 차년도 퇴직금추계액 필수 입력\n")
		fmt.Fprint(w, "   - 공란이면 PUC_채무평가 파일에서 오류 발생\n")
		fmt.Fprint(w, "   - 정년초과자/계약직의 경우, 기준급여+당년도 퇴직금 추계액 합산 값으로 사용 가능\n\n")
	}

	if has(validate.KindSalaryDeviation) {
		fmt.Fprintf(w, "ⓓ %s 확인 요청\n", heading(validate.KindSalaryDeviation, opts))
		fmt.Fprint(w, "   - 고객사에 차이 발생 원인 확인 요청\n")
		fmt.Fprintf(w, "   - 총 %d건 발견\n\n", res.Summary.Count(validate.KindSalaryDeviation))
	}

	if has(validate.KindInterimSettlement) {
		fmt.Fprint(w, "ⓔ 중간정산액 입력 필요\n")
		fmt.Fprint(w, "   - 평가년도에 중간정산한 사람은 중간정산액 반드시 필요\n\n")
	}

	if has(validate.KindDepartedRoster) {
		fmt.Fprint(w, "ⓕ 퇴직자명부 누락 항목 입력 필요\n")
		fmt.Fprint(w, "   - 퇴직금, 퇴직일, 사원번호 필수 입력 확인\n\n")
	}

	if len(res.Retirees) > 0 {
		fmt.Fprint(w, "ⓖ 정년초과자 목록\n")
		fmt.Fprintf(w, "   - 총 %d명 확인\n", len(res.Retirees))
		fmt.Fprint(w, "   - 차년도 퇴직금추계액 입력 확인 필요\n\n")
	}

	fmt.Fprint(w, "ⓗ 추가 확인 사항\n")
	fmt.Fprint(w, "   - 2개년도 평가 시 명부 누락 확인 (예: 25년도 퇴직했는데 24년도 명부에 없음)\n")
	fmt.Fprint(w, "   - 퇴직금제도 혼합형(DB+DC)인 경우 DB 비율 확인\n")
	fmt.Fprint(w, "   - 기타장기가 있을 경우 DC 대상자 누락 확인\n\n")
}

func writeDetails(w io.Writer, res *validate.Result, opts Options) {
	section(w, "3. 상세 검증 결과")

	for _, k := range validate.Kinds() {
		findings := res.ByKind(k)
		if len(findings) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n[%s] (%d건)\n%s\n", heading(k, opts), len(findings), thin)

		shown := min(len(findings), opts.Detail)
		for _, f := range findings[:shown] {
			fmt.Fprintf(w, "  사원번호: %s, 시트: %s, %s\n", f.EmployeeID, location(f), f.Detail)
		}

		if rest := len(findings) - shown; rest > 0 {
			fmt.Fprintf(w, "  ... 외 %d건\n", rest)
		}
	}
}

func location(f validate.Finding) string {
	switch {
	case f.Sheet == "":
		return validate.Placeholder
	case f.Cell != "":
		return f.Sheet + "!" + f.Cell
	default:
		return f.Sheet
	}
}

func writeReview(w io.Writer, rep *review.Report) {
	fmt.Fprint(w, "\n")
	section(w, "4. 명부 에이전트 검토 의견")
	fmt.Fprintf(w, "%s\n", rep.Summary())

	for _, o := range rep.Observations {
		fmt.Fprintf(w, "\n[%s]\n%s\n%s\n", o.Sheet, thin, strings.TrimSpace(o.Text))
	}
}
