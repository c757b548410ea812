package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"census-reconciler/internal/archive"
	"census-reconciler/internal/dateconv"
	"census-reconciler/internal/mapping"
	"census-reconciler/internal/review"
	"census-reconciler/internal/validate"
)

const (
	activeSheet    = "(2-2) 재직자 명부"
	departedSheet  = "(2-3) 퇴직자 및 DC전환자 명부"
	referenceSheet = "기초자료(퇴직급여)"
)

type cellWrite struct {
	sheet, ref string
	value      any
}

func buildBook(t *testing.T, path string, sheets []string, cells []cellWrite, formulas []cellWrite) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", sheets[0]))

	for _, name := range sheets[1:] {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
	}

	for _, c := range cells {
		require.NoError(t, f.SetCellValue(c.sheet, c.ref, c.value))
	}

	for _, c := range formulas {
		require.NoError(t, f.SetCellFormula(c.sheet, c.ref, c.value.(string)))
	}

	require.NoError(t, f.SaveAs(path))
}

func row(sheet string, r string, values map[string]any) []cellWrite {
	out := make([]cellWrite, 0, len(values))
	for col, v := range values {
		out = append(out, cellWrite{sheet: sheet, ref: col + r, value: v})
	}

	return out
}

func buildIntake(t *testing.T, path string) {
	t.Helper()

	var cells []cellWrite

	cells = append(cells, row(activeSheet, "1", map[string]any{
		"A": "순번", "B": "사원번호", "C": "생년월일", "D": "성별", "E": "입사일자",
		"F": "기준급여", "G": "당년도 퇴직금추계액", "H": "차년도 퇴직금추계액", "I": "종업원 구분",
		"J": "중간정산기준일", "K": "중간정산액", "L": "비고", "M": "적용배수", "N": "휴직일수",
	})...)
	cells = append(cells, row(activeSheet, "2", map[string]any{
		"A": 1, "B": "190001", "C": "19010315", "D": "남", "E": 20150302,
		"F": 3000000, "G": 3100000, "I": 3, "M": 1.5, "N": 0,
	})...)
	cells = append(cells, row(activeSheet, "3", map[string]any{
		"A": 2, "B": "190002", "C": 19620510, "D": "여", "E": "2000.03.01",
		"F": 2000000, "G": 2200000, "H": 500000, "I": 1, "J": "20240615", "M": 1, "N": 73,
	})...)
	cells = append(cells, row(activeSheet, "4", map[string]any{"A": 3})...)
	cells = append(cells, row(activeSheet, "5", map[string]any{"A": 4, "B": "190099", "C": "19700101"})...)

	cells = append(cells, row(departedSheet, "1", map[string]any{"A": "사원번호", "B": "퇴직일", "C": "퇴직금"})...)
	cells = append(cells, row(departedSheet, "2", map[string]any{"A": "180001", "B": "20240301"})...)

	cells = append(cells,
		cellWrite{referenceSheet, "I25", "2024.12.31"},
		cellWrite{referenceSheet, "C7", "FALSE"},
	)

	buildBook(t, path, []string{activeSheet, departedSheet, referenceSheet}, cells, nil)
}

func buildWorking(t *testing.T, path string) {
	t.Helper()

	cells := row("재직자명부", "1", map[string]any{"A": "사원번호", "B": "성명", "S": "추계액"})

	buildBook(t, path, []string{"error check", "재직자명부"}, cells, []cellWrite{
		{"재직자명부", "S2", "F2*L2"},
		{"재직자명부", "S3", "F3*L3"},
	})
}

func fixture(t *testing.T) Options {
	t.Helper()

	dir := t.TempDir()
	intake := filepath.Join(dir, "확정급여채무평가_작성요청.xlsx")
	working := filepath.Join(dir, "error check.xlsx")

	buildIntake(t, intake)
	buildWorking(t, working)

	start, ok := dateconv.FromDate(2024, 1, 1)
	require.True(t, ok)
	end, ok := dateconv.FromDate(2024, 12, 31)
	require.True(t, ok)

	return Options{
		Intake:  intake,
		Working: working,
		Mapping: mapping.Default(),
		Policy:  validate.DefaultPolicy(validate.Window{Start: start, End: end}, 60),
		Now:     func() time.Time { return time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC) },
	}
}

func TestRun_EndToEnd(t *testing.T) {
	opts := fixture(t)

	intakeBefore, err := os.ReadFile(opts.Intake)
	require.NoError(t, err)

	out, err := New(zaptest.NewLogger(t)).Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(opts.Working), "error check_자동화결과.xlsx"), out.OutputPath)
	assert.Equal(t, 2, out.Copied)
	assert.Equal(t, 1, out.Departed)
	assert.Equal(t, "20241231", out.ReferenceDate)

	intakeAfter, err := os.ReadFile(opts.Intake)
	require.NoError(t, err)
	assert.Equal(t, intakeBefore, intakeAfter)

	res := out.Result
	require.NotNil(t, res)
	assert.Equal(t, 5, res.Count())
	assert.Len(t, res.ByKind(validate.KindLiteralFalse), 1)
	assert.Equal(t, referenceSheet, res.ByKind(validate.KindLiteralFalse)[0].Sheet)
	assert.Equal(t, "C7", res.ByKind(validate.KindLiteralFalse)[0].Cell)
	assert.Equal(t, []string{"사원번호 190002 (중간정산일: 20240615)"}, res.Summary.Items(validate.KindInterimSettlement))
	assert.Equal(t, []string{"사원번호 190002 (차이율: 10.00%)"}, res.Summary.Items(validate.KindSalaryDeviation))
	assert.Equal(t, []string{"사원번호 190001 (구분: 3)"}, res.Summary.Items(validate.KindCategoryEstimate))
	assert.Equal(t, []string{"사원번호 180001 (퇴직금 누락)"}, res.Summary.Items(validate.KindDepartedRoster))
	require.Len(t, res.Retirees, 1)
	assert.Equal(t, "190002", res.Retirees[0].EmployeeID)
	assert.Empty(t, res.Skipped)

	f, err := excelize.OpenFile(out.OutputPath)
	require.NoError(t, err)
	defer f.Close()

	value := func(sheet, ref string) string {
		v, err := f.GetCellValue(sheet, ref)
		require.NoError(t, err)

		return v
	}

	assert.Equal(t, "20240101", value("error check", "B1"))
	assert.Equal(t, "20241231", value("error check", "D1"))
	assert.Equal(t, "60", value("error check", "D2"))
	assert.Equal(t, "20241231", value("재직자명부", "M1"))
	assert.Equal(t, "190001", value("재직자명부", "A2"))
	assert.Equal(t, "190001", value("재직자명부", "B2"))
	assert.Equal(t, "20010315", value("재직자명부", "C2"))
	assert.Equal(t, "20150302", value("재직자명부", "E2"))
	assert.Equal(t, "19620510", value("재직자명부", "C3"))
	assert.Equal(t, "20000301", value("재직자명부", "E3"))
	assert.Equal(t, "20240615", value("재직자명부", "J3"))
	assert.Equal(t, "", value("재직자명부", "A4"))
	assert.Equal(t, "휴직기간 차감", value("재직자명부", "X1"))

	formula, err := f.GetCellFormula("재직자명부", "S2")
	require.NoError(t, err)
	assert.Equal(t, "F2*L2-AA2", formula)

	data, err := os.ReadFile(out.ReportPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(out.OutputPath), filepath.Dir(out.ReportPath))
	assert.Contains(t, string(data), "총 검증 이슈: 5건")
	assert.Contains(t, string(data), "작성요청 파일: 확정급여채무평가_작성요청.xlsx")
	assert.Contains(t, string(data), "검증 일시: 2025-01-15 09:00:00")
}

func TestRun_RerunIsStable(t *testing.T) {
	opts := fixture(t)
	runner := New(nil)

	first, err := runner.Run(context.Background(), opts)
	require.NoError(t, err)

	again := opts
	again.Working = first.OutputPath
	again.Output = filepath.Join(filepath.Dir(first.OutputPath), "second.xlsx")

	second, err := runner.Run(context.Background(), again)
	require.NoError(t, err)

	f, err := excelize.OpenFile(second.OutputPath)
	require.NoError(t, err)
	defer f.Close()

	formula, err := f.GetCellFormula("재직자명부", "S2")
	require.NoError(t, err)
	assert.Equal(t, "F2*L2-AA2", formula)
	assert.Equal(t, first.Result.Count(), second.Result.Count())
}

func TestRun_ReviewAndArchive(t *testing.T) {
	opts := fixture(t)

	store, err := archive.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	model := review.ModelFunc(func(_ context.Context, prompt string) (string, error) {
		return "담당자님, 특별한 문제가 발견되지 않았습니다.", nil
	})

	opts.Reviewer = review.New(model, nil)
	opts.Archive = store

	out, err := New(nil).Run(context.Background(), opts)
	require.NoError(t, err)

	require.NotNil(t, out.Review)
	assert.Len(t, out.Review.Observations, 3)

	run, err := store.Run(context.Background(), out.RunID)
	require.NoError(t, err)
	assert.Equal(t, 2, run.Copied)
	assert.Equal(t, 5, run.Findings)
	assert.Equal(t, "20240101", run.WindowStart)

	obs, err := store.Observations(context.Background(), out.RunID)
	require.NoError(t, err)
	assert.Len(t, obs, 3)

	data, err := os.ReadFile(out.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "4. 명부 에이전트 검토 의견")
}

func TestRun_DepartedCSV(t *testing.T) {
	opts := fixture(t)
	opts.DepartedCSV = filepath.Join(t.TempDir(), "departed.csv")

	csv := "\ufeff사원번호,퇴직일,퇴직금\n180001,,1000000\n180002,20240301,2000000\n"
	require.NoError(t, os.WriteFile(opts.DepartedCSV, []byte(csv), 0o600))

	out, err := New(nil).Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 2, out.Departed)
	assert.Equal(t, []string{"사원번호 180001 (퇴직일 누락)"}, out.Result.Summary.Items(validate.KindDepartedRoster))
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(t *testing.T, o *Options)
		wantErr error
	}{
		{
			name:    "missing intake",
			mutate:  func(_ *testing.T, o *Options) { o.Intake = filepath.Join(filepath.Dir(o.Intake), "없음.xlsx") },
			wantErr: ErrInputMissing,
		},
		{
			name:    "missing source sheet",
			mutate:  func(_ *testing.T, o *Options) { o.Mapping.Source.Sheet = "없는 시트" },
			wantErr: ErrInputMissing,
		},
		{
			name:    "missing settings sheet",
			mutate:  func(_ *testing.T, o *Options) { o.Mapping.Settings.Sheet = "없는 시트" },
			wantErr: ErrInputMissing,
		},
		{
			name:    "missing departed csv",
			mutate:  func(_ *testing.T, o *Options) { o.DepartedCSV = filepath.Join(filepath.Dir(o.Intake), "없음.csv") },
			wantErr: ErrInputMissing,
		},
		{
			name: "unwritable output",
			mutate: func(_ *testing.T, o *Options) {
				o.Output = filepath.Join(filepath.Dir(o.Working), "missing-dir", "out.xlsx")
			},
			wantErr: ErrWriteFailure,
		},
		{
			name:    "output overwrites working",
			mutate:  func(_ *testing.T, o *Options) { o.Output = o.Working },
			wantErr: ErrWriteFailure,
		},
		{
			name:    "invalid mapping",
			mutate:  func(_ *testing.T, o *Options) { o.Mapping.Fields = nil },
			wantErr: ErrInvalidMapping,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := fixture(t)
			tt.mutate(t, &opts)

			_, err := New(nil).Run(context.Background(), opts)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRun_MissingReferenceSheet(t *testing.T) {
	opts := fixture(t)
	opts.Mapping.ReferenceDate.SheetContains = []string{"없는"}

	out, err := New(nil).Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Empty(t, out.ReferenceDate)

	var codes []string
	for _, d := range out.Diagnostics.Warnings {
		codes = append(codes, d.Code)
	}

	assert.Contains(t, codes, "reference_sheet_missing")
}

func renameSheet(t *testing.T, path, from, to string) {
	t.Helper()

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, f.SetSheetName(from, to))
	require.NoError(t, f.Save())
}

func TestRun_RenamedDepartedSheet(t *testing.T) {
	opts := fixture(t)
	renameSheet(t, opts.Intake, departedSheet, "2024 퇴직자")

	out, err := New(zaptest.NewLogger(t)).Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 1, out.Departed)

	departed := out.Result.ByKind(validate.KindDepartedRoster)
	require.NotEmpty(t, departed)
	assert.Equal(t, "2024 퇴직자", departed[0].Sheet)

	for _, d := range out.Diagnostics.Warnings {
		assert.NotEqual(t, "sheet_missing", d.Code)
	}
}

func TestRun_DepartedSheetUnmatched(t *testing.T) {
	opts := fixture(t)
	renameSheet(t, opts.Intake, departedSheet, "2024 퇴사")

	out, err := New(nil).Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Zero(t, out.Departed)
	assert.Empty(t, out.Result.ByKind(validate.KindDepartedRoster))

	var codes []string
	for _, d := range out.Diagnostics.Warnings {
		codes = append(codes, d.Code)
	}

	assert.Contains(t, codes, "sheet_missing")
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "dir/error check_자동화결과.xlsx", OutputPath("dir/error check.xls"))
	assert.Equal(t, "a_자동화결과.xlsx", OutputPath("a.xlsx"))
	assert.True(t, strings.HasSuffix(OutputPath("a"), OutputSuffix))
}
