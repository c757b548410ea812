package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"census-reconciler/internal/archive"
	"census-reconciler/internal/census"
	"census-reconciler/internal/copier"
	"census-reconciler/internal/diagnostic"
	"census-reconciler/internal/mapping"
	"census-reconciler/internal/report"
	"census-reconciler/internal/review"
	"census-reconciler/internal/sheet"
	"census-reconciler/internal/validate"
)

// Outcome describes a finished run.
type Outcome struct {
	RunID     uuid.UUID
	StartedAt time.Time
	// OutputPath is the saved working workbook.
	OutputPath string
	// ReportPath is the written text report.
	ReportPath string
	// Copied is the number of rows written to the working roster.
	Copied int
	// Departed is the number of departed roster rows read.
	Departed int
	// ReferenceDate is the YYYYMMDD text carried into the working roster, if any.
	ReferenceDate string
	Result        *validate.Result
	Review        *review.Report
	// Diagnostics collects header binding and reference date notes.
	Diagnostics *diagnostic.Diagnostics
}

// Runner executes reconciliation runs.
type Runner struct {
	logger *zap.Logger
}

// New creates a Runner. A nil logger discards output.
func New(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{logger: logger}
}

// Run executes one batch. Fatal errors wrap ErrInputMissing, ErrWriteFailure
// or ErrInvalidMapping.
func (r *Runner) Run(ctx context.Context, opts Options) (*Outcome, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	mf := opts.Mapping
	if diags := mapping.Validate(mf, nil); !diags.IsValid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMapping, diags.Error())
	}

	out := &Outcome{
		RunID:       uuid.New(),
		StartedAt:   opts.now(),
		OutputPath:  opts.outputPath(),
		Diagnostics: &diagnostic.Diagnostics{},
	}
	out.ReportPath = opts.reportPath(out.OutputPath)

	log := r.logger.With(zap.String("run_id", out.RunID.String()))

	if samePath(out.OutputPath, opts.Working) || samePath(out.OutputPath, opts.Intake) {
		return nil, fmt.Errorf("%w: output %s would overwrite an input", ErrWriteFailure, out.OutputPath)
	}

	intake, err := openInput(opts.Intake)
	if err != nil {
		return nil, err
	}
	defer closeLogged(log, intake)

	working, err := openInput(opts.Working)
	if err != nil {
		return nil, err
	}
	defer closeLogged(log, working)

	log.Info("workbooks opened", zap.String("intake", opts.Intake), zap.String("working", opts.Working))

	src, ok := intake.Grid(mf.Source.Sheet)
	if !ok {
		return nil, sheetMissing(opts.Intake, mf.Source.Sheet, intake)
	}

	dst, ok := working.Sheet(mf.Target.Sheet)
	if !ok {
		return nil, sheetMissing(opts.Working, mf.Target.Sheet, working)
	}

	if err := writeSettings(working, mf.Settings, opts.Policy); err != nil {
		return nil, err
	}

	log.Info("evaluation parameters written",
		zap.String("start", opts.Policy.Window.Start.Render()),
		zap.String("end", opts.Policy.Window.End.Render()),
		zap.Int("retirement_age", opts.Policy.RetirementAge))

	out.ReferenceDate, err = copyReferenceDate(intake, dst, mf.ReferenceDate, out.Diagnostics)
	if err != nil {
		return nil, err
	}

	binding, diags := census.Bind(src, mf.Source.HeaderRow, mf.SourceRules())
	out.Diagnostics.Merge(*diags)

	out.Copied, err = copier.New(mf, nil, log).CopyRecords(src, dst, binding)
	if err != nil {
		if errors.Is(err, census.ErrKeyUnbound) {
			return nil, fmt.Errorf("%w: %w", ErrInputMissing, err)
		}

		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}

	log.Info("active roster copied", zap.Int("rows", out.Copied))

	active, err := census.LoadActive(src, mf.Source, binding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputMissing, err)
	}

	departed, departedSheet, err := r.loadDeparted(log, intake, opts, out.Diagnostics)
	if err != nil {
		return nil, err
	}

	out.Departed = len(departed)

	out.Result = validate.Validate(validate.Input{
		Active:        active,
		ActiveSheet:   src.Name(),
		Departed:      departed,
		DepartedSheet: departedSheet,
		Workbook:      intake,
	}, opts.Policy)

	log.Info("validation finished",
		zap.Int("findings", out.Result.Count()),
		zap.Int("retirees", len(out.Result.Retirees)),
		zap.Int("skipped", len(out.Result.Skipped)))

	for _, s := range out.Result.Skipped {
		log.Warn("rule evaluation skipped",
			zap.Stringer("rule", s.Kind),
			zap.Int("row", s.Row),
			zap.String("employee_id", s.EmployeeID),
			zap.String("reason", s.Reason))
	}

	if err := working.SaveAs(out.OutputPath); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}

	log.Info("working workbook saved", zap.String("path", out.OutputPath))

	if opts.Reviewer != nil {
		out.Review, err = opts.Reviewer.Review(ctx, intake)
		if err != nil {
			return nil, err
		}

		log.Info("review finished", zap.String("summary", out.Review.Summary()))
	}

	ropts := opts.Report
	ropts.GeneratedAt = out.StartedAt
	ropts.IntakeFile = filepath.Base(opts.Intake)
	ropts.Review = out.Review

	if ropts.DeviationPercent.IsZero() {
		ropts.DeviationPercent = opts.Policy.DeviationPercent
	}

	if err := report.WriteFile(out.ReportPath, out.Result, ropts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}

	log.Info("report written", zap.String("path", out.ReportPath))

	if opts.Archive != nil {
		r.archive(ctx, log, opts, out)
	}

	return out, nil
}

func (r *Runner) loadDeparted(
	log *zap.Logger,
	intake *sheet.File,
	opts Options,
	diags *diagnostic.Diagnostics,
) ([]census.DepartedRecord, string, error) {
	spec := opts.Mapping.Departed

	var g sheet.Grid

	if opts.DepartedCSV != "" {
		m, err := sheet.LoadCSV(opts.DepartedCSV, spec.Sheet)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrInputMissing, err)
		}

		g = m
	} else {
		name, ok := spec.Locate(intake.SheetNames())
		if ok {
			g, ok = intake.Grid(name)
		}

		if !ok {
			diags.AddWarning("sheet_missing", "departed roster not found, departed checks skipped", spec.Sheet, "")
			log.Warn("departed roster not found", zap.String("sheet", spec.Sheet))

			return nil, spec.Sheet, nil
		}
	}

	binding, bd := census.Bind(g, spec.HeaderRow, opts.Mapping.DepartedRules())
	diags.Merge(*bd)

	records, err := census.LoadDeparted(g, spec.SheetSpec, binding)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInputMissing, err)
	}

	log.Info("departed roster read", zap.String("sheet", g.Name()), zap.Int("rows", len(records)))

	return records, g.Name(), nil
}

func (r *Runner) archive(ctx context.Context, log *zap.Logger, opts Options, out *Outcome) {
	run := archive.Run{
		ID:            out.RunID,
		StartedAt:     out.StartedAt,
		IntakeFile:    opts.Intake,
		WorkingFile:   opts.Working,
		OutputFile:    out.OutputPath,
		WindowStart:   opts.Policy.Window.Start.Render(),
		WindowEnd:     opts.Policy.Window.End.Render(),
		RetirementAge: opts.Policy.RetirementAge,
		Copied:        out.Copied,
		Findings:      out.Result.Count(),
		Skipped:       len(out.Result.Skipped),
	}

	if err := opts.Archive.SaveRun(ctx, run, out.Result, out.Review); err != nil {
		log.Warn("failed to archive run", zap.Error(err))
		return
	}

	log.Debug("run archived")
}

func openInput(path string) (*sheet.File, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputMissing, err)
	}

	f, err := sheet.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputMissing, err)
	}

	return f, nil
}

func sheetMissing(path, name string, wb sheet.Workbook) error {
	return fmt.Errorf("%w: sheet %q not found in %s (available: %v)", ErrInputMissing, name, path, wb.SheetNames())
}

func closeLogged(log *zap.Logger, f *sheet.File) {
	if err := f.Close(); err != nil {
		log.Warn("failed to close workbook", zap.String("path", f.Path()), zap.Error(err))
	}
}

func samePath(a, b string) bool {
	abs := func(p string) string {
		if v, err := filepath.Abs(p); err == nil {
			return v
		}

		return filepath.Clean(p)
	}

	return abs(a) == abs(b)
}
