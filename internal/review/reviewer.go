package review

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"census-reconciler/internal/sheet"
)

// DefaultConcurrency bounds in-flight model requests.
const DefaultConcurrency = 4

// Observation is the model's answer for one sheet.
type Observation struct {
	Sheet string
	// Text is the verbatim response, or the failure message.
	Text string
	// Err is set when the request failed.
	Err error
}

// Failed reports whether the request for the sheet failed.
func (o Observation) Failed() bool {
	return o.Err != nil
}

// Report holds the observations in workbook sheet order.
type Report struct {
	Observations []Observation
}

// Reviewed returns the number of sheets with a model answer.
func (r *Report) Reviewed() int {
	n := 0

	for _, o := range r.Observations {
		if !o.Failed() {
			n++
		}
	}

	return n
}

// Summary returns the one-line outcome of the review.
func (r *Report) Summary() string {
	return fmt.Sprintf("총 %d개 시트를 검증했습니다. %d개 시트에서 검증 결과를 확인했습니다.",
		len(r.Observations), r.Reviewed())
}

// Option configures a Reviewer.
type Option func(*Reviewer)

// WithMaxRows sets the number of data rows sent per sheet.
func WithMaxRows(n int) Option {
	return func(r *Reviewer) {
		if n > 0 {
			r.maxRows = n
		}
	}
}

// WithConcurrency sets how many sheets are reviewed at once.
func WithConcurrency(n int) Option {
	return func(r *Reviewer) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// Reviewer fans sheet prompts out to a Model.
type Reviewer struct {
	model       Model
	maxRows     int
	concurrency int
	logger      *zap.Logger
}

// New creates a Reviewer.
func New(model Model, logger *zap.Logger, opts ...Option) *Reviewer {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Reviewer{
		model:       model,
		maxRows:     DefaultMaxRows,
		concurrency: DefaultConcurrency,
		logger:      logger,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Review reviews every sheet of wb. Sheets are read sequentially and the
// model requests run concurrently. Only context cancellation is returned as
// an error; per-sheet failures are recorded in the report.
func (r *Reviewer) Review(ctx context.Context, wb sheet.Workbook) (*Report, error) {
	names := wb.SheetNames()
	prompts := make([]string, len(names))

	for i, name := range names {
		g, ok := wb.Grid(name)
		if !ok {
			continue
		}

		prompts[i] = Prompt(Tabulate(g, r.maxRows))
	}

	obs := make([]Observation, len(names))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.concurrency)

	for i, name := range names {
		eg.Go(func() error {
			obs[i] = r.reviewSheet(egCtx, name, prompts[i])
			return nil
		})
	}

	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return &Report{Observations: obs}, fmt.Errorf("review interrupted: %w", err)
	}

	return &Report{Observations: obs}, nil
}

func (r *Reviewer) reviewSheet(ctx context.Context, name, prompt string) (o Observation) {
	o.Sheet = name

	defer func() {
		if rec := recover(); rec != nil {
			o.Err = fmt.Errorf("model panicked: %v", rec)
			o.Text = failureText(name, o.Err)
		}
	}()

	if prompt == "" {
		o.Err = fmt.Errorf("sheet %q not readable", name)
		o.Text = failureText(name, o.Err)

		return o
	}

	text, err := r.model.Generate(ctx, prompt)
	if err != nil {
		r.logger.Warn("sheet review failed", zap.String("sheet", name), zap.Error(err))
		o.Err = err
		o.Text = failureText(name, err)

		return o
	}

	r.logger.Debug("sheet reviewed", zap.String("sheet", name), zap.Int("chars", len(text)))
	o.Text = text

	return o
}

func failureText(name string, err error) string {
	return fmt.Sprintf("시트 '%s' 검증 중 오류 발생: %v", name, err)
}
