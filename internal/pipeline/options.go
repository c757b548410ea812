package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"census-reconciler/internal/archive"
	"census-reconciler/internal/config"
	"census-reconciler/internal/mapping"
	"census-reconciler/internal/report"
	"census-reconciler/internal/review"
	"census-reconciler/internal/validate"
)

// OutputSuffix replaces the working workbook's extension in the output name.
const OutputSuffix = "_자동화결과.xlsx"

// Options configures a run.
type Options struct {
	// Intake is the client's request workbook.
	Intake string
	// Working is the error-check workbook.
	Working string
	// DepartedCSV replaces the departed roster sheet when set.
	DepartedCSV string
	// Output is the saved workbook; empty derives it from Working.
	Output string
	// ReportPath is the text report; relative paths resolve next to Output.
	ReportPath string

	Mapping *mapping.MappingFile
	Policy  validate.Policy
	Report  report.Options

	// Reviewer is optional.
	Reviewer *review.Reviewer
	// Archive is optional.
	Archive *archive.Store

	// Now stamps the run; nil means time.Now.
	Now func() time.Time
}

// FromConfig builds run options from cfg. Reviewer and Archive are left for
// the caller to attach.
func FromConfig(cfg *config.Config) (Options, error) {
	mf := mapping.Default()

	if cfg.Inputs.Mapping != "" {
		var err error

		mf, err = mapping.LoadFile(cfg.Inputs.Mapping)
		if err != nil {
			return Options{}, err
		}
	}

	policy, err := cfg.Policy()
	if err != nil {
		return Options{}, err
	}

	return Options{
		Intake:      cfg.Inputs.Intake,
		Working:     cfg.Inputs.Working,
		DepartedCSV: cfg.Inputs.DepartedCSV,
		Output:      cfg.Inputs.Output,
		ReportPath:  cfg.Report.Path,
		Mapping:     mf,
		Policy:      policy,
		Report: report.Options{
			Preview:          cfg.Report.Preview,
			Detail:           cfg.Report.Detail,
			DeviationPercent: policy.DeviationPercent,
		},
	}, nil
}

// OutputPath derives the saved workbook path from the working workbook path.
func OutputPath(working string) string {
	ext := filepath.Ext(working)
	return strings.TrimSuffix(working, ext) + OutputSuffix
}

func (o Options) outputPath() string {
	if o.Output != "" {
		return o.Output
	}

	return OutputPath(o.Working)
}

func (o Options) reportPath(output string) string {
	p := o.ReportPath
	if p == "" {
		p = report.FileName
	}

	if filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(filepath.Dir(output), p)
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}

	return time.Now()
}

func (o Options) validate() error {
	if o.Mapping == nil {
		return fmt.Errorf("%w: mapping is nil", ErrInvalidMapping)
	}

	if o.Intake == "" || o.Working == "" {
		return fmt.Errorf("%w: intake and working workbooks are required", ErrInputMissing)
	}

	return nil
}
