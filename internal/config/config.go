package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"census-reconciler/internal/dateconv"
	"census-reconciler/internal/report"
	"census-reconciler/internal/review"
	"census-reconciler/internal/validate"
)

// Environment variables holding the reviewer API key, in lookup order.
var APIKeyEnv = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}

// Config is the run configuration.
type Config struct {
	// Inputs names the files of the run.
	Inputs InputsConfig `yaml:"inputs"`
	// Evaluation holds the evaluation window and retirement age.
	Evaluation EvaluationConfig `yaml:"evaluation"`
	// Thresholds holds the business thresholds of the rule battery.
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Report     ReportConfig     `yaml:"report"`
	Review     ReviewConfig     `yaml:"review"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// InputsConfig names the files of the run.
type InputsConfig struct {
	// Intake is the client's request workbook.
	Intake string `yaml:"intake"`
	// Working is the error-check workbook the roster is copied into.
	Working string `yaml:"working"`
	// DepartedCSV optionally replaces the departed roster sheet.
	DepartedCSV string `yaml:"departed_csv,omitempty"`
	// Mapping is a mapping file; empty uses the built-in layout.
	Mapping string `yaml:"mapping,omitempty"`
	// Output is the saved working workbook; empty derives it from Working.
	Output string `yaml:"output,omitempty"`
}

// EvaluationConfig holds the evaluation window as YYYYMMDD text.
type EvaluationConfig struct {
	Start         string `yaml:"start"`
	End           string `yaml:"end"`
	RetirementAge int    `yaml:"retirement_age"`
}

// ThresholdsConfig holds the rule thresholds.
type ThresholdsConfig struct {
	DeviationPercent    float64 `yaml:"deviation_percent"`
	MandatoryCategories []int   `yaml:"mandatory_categories"`
	ScanRows            int     `yaml:"scan_rows"`
	ScanCols            int     `yaml:"scan_cols"`
}

// ReportConfig controls the text report.
type ReportConfig struct {
	// Path of the report; relative paths resolve next to the output workbook.
	Path    string `yaml:"path"`
	Preview int    `yaml:"preview"`
	Detail  int    `yaml:"detail"`
}

// ReviewConfig controls the language-model reviewer.
type ReviewConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Model       string `yaml:"model"`
	MaxRows     int    `yaml:"max_rows"`
	Concurrency int    `yaml:"concurrency"`
	// APIKey is filled from the environment, never from the file.
	APIKey string `yaml:"-"`
}

// ArchiveConfig controls the run archive.
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
	// Format is "json" or "console".
	Format string `yaml:"format"`
}

// DefaultRetirementAge is used when the configuration leaves it unset.
const DefaultRetirementAge = 60

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Evaluation: EvaluationConfig{RetirementAge: DefaultRetirementAge},
		Thresholds: ThresholdsConfig{
			DeviationPercent:    validate.DefaultDeviationPercent,
			MandatoryCategories: []int{validate.CategoryOfficer, validate.CategoryContract},
			ScanRows:            validate.DefaultScanRows,
			ScanCols:            validate.DefaultScanCols,
		},
		Report: ReportConfig{
			Path:    report.FileName,
			Preview: report.DefaultPreview,
			Detail:  report.DefaultDetail,
		},
		Review: ReviewConfig{
			Model:       review.DefaultModel,
			MaxRows:     review.DefaultMaxRows,
			Concurrency: review.DefaultConcurrency,
		},
		Archive: ArchiveConfig{Path: "census-runs.db"},
		Logging: LoggingConfig{Format: "console"},
	}
}

// Load reads the configuration file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML configuration over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Evaluation.RetirementAge <= 0 {
		c.Evaluation.RetirementAge = def.Evaluation.RetirementAge
	}

	if c.Thresholds.DeviationPercent <= 0 {
		c.Thresholds.DeviationPercent = def.Thresholds.DeviationPercent
	}

	if len(c.Thresholds.MandatoryCategories) == 0 {
		c.Thresholds.MandatoryCategories = def.Thresholds.MandatoryCategories
	}

	if c.Thresholds.ScanRows <= 0 {
		c.Thresholds.ScanRows = def.Thresholds.ScanRows
	}

	if c.Thresholds.ScanCols <= 0 {
		c.Thresholds.ScanCols = def.Thresholds.ScanCols
	}

	if c.Report.Path == "" {
		c.Report.Path = def.Report.Path
	}

	if c.Report.Preview <= 0 {
		c.Report.Preview = def.Report.Preview
	}

	if c.Report.Detail <= 0 {
		c.Report.Detail = def.Report.Detail
	}

	if c.Review.Model == "" {
		c.Review.Model = def.Review.Model
	}

	if c.Review.MaxRows <= 0 {
		c.Review.MaxRows = def.Review.MaxRows
	}

	if c.Review.Concurrency <= 0 {
		c.Review.Concurrency = def.Review.Concurrency
	}

	if c.Archive.Path == "" {
		c.Archive.Path = def.Archive.Path
	}

	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
}

// LoadEnv loads .env files into the process environment without overriding
// variables already set, then fills the reviewer API key. Missing files are ignored.
func (c *Config) LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	for _, name := range APIKeyEnv {
		if v := os.Getenv(name); v != "" {
			c.Review.APIKey = v
			break
		}
	}

	return nil
}

// Window parses the evaluation window.
func (c *Config) Window() (validate.Window, error) {
	start, err := dateconv.ParseCompact(c.Evaluation.Start)
	if err != nil {
		return validate.Window{}, fmt.Errorf("failed to parse evaluation start: %w", err)
	}

	end, err := dateconv.ParseCompact(c.Evaluation.End)
	if err != nil {
		return validate.Window{}, fmt.Errorf("failed to parse evaluation end: %w", err)
	}

	if end < start {
		return validate.Window{}, fmt.Errorf("evaluation end %s before start %s", end.Render(), start.Render())
	}

	return validate.Window{Start: start, End: end}, nil
}

// Policy builds the rule policy.
func (c *Config) Policy() (validate.Policy, error) {
	w, err := c.Window()
	if err != nil {
		return validate.Policy{}, err
	}

	p := validate.DefaultPolicy(w, c.Evaluation.RetirementAge)
	p.DeviationPercent = decimal.NewFromFloat(c.Thresholds.DeviationPercent)
	p.MandatoryCategories = c.Thresholds.MandatoryCategories
	p.ScanRows = c.Thresholds.ScanRows
	p.ScanCols = c.Thresholds.ScanCols

	return p, nil
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	var errs []error

	if c.Inputs.Intake == "" {
		errs = append(errs, errors.New("intake workbook is required"))
	}

	if c.Inputs.Working == "" {
		errs = append(errs, errors.New("working workbook is required"))
	}

	if _, err := c.Window(); err != nil {
		errs = append(errs, err)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Logging.Format))
	}

	if c.Review.Enabled && c.Review.APIKey == "" {
		errs = append(errs, fmt.Errorf("review enabled but none of %v is set", APIKeyEnv))
	}

	return errors.Join(errs...)
}
