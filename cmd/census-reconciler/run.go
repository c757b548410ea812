package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"census-reconciler/internal/archive"
	"census-reconciler/internal/config"
	"census-reconciler/internal/pipeline"
	"census-reconciler/internal/review"
	"census-reconciler/internal/validate"
)

var runFlags struct {
	intake        string
	working       string
	departedCSV   string
	output        string
	mapping       string
	start         string
	end           string
	retirementAge int
	report        string
	review        bool
	archive       bool
	archivePath   string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Copy the active roster, validate the census and write the report",
	Example: `  census-reconciler run --intake 확정급여채무평가_작성요청.xlsx --working "error check.xls" \
    --start 20240101 --end 20241231 --retirement-age 60`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		applyRunFlags(cmd, cfg)

		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := configureLogger(cfg.Logging); err != nil {
			return err
		}

		opts, err := pipeline.FromConfig(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Review.Enabled {
			model, err := review.NewGenAIModel(ctx, cfg.Review.APIKey, cfg.Review.Model)
			if err != nil {
				return err
			}

			opts.Reviewer = review.New(model, logger,
				review.WithMaxRows(cfg.Review.MaxRows),
				review.WithConcurrency(cfg.Review.Concurrency))
		}

		if cfg.Archive.Enabled {
			store, err := archive.Open(cfg.Archive.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			opts.Archive = store
		}

		out, err := pipeline.New(logger).Run(ctx, opts)
		if err != nil {
			return err
		}

		printOutcome(cmd, out)

		return nil
	},
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.intake, "intake", "", "intake workbook (.xlsx or .xls)")
	f.StringVar(&runFlags.working, "working", "", "error-check workbook (.xlsx or .xls)")
	f.StringVar(&runFlags.departedCSV, "departed-csv", "", "departed roster CSV export replacing the intake sheet")
	f.StringVarP(&runFlags.output, "output", "o", "", "output workbook (default <working>"+pipeline.OutputSuffix+")")
	f.StringVar(&runFlags.mapping, "mapping", "", "mapping file (default built-in layout)")
	f.StringVar(&runFlags.start, "start", "", "evaluation start, YYYYMMDD")
	f.StringVar(&runFlags.end, "end", "", "evaluation end, YYYYMMDD")
	f.IntVar(&runFlags.retirementAge, "retirement-age", config.DefaultRetirementAge, "retirement age")
	f.StringVar(&runFlags.report, "report", "", "report path, relative to the output directory")
	f.BoolVar(&runFlags.review, "review", false, "review every intake sheet with Gemini")
	f.BoolVar(&runFlags.archive, "archive", false, "record the run in the SQLite archive")
	f.StringVar(&runFlags.archivePath, "archive-path", "", "archive database path")
}

// applyRunFlags lets explicitly set flags override the configuration file.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}

	set("intake", func() { cfg.Inputs.Intake = runFlags.intake })
	set("working", func() { cfg.Inputs.Working = runFlags.working })
	set("departed-csv", func() { cfg.Inputs.DepartedCSV = runFlags.departedCSV })
	set("output", func() { cfg.Inputs.Output = runFlags.output })
	set("mapping", func() { cfg.Inputs.Mapping = runFlags.mapping })
	set("start", func() { cfg.Evaluation.Start = runFlags.start })
	set("end", func() { cfg.Evaluation.End = runFlags.end })
	set("retirement-age", func() { cfg.Evaluation.RetirementAge = runFlags.retirementAge })
	set("report", func() { cfg.Report.Path = runFlags.report })
	set("review", func() { cfg.Review.Enabled = runFlags.review })
	set("archive", func() { cfg.Archive.Enabled = runFlags.archive })
	set("archive-path", func() { cfg.Archive.Path = runFlags.archivePath })
	set("verbose", func() { cfg.Logging.Verbose = verbose })
	set("log-format", func() { cfg.Logging.Format = logFormat })
}

func printOutcome(cmd *cobra.Command, out *pipeline.Outcome) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "run %s\n", out.RunID)
	fmt.Fprintf(w, "  copied rows:   %d\n", out.Copied)
	fmt.Fprintf(w, "  departed rows: %d\n", out.Departed)
	fmt.Fprintf(w, "  findings:      %d\n", out.Result.Count())

	for _, k := range validate.Kinds() {
		if n := out.Result.Summary.Count(k); n > 0 {
			fmt.Fprintf(w, "    %-40s %d\n", k.Title(), n)
		}
	}

	if len(out.Result.Retirees) > 0 {
		fmt.Fprintf(w, "  retirees:      %d\n", len(out.Result.Retirees))
	}

	for _, d := range out.Diagnostics.Warnings {
		logger.Warn("binding", zap.String("diagnostic", d.String()))
	}

	fmt.Fprintf(w, "  output:        %s\n", out.OutputPath)
	fmt.Fprintf(w, "  report:        %s\n", out.ReportPath)
}
