// Package main provides the CLI entrypoint for census-reconciler.
//
// census-reconciler prepares a pension-liability census for valuation:
//   - copies the client's active roster into the error-check workbook
//   - normalizes dates and repairs birth-year anomalies on the way
//   - runs the census rule battery and writes a follow-up report
//   - optionally asks a language model to review every sheet
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"census-reconciler/internal/config"
	"census-reconciler/internal/logging"
)

var (
	configPath string
	envFile    string
	verbose    bool
	logFormat  string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "census-reconciler",
	Short: "Reconcile a pension-liability census workbook",
	Long: `census-reconciler copies the active roster of an intake workbook into the
error-check workbook, normalizes dates on the way and validates both rosters.

The working workbook is saved under a new name; source files are never modified.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		logger, err = logging.New(verbose, logFormat)

		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "run configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file holding the reviewer API key")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format: console or json")

	rootCmd.AddCommand(runCmd, checkMappingCmd, inspectCmd, historyCmd)
}

// loadConfig reads --config over the defaults and the environment.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configPath != "" {
		var err error

		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	}

	if err := cfg.LoadEnv(envFile); err != nil {
		return nil, err
	}

	return cfg, nil
}

// configureLogger replaces the flag-built logger with one built from the
// effective logging settings of the run configuration.
func configureLogger(c config.LoggingConfig) error {
	l, err := logging.New(c.Verbose, c.Format)
	if err != nil {
		return err
	}

	if logger != nil {
		_ = logger.Sync()
	}

	logger = l

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("command failed", zap.Error(err))
			_ = logger.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}

		os.Exit(1)
	}
}
