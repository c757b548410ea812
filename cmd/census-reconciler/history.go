package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"census-reconciler/internal/archive"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List archived runs, or the findings of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("archive-path") {
			cfg.Archive.Path = runFlags.archivePath
		}

		store, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()

		if len(args) == 0 {
			runs, err := store.Runs(cmd.Context(), historyLimit)
			if err != nil {
				return err
			}

			fmt.Fprintln(w, "RUN\tSTARTED\tWINDOW\tCOPIED\tFINDINGS\tINTAKE")

			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s-%s\t%d\t%d\t%s\n",
					r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), r.WindowStart, r.WindowEnd,
					r.Copied, r.Findings, r.IntakeFile)
			}

			return nil
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("failed to parse run id: %w", err)
		}

		if _, err := store.Run(cmd.Context(), id); err != nil {
			return err
		}

		findings, err := store.Findings(cmd.Context(), id)
		if err != nil {
			return err
		}

		fmt.Fprintln(w, "KIND\tSHEET\tEMPLOYEE\tDETAIL")

		for _, f := range findings {
			sheet := f.Sheet
			if f.Cell != "" {
				sheet += "!" + f.Cell
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Kind, sheet, f.EmployeeID, f.Detail)
		}

		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to list")
	historyCmd.Flags().StringVar(&runFlags.archivePath, "archive-path", "", "archive database path")
}
