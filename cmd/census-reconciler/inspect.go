package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"census-reconciler/internal/census"
	"census-reconciler/internal/mapping"
	"census-reconciler/internal/match"
	"census-reconciler/internal/sheet"
)

var inspectFlags struct {
	mapping string
	csv     bool
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <intake>",
	Short: "Show how the intake headers bind to canonical fields",
	Long: `inspect resolves the header rows of the active and departed rosters and
dumps the binding table with the diagnostics it produced. With --csv the
argument is a departed roster CSV export.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mf := mapping.Default()

		if inspectFlags.mapping != "" {
			var err error

			mf, err = mapping.LoadFile(inspectFlags.mapping)
			if err != nil {
				return err
			}
		}

		cfg := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}
		w := cmd.OutOrStdout()

		if inspectFlags.csv {
			g, err := sheet.LoadCSV(args[0], mf.Departed.Sheet)
			if err != nil {
				return err
			}

			b, diags := census.Bind(g, mf.Departed.HeaderRow, mf.DepartedRules())
			fmt.Fprintf(w, "== %s (csv)\n", args[0])
			cfg.Fdump(w, b, diags.All())

			return nil
		}

		wb, err := sheet.Open(args[0])
		if err != nil {
			return err
		}
		defer wb.Close()

		fmt.Fprintf(w, "sheets: %v\n", wb.SheetNames())

		departed := mf.Departed.SheetSpec
		if name, ok := mf.Departed.Locate(wb.SheetNames()); ok {
			departed.Sheet = name
		}

		for _, r := range []struct {
			spec  mapping.SheetSpec
			rules []match.Rule
		}{
			{mf.Source, mf.SourceRules()},
			{departed, mf.DepartedRules()},
		} {
			g, ok := wb.Grid(r.spec.Sheet)
			if !ok {
				fmt.Fprintf(w, "== %s: not found\n", r.spec.Sheet)
				continue
			}

			b, diags := census.Bind(g, r.spec.HeaderRow, r.rules)
			fmt.Fprintf(w, "== %s\n", r.spec.Sheet)
			cfg.Fdump(w, b, diags.All())
		}

		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFlags.mapping, "mapping", "", "mapping file (default built-in layout)")
	inspectCmd.Flags().BoolVar(&inspectFlags.csv, "csv", false, "treat the argument as a departed roster CSV")
}
