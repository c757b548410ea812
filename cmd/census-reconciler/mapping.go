package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"census-reconciler/internal/mapping"
)

var writeDefault string

var checkMappingCmd = &cobra.Command{
	Use:   "check-mapping [mapping.yaml]",
	Short: "Validate a mapping file, or the built-in layout when none is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if writeDefault != "" {
			if err := mapping.WriteFile(mapping.Default(), writeDefault); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "built-in mapping written to %s\n", writeDefault)

			return nil
		}

		mf := mapping.Default()
		name := "built-in mapping"

		if len(args) == 1 {
			var err error

			mf, err = mapping.LoadFile(args[0])
			if err != nil {
				return err
			}

			name = args[0]
		}

		diags := mapping.Validate(mf, nil)
		for _, d := range diags.All() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", d.Severity, d)
		}

		if !diags.IsValid() {
			return errors.New(name + " is invalid")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid (%d fields, %d departed fields)\n",
			name, len(mf.Fields), len(mf.Departed.Fields))

		return nil
	},
}

func init() {
	checkMappingCmd.Flags().StringVar(&writeDefault, "write-default", "", "write the built-in mapping to this path and exit")
}
