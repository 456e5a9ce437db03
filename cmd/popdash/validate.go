package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/population-dashboard/internal/report"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the population CSV and check its structure.",
	Long: `Validate loads the population CSV and reports its shape.

Loading fails when:
- the first column is not "Quarter"
- a quarter label is not "Q{1-4} {year}"
- quarters are not strictly increasing
- a value is not a non-negative integer
- a row has the wrong number of values`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := loadCLIApp(cmd)
		if err != nil {
			return err
		}
		if err := report.WriteTableCheck(cmd.OutOrStdout(), a.table); err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "OK")
		return err
	},
}
