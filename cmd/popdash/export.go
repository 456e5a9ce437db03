package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/population-dashboard/internal/dashboard"
	"github.com/couchcryptid/population-dashboard/internal/export"
)

var (
	exportFlags selectionFlags
	exportOut   string
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Write a quarter range to a Parquet file in long format.",
	Example: `  popdash export --start "Q1 1991" --end "Q4 2023" --region Canada --compare Ontario --out canada.parquet`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := loadCLIApp(cmd)
		if err != nil {
			return err
		}
		svc := a.service()

		sel, err := exportFlags.selection(svc)
		if err != nil {
			return err
		}
		summary, err := svc.Summarize(sel)
		if err != nil {
			if kind := dashboard.ErrorKind(err); kind != "" {
				cmd.PrintErrln(dashboard.Message(err))
			}
			return err
		}

		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		if err := export.WriteParquet(f, summary.Rows, sel.Regions()); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", exportOut, err)
		}

		a.logger.Info("export written",
			"path", exportOut,
			"quarters", summary.Rows.Len(),
			"regions", len(sel.Regions()),
		)
		return nil
	},
}

func init() {
	exportFlags.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "population.parquet", "output file")
}
