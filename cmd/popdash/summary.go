package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/population-dashboard/internal/dashboard"
	"github.com/couchcryptid/population-dashboard/internal/report"
)

// selectionFlags are the range and region flags shared by summary and export.
type selectionFlags struct {
	start   string
	end     string
	region  string
	compare []string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", `first quarter, e.g. "Q1 1991" (default Q3 of YEAR_MIN)`)
	cmd.Flags().StringVar(&f.end, "end", "", `last quarter, e.g. "Q4 1991" (default Q4 of YEAR_MIN)`)
	cmd.Flags().StringVar(&f.region, "region", "", "target region (default the first column)")
	cmd.Flags().StringSliceVar(&f.compare, "compare", nil, "additional regions to include")
}

// selection resolves the flags the same way the dashboard resolves a query.
func (f *selectionFlags) selection(svc *dashboard.Service) (dashboard.Selection, error) {
	sel := dashboard.Selection{Start: f.start, End: f.end, Region: f.region, Compare: f.compare}
	q := sel.Query()
	for key, vals := range q {
		if len(vals) == 1 && vals[0] == "" {
			q.Del(key)
		}
	}
	return svc.ParseSelection(q)
}

var (
	summaryFlags selectionFlags
	noColor      bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the population change for a quarter range.",
	Example: `  popdash summary --start "Q1 1991" --end "Q4 1991" --region Canada
  popdash summary --start "Q1 2000" --end "Q4 2020" --region Alberta --compare Ontario,Quebec`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := loadCLIApp(cmd)
		if err != nil {
			return err
		}
		svc := a.service()

		sel, err := summaryFlags.selection(svc)
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

		return report.WriteSummary(cmd.OutOrStdout(), summary, sel.Regions(), !noColor && !color.NoColor)
	},
}

func init() {
	summaryFlags.register(summaryCmd)
	summaryCmd.Flags().BoolVar(&noColor, "no-color", false, "disable coloured output")
}
