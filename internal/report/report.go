// Package report prints population summaries and table checks to a terminal.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/couchcryptid/population-dashboard/internal/dashboard"
	"github.com/couchcryptid/population-dashboard/internal/domain"
)

// WriteSummary renders the sliced rows of s for the given regions, followed by
// the target region's final value and percentage change.
func WriteSummary(w io.Writer, s domain.Summary, regions []string, useColors bool) error {
	if err := writeRows(w, s.Rows, regions); err != nil {
		return err
	}

	var green, red func(...any) string
	if useColors {
		green = color.New(color.FgGreen).SprintFunc()
		red = color.New(color.FgRed).SprintFunc()
	} else {
		green = fmt.Sprint
		red = fmt.Sprint
	}

	delta := dashboard.FormatDelta(s.PercentChange)
	switch {
	case s.Final > s.Initial:
		delta = green(delta + " ▲")
	case s.Final < s.Initial:
		delta = red(delta + " ▼")
	}

	if _, err := fmt.Fprintf(w, "Population change from %s to %s\n", s.Start, s.End); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s: %s (%s)\n", s.Region, humanize.Comma(s.Final), delta)
	return err
}

// WriteTableCheck prints the shape of a loaded table and the first and last
// value of each region.
func WriteTableCheck(w io.Writer, t *domain.Table) error {
	labels := t.Labels()
	if len(labels) == 0 {
		return fmt.Errorf("table has no rows")
	}
	first, last := labels[0], labels[len(labels)-1]

	if _, err := fmt.Fprintf(w, "Source: %s\nSHA-256: %s\nLoaded: %s\nQuarters: %d (%s to %s)\nRegions: %d\n",
		t.Source, t.Hash, t.LoadedAt.UTC().Format(time.RFC3339), t.Len(), first, last, len(t.Regions)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Region", first, last, "Change"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(t.Regions))
	for _, region := range t.Regions {
		col, err := t.Column(region)
		if err != nil {
			return err
		}
		initial, final := col[0], col[len(col)-1]
		data = append(data, []string{
			region,
			humanize.Comma(initial),
			humanize.Comma(final),
			dashboard.FormatDelta(domain.PercentChange(initial, final)),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeRows(w io.Writer, t *domain.Table, regions []string) error {
	cols := make([][]int64, len(regions))
	for i, region := range regions {
		col, err := t.Column(region)
		if err != nil {
			return err
		}
		cols[i] = col
	}

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header(append([]string{"Quarter"}, regions...))
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, t.Len())
	for k, row := range t.Rows {
		line := []string{row.Quarter}
		for i := range regions {
			line = append(line, humanize.Comma(cols[i][k]))
		}
		data = append(data, line)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
