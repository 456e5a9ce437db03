package dashboard

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"github.com/couchcryptid/population-dashboard/internal/domain"
)

// Quarters are the options of the quarter pickers.
var Quarters = []string{"Q1", "Q2", "Q3", "Q4"}

// Query parameter names shared by the form, chart and export URLs.
const (
	ParamStart        = "start"
	ParamEnd          = "end"
	ParamStartQuarter = "start_quarter"
	ParamStartYear    = "start_year"
	ParamEndQuarter   = "end_quarter"
	ParamEndYear      = "end_year"
	ParamRegion       = "region"
	ParamCompare      = "compare"
)

// ErrBadSelection wraps malformed selection input (as opposed to a well-formed
// range that fails validation).
var ErrBadSelection = errors.New("bad selection")

// Selection is one submission of the dashboard form.
type Selection struct {
	Start   string
	End     string
	Region  string
	Compare []string // regions overlaid on the comparison chart
}

// Query encodes the selection as URL query parameters.
func (s Selection) Query() url.Values {
	q := url.Values{}
	q.Set(ParamStart, s.Start)
	q.Set(ParamEnd, s.End)
	q.Set(ParamRegion, s.Region)
	for _, c := range s.Compare {
		q.Add(ParamCompare, c)
	}
	return q
}

// Regions returns the target region followed by the comparison regions,
// without duplicates.
func (s Selection) Regions() []string {
	out := []string{s.Region}
	for _, c := range s.Compare {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// DefaultSelection is the selection shown before the form is submitted:
// Q3 to Q4 of the first selectable year for the first region.
func DefaultSelection(t *domain.Table, opts Options) Selection {
	region := ""
	if len(t.Regions) > 0 {
		region = t.Regions[0]
	}
	return Selection{
		Start:   fmt.Sprintf("Q3 %d", opts.YearMin),
		End:     fmt.Sprintf("Q4 %d", opts.YearMin),
		Region:  region,
		Compare: []string{region},
	}
}

// ParseSelection reads a selection from query parameters. Start and end are
// taken from "start"/"end" labels when present, otherwise from the
// quarter/year picker pairs. Missing values fall back to DefaultSelection.
// Labels outside the table are not an error here; ValidateRange reports them.
func ParseSelection(q url.Values, t *domain.Table, opts Options) (Selection, error) {
	def := DefaultSelection(t, opts)

	start, err := parseLabel(q, ParamStart, ParamStartQuarter, ParamStartYear, def.Start, opts)
	if err != nil {
		return Selection{}, err
	}
	end, err := parseLabel(q, ParamEnd, ParamEndQuarter, ParamEndYear, def.End, opts)
	if err != nil {
		return Selection{}, err
	}

	region := q.Get(ParamRegion)
	if region == "" {
		region = def.Region
	}
	if !t.HasRegion(region) {
		return Selection{}, fmt.Errorf("%w: unknown region %q", ErrBadSelection, region)
	}

	var compare []string
	for _, c := range q[ParamCompare] {
		if !t.HasRegion(c) {
			return Selection{}, fmt.Errorf("%w: unknown region %q", ErrBadSelection, c)
		}
		if !slices.Contains(compare, c) {
			compare = append(compare, c)
		}
	}
	if len(compare) == 0 {
		compare = []string{region}
	}

	return Selection{Start: start, End: end, Region: region, Compare: compare}, nil
}

func parseLabel(q url.Values, labelKey, quarterKey, yearKey, fallback string, opts Options) (string, error) {
	label := q.Get(labelKey)
	if label == "" {
		quarter, year := q.Get(quarterKey), q.Get(yearKey)
		if quarter == "" && year == "" {
			return fallback, nil
		}
		def, _ := domain.ParseQuarter(fallback)
		if quarter == "" {
			quarter = fmt.Sprintf("Q%d", def.Number)
		}
		if year == "" {
			year = strconv.Itoa(def.Year)
		}
		label = quarter + " " + year
	}

	parsed, err := domain.ParseQuarter(label)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadSelection, err)
	}
	if parsed.Year < opts.YearMin || parsed.Year > opts.YearMax {
		return "", fmt.Errorf("%w: year %d outside %d-%d", ErrBadSelection, parsed.Year, opts.YearMin, opts.YearMax)
	}
	return label, nil
}
