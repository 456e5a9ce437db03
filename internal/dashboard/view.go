// Package dashboard turns a form selection into the dashboard view model.
package dashboard

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/couchcryptid/population-dashboard/internal/domain"
)

// Validation failure kinds, as reported to users and metrics.
const (
	KindNotFound      = "not_found"
	KindInvertedRange = "inverted_range"
)

// Inline messages shown in place of the results.
const (
	MessageNotFound      = "Please re-check your date"
	MessageInvertedRange = "End date should be later than start date"
)

// Options are the fixed presentation settings of the dashboard.
type Options struct {
	Title     string
	SourceURL string
	YearMin   int
	YearMax   int
}

// View is everything the page template needs for one request.
type View struct {
	Title     string
	SourceURL string

	// Form options.
	Quarters []string
	Years    []int
	Regions  []string

	// Form state.
	Selection    Selection
	StartQuarter string
	StartYear    int
	EndQuarter   string
	EndYear      int

	// Exactly one of Error or Summary is set.
	Error     string
	ErrorKind string
	Summary   *domain.Summary
	Delta     string

	// Full raw table for the expandable view.
	Table *domain.Table
}

// Render is the pure selection → view function behind every page request.
func Render(t *domain.Table, ordinals domain.Ordinals, opts Options, sel Selection) View {
	v := View{
		Title:     opts.Title,
		SourceURL: opts.SourceURL,
		Quarters:  Quarters,
		Years:     years(opts.YearMin, opts.YearMax),
		Regions:   t.Regions,
		Selection: sel,
		Table:     t,
	}
	if q, err := domain.ParseQuarter(sel.Start); err == nil {
		v.StartQuarter, v.StartYear = fmt.Sprintf("Q%d", q.Number), q.Year
	}
	if q, err := domain.ParseQuarter(sel.End); err == nil {
		v.EndQuarter, v.EndYear = fmt.Sprintf("Q%d", q.Number), q.Year
	}

	summary, err := ordinals.Summarize(t, sel.Start, sel.End, sel.Region)
	if err != nil {
		v.ErrorKind = ErrorKind(err)
		v.Error = Message(err)
		return v
	}
	v.Summary = &summary
	v.Delta = FormatDelta(summary.PercentChange)
	return v
}

// ErrorKind classifies a validation error; it returns "" for other errors.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return KindNotFound
	case errors.Is(err, domain.ErrInvertedRange):
		return KindInvertedRange
	default:
		return ""
	}
}

// Message returns the inline message for a validation error.
func Message(err error) string {
	switch ErrorKind(err) {
	case KindNotFound:
		return MessageNotFound
	case KindInvertedRange:
		return MessageInvertedRange
	default:
		return err.Error()
	}
}

// FormatDelta renders a percentage the way the metric widget shows it:
// "1.59%", "0.0%", "-2.5%". Non-finite values render as "n/a".
func FormatDelta(pct float64) string {
	if math.IsInf(pct, 0) || math.IsNaN(pct) {
		return "n/a"
	}
	if pct == math.Trunc(pct) {
		return strconv.FormatFloat(pct, 'f', 1, 64) + "%"
	}
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

func years(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	out := make([]int, 0, hi-lo+1)
	for y := lo; y <= hi; y++ {
		out = append(out, y)
	}
	return out
}
