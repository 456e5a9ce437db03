package domain

import (
	"fmt"
	"math"
	"strconv"
)

// Summary is the outcome of a validated range selection for one region.
type Summary struct {
	Region        string
	Start         string
	End           string
	Initial       int64
	Final         int64
	PercentChange float64
	Rows          *Table // start..end inclusive, all regions
}

// ValidateRange checks a start/end selection using the canonical ordinals.
func ValidateRange(t *Table, start, end string) error {
	return DefaultOrdinals.ValidateRange(t, start, end)
}

// Summarize validates the range and aggregates region over it using the
// canonical ordinals.
func Summarize(t *Table, start, end, region string) (Summary, error) {
	return DefaultOrdinals.Summarize(t, start, end, region)
}

// ValidateRange fails with ErrNotFound when either label is missing from the
// table and with ErrInvertedRange when start is chronologically after end.
// Equal labels form a valid single-quarter range.
func (o Ordinals) ValidateRange(t *Table, start, end string) error {
	_, okStart := t.IndexOf(start)
	_, okEnd := t.IndexOf(end)
	if !okStart || !okEnd {
		return &RangeError{Kind: ErrNotFound, Start: start, End: end}
	}
	if o(start) > o(end) {
		return &RangeError{Kind: ErrInvertedRange, Start: start, End: end}
	}
	return nil
}

// Summarize validates the range, slices the table and computes the first and
// last value of region along with the percentage change.
func (o Ordinals) Summarize(t *Table, start, end, region string) (Summary, error) {
	if err := o.ValidateRange(t, start, end); err != nil {
		return Summary{}, err
	}
	if !t.HasRegion(region) {
		return Summary{}, fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}

	initial, err := t.Value(start, region)
	if err != nil {
		return Summary{}, err
	}
	final, err := t.Value(end, region)
	if err != nil {
		return Summary{}, err
	}
	rows, err := t.Slice(start, end)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Region:        region,
		Start:         start,
		End:           end,
		Initial:       initial,
		Final:         final,
		PercentChange: PercentChange(initial, final),
		Rows:          rows,
	}, nil
}

// PercentChange returns (final - initial) / final * 100 rounded to two
// decimals. The denominator is the final value; final == 0 gives ±Inf, or NaN
// when initial is also zero.
func PercentChange(initial, final int64) float64 {
	pct := float64(final-initial) / float64(final) * 100
	return roundTo(pct, 2)
}

// roundTo rounds the exact binary value of v to places decimals, so a float
// stored just below a decimal tie rounds down.
func roundTo(v float64, places int) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}
