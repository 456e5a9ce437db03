package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// quarterOffsets maps a quarter number to its fractional offset within the year.
var quarterOffsets = [...]float64{1: 0, 2: 0.25, 3: 0.5, 4: 0.75}

// Quarter identifies a calendar quarter.
type Quarter struct {
	Year   int
	Number int // 1-4
}

// ParseQuarter parses a label of the form "Q{n} {year}", e.g. "Q2 1991".
func ParseQuarter(label string) (Quarter, error) {
	q, y, ok := strings.Cut(label, " ")
	if !ok || len(q) != 2 || q[0] != 'Q' || q[1] < '1' || q[1] > '4' {
		return Quarter{}, fmt.Errorf("invalid quarter label %q", label)
	}
	if len(y) != 4 {
		return Quarter{}, fmt.Errorf("invalid quarter label %q: year must have 4 digits", label)
	}
	year, err := strconv.Atoi(y)
	if err != nil || year < 0 {
		return Quarter{}, fmt.Errorf("invalid quarter label %q: bad year", label)
	}
	return Quarter{Year: year, Number: int(q[1] - '0')}, nil
}

// Ordinal returns year + 0, 0.25, 0.5 or 0.75 for Q1 through Q4.
func (q Quarter) Ordinal() float64 {
	return float64(q.Year) + quarterOffsets[q.Number]
}

func (q Quarter) String() string {
	return fmt.Sprintf("Q%d %d", q.Number, q.Year)
}

// QuarterOrdinal converts a quarter label into a sortable number.
// Labels are expected to come from the table's own option set; a malformed
// label yields NaN, which compares false against every ordinal.
func QuarterOrdinal(label string) float64 {
	q, err := ParseQuarter(label)
	if err != nil {
		return math.NaN()
	}
	return q.Ordinal()
}

// Ordinals converts quarter labels to ordinals. The zero value is not usable;
// QuarterOrdinal is the canonical implementation and memoized wrappers around
// it are interchangeable.
type Ordinals func(label string) float64

// DefaultOrdinals is the non-memoized converter.
var DefaultOrdinals Ordinals = QuarterOrdinal
