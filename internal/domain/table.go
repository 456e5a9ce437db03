package domain

import (
	"errors"
	"fmt"
	"time"
)

// QuarterColumn is the header of the label column in the source CSV.
const QuarterColumn = "Quarter"

// Row is one quarter of the population table. Values are aligned with the
// owning table's Regions.
type Row struct {
	Quarter string
	Values  []int64
}

// Table is the immutable, chronologically ordered population table.
type Table struct {
	Regions []string
	Rows    []Row

	// Provenance, filled in by the loader.
	Source   string
	Hash     string
	LoadedAt time.Time

	rowIndex    map[string]int
	regionIndex map[string]int
}

// NewTable builds a Table and enforces its invariants: at least one region,
// unique region names, well-formed labels in strictly increasing order, one
// non-negative value per region on every row.
func NewTable(regions []string, rows []Row) (*Table, error) {
	if len(regions) == 0 {
		return nil, errors.New("table has no region columns")
	}

	t := &Table{
		Regions:     regions,
		Rows:        rows,
		LoadedAt:    clock.Now(),
		rowIndex:    make(map[string]int, len(rows)),
		regionIndex: make(map[string]int, len(regions)),
	}

	for i, r := range regions {
		if r == "" || r == QuarterColumn {
			return nil, fmt.Errorf("invalid region column %d: %q", i+1, r)
		}
		if _, dup := t.regionIndex[r]; dup {
			return nil, fmt.Errorf("duplicate region column %q", r)
		}
		t.regionIndex[r] = i
	}

	prev := -1.0
	for i, row := range rows {
		q, err := ParseQuarter(row.Quarter)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		ord := q.Ordinal()
		if ord <= prev {
			return nil, fmt.Errorf("row %d: quarter %q is not after the previous row", i+1, row.Quarter)
		}
		prev = ord
		if len(row.Values) != len(regions) {
			return nil, fmt.Errorf("row %d (%s): got %d values, want %d", i+1, row.Quarter, len(row.Values), len(regions))
		}
		for j, v := range row.Values {
			if v < 0 {
				return nil, fmt.Errorf("row %d (%s): negative population %d for %s", i+1, row.Quarter, v, regions[j])
			}
		}
		t.rowIndex[row.Quarter] = i
	}

	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Labels returns the quarter labels in table order.
func (t *Table) Labels() []string {
	labels := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		labels[i] = r.Quarter
	}
	return labels
}

// IndexOf returns the row index of a quarter label.
func (t *Table) IndexOf(label string) (int, bool) {
	i, ok := t.rowIndex[label]
	return i, ok
}

// HasRegion reports whether region is a column of the table.
func (t *Table) HasRegion(region string) bool {
	_, ok := t.regionIndex[region]
	return ok
}

// Column returns the values of one region in table order.
func (t *Table) Column(region string) ([]int64, error) {
	j, ok := t.regionIndex[region]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}
	col := make([]int64, len(t.Rows))
	for i, r := range t.Rows {
		col[i] = r.Values[j]
	}
	return col, nil
}

// Value returns the population of region at the given quarter.
func (t *Table) Value(label, region string) (int64, error) {
	i, ok := t.rowIndex[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	j, ok := t.regionIndex[region]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}
	return t.Rows[i].Values[j], nil
}

// Slice returns the contiguous rows from start to end inclusive. The result
// shares row storage with t and keeps every region column.
func (t *Table) Slice(start, end string) (*Table, error) {
	i, ok := t.rowIndex[start]
	if !ok {
		return nil, &RangeError{Kind: ErrNotFound, Start: start, End: end}
	}
	j, ok := t.rowIndex[end]
	if !ok {
		return nil, &RangeError{Kind: ErrNotFound, Start: start, End: end}
	}
	if i > j {
		return nil, &RangeError{Kind: ErrInvertedRange, Start: start, End: end}
	}

	rows := t.Rows[i : j+1 : j+1]
	sub := &Table{
		Regions:     t.Regions,
		Rows:        rows,
		Source:      t.Source,
		Hash:        t.Hash,
		LoadedAt:    t.LoadedAt,
		rowIndex:    make(map[string]int, len(rows)),
		regionIndex: t.regionIndex,
	}
	for k, r := range rows {
		sub.rowIndex[r.Quarter] = k
	}
	return sub, nil
}
