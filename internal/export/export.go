// Package export writes sliced population data to Parquet using
// github.com/parquet-go/parquet-go.
package export

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/couchcryptid/population-dashboard/internal/domain"
)

// Record is one region's population for one quarter (long format).
type Record struct {
	// Quarter is the label, e.g. "Q2 1991"
	Quarter string `parquet:"quarter,snappy"`

	// Ordinal is year + 0/0.25/0.5/0.75 and sorts chronologically
	Ordinal float64 `parquet:"ordinal,snappy"`

	// Region is the table column the value was read from
	Region string `parquet:"region,snappy"`

	// Population is the estimated head count
	Population int64 `parquet:"population,snappy"`
}

// Records flattens t into long format, quarter-major, regions in the given order.
func Records(t *domain.Table, regions []string) ([]Record, error) {
	cols := make([][]int64, len(regions))
	for i, region := range regions {
		col, err := t.Column(region)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}

	records := make([]Record, 0, t.Len()*len(regions))
	for k, row := range t.Rows {
		ord := domain.QuarterOrdinal(row.Quarter)
		for i, region := range regions {
			records = append(records, Record{
				Quarter:    row.Quarter,
				Ordinal:    ord,
				Region:     region,
				Population: cols[i][k],
			})
		}
	}
	return records, nil
}

// WriteParquet encodes the selected regions of t as a Parquet file on w.
func WriteParquet(w io.Writer, t *domain.Table, regions []string) error {
	records, err := Records(t, regions)
	if err != nil {
		return err
	}

	writer := parquet.NewGenericWriter[Record](w)
	if _, err := writer.Write(records); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write records to parquet: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet output: %w", err)
	}
	return nil
}
