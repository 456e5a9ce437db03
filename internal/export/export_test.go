package export

import (
	"bytes"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/population-dashboard/internal/domain"
)

func newTable(t *testing.T) *domain.Table {
	t.Helper()
	tbl, err := domain.NewTable(
		[]string{"Canada", "Quebec", "Ontario"},
		[]domain.Row{
			{Quarter: "Q3 1991", Values: []int64{27821520, 7035860, 10163270}},
			{Quarter: "Q4 1991", Values: []int64{28030000, 7065550, 10191710}},
		},
	)
	require.NoError(t, err)
	return tbl
}

func TestRecords(t *testing.T) {
	records, err := Records(newTable(t), []string{"Ontario", "Canada"})
	require.NoError(t, err)

	assert.Equal(t, []Record{
		{Quarter: "Q3 1991", Ordinal: 1991.5, Region: "Ontario", Population: 10163270},
		{Quarter: "Q3 1991", Ordinal: 1991.5, Region: "Canada", Population: 27821520},
		{Quarter: "Q4 1991", Ordinal: 1991.75, Region: "Ontario", Population: 10191710},
		{Quarter: "Q4 1991", Ordinal: 1991.75, Region: "Canada", Population: 28030000},
	}, records)
}

func TestRecords_UnknownRegion(t *testing.T) {
	_, err := Records(newTable(t), []string{"Atlantis"})
	assert.ErrorIs(t, err, domain.ErrUnknownRegion)
}

func TestWriteParquet_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, newTable(t), []string{"Quebec"}))

	rows, err := parquet.Read[Record](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Q3 1991", rows[0].Quarter)
	assert.Equal(t, int64(7065550), rows[1].Population)
	assert.Equal(t, "Quebec", rows[1].Region)
}
