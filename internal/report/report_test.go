package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/population-dashboard/internal/domain"
)

func newTable(t *testing.T) *domain.Table {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.March, 19, 8, 15, 0, 0, time.FixedZone("EDT", -4*3600))))
	t.Cleanup(func() { domain.SetClock(nil) })

	tbl, err := domain.NewTable(
		[]string{"Canada", "Ontario", "Yukon"},
		[]domain.Row{
			{Quarter: "Q1 1991", Values: []int64{27585000, 10084885, 28000}},
			{Quarter: "Q2 1991", Values: []int64{27685730, 10116564, 27900}},
			{Quarter: "Q3 1991", Values: []int64{27821520, 10163270, 27800}},
			{Quarter: "Q4 1991", Values: []int64{28030000, 10191710, 27700}},
		},
	)
	require.NoError(t, err)
	tbl.Source = "testdata/population.csv"
	tbl.Hash = "abc123"
	return tbl
}

func TestWriteSummary(t *testing.T) {
	s, err := domain.Summarize(newTable(t), "Q1 1991", "Q4 1991", "Canada")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, s, []string{"Canada", "Ontario"}, false))

	out := buf.String()
	assert.Contains(t, out, "Q1 1991")
	assert.Contains(t, out, "10,191,710")
	assert.Contains(t, out, "Population change from Q1 1991 to Q4 1991")
	assert.Contains(t, out, "Canada: 28,030,000 (1.59% ▲)")
	assert.NotContains(t, out, "Yukon")
}

func TestWriteSummary_Decline(t *testing.T) {
	s, err := domain.Summarize(newTable(t), "Q1 1991", "Q4 1991", "Yukon")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, s, []string{"Yukon"}, false))
	assert.Contains(t, buf.String(), "Yukon: 27,700 (-1.08% ▼)")
}

func TestWriteSummary_UnknownRegion(t *testing.T) {
	s, err := domain.Summarize(newTable(t), "Q1 1991", "Q2 1991", "Canada")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = WriteSummary(&buf, s, []string{"Atlantis"}, false)
	assert.ErrorIs(t, err, domain.ErrUnknownRegion)
}

func TestWriteTableCheck(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTableCheck(&buf, newTable(t)))

	out := buf.String()
	assert.Contains(t, out, "Source: testdata/population.csv")
	assert.Contains(t, out, "SHA-256: abc123")
	assert.Contains(t, out, "Loaded: 2024-03-19T12:15:00Z", "load time is reported in UTC")
	assert.Contains(t, out, "Quarters: 4 (Q1 1991 to Q4 1991)")
	assert.Contains(t, out, "Regions: 3")
	assert.Contains(t, out, "28,030,000")
	assert.Contains(t, out, "1.59%")
}
