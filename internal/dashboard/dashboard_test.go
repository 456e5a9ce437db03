package dashboard

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/population-dashboard/internal/domain"
	"github.com/couchcryptid/population-dashboard/internal/observability"
)

var testOpts = Options{Title: "Population of Canada", YearMin: 1991, YearMax: 1992}

func newTable(t *testing.T) *domain.Table {
	t.Helper()
	tbl, err := domain.NewTable(
		[]string{"Canada", "Ontario", "Nunavut"},
		[]domain.Row{
			{Quarter: "Q1 1991", Values: []int64{27585000, 10084885, 0}},
			{Quarter: "Q2 1991", Values: []int64{27685730, 10116564, 0}},
			{Quarter: "Q3 1991", Values: []int64{27821520, 10163270, 0}},
			{Quarter: "Q4 1991", Values: []int64{28030000, 10191710, 0}},
			{Quarter: "Q1 1992", Values: []int64{28120065, 10214200, 21500}},
			{Quarter: "Q2 1992", Values: []int64{28199767, 10244200, 21900}},
		},
	)
	require.NoError(t, err)
	return tbl
}

func newService(t *testing.T) (*Service, *observability.Metrics) {
	t.Helper()
	m := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(newTable(t), nil, testOpts, m, logger), m
}

func TestDefaultSelection(t *testing.T) {
	sel := DefaultSelection(newTable(t), testOpts)
	assert.Equal(t, "Q3 1991", sel.Start)
	assert.Equal(t, "Q4 1991", sel.End)
	assert.Equal(t, "Canada", sel.Region)
	assert.Equal(t, []string{"Canada"}, sel.Compare)
}

func TestParseSelection_Empty(t *testing.T) {
	tbl := newTable(t)
	sel, err := ParseSelection(url.Values{}, tbl, testOpts)
	require.NoError(t, err)
	assert.Equal(t, DefaultSelection(tbl, testOpts), sel)
}

func TestParseSelection_Labels(t *testing.T) {
	q := url.Values{
		ParamStart:   {"Q1 1991"},
		ParamEnd:     {"Q4 1991"},
		ParamRegion:  {"Ontario"},
		ParamCompare: {"Ontario", "Nunavut", "Ontario"},
	}
	sel, err := ParseSelection(q, newTable(t), testOpts)
	require.NoError(t, err)
	assert.Equal(t, Selection{
		Start:   "Q1 1991",
		End:     "Q4 1991",
		Region:  "Ontario",
		Compare: []string{"Ontario", "Nunavut"},
	}, sel)
}

func TestParseSelection_Pickers(t *testing.T) {
	q := url.Values{
		ParamStartQuarter: {"Q2"},
		ParamStartYear:    {"1991"},
		ParamEndYear:      {"1992"},
	}
	sel, err := ParseSelection(q, newTable(t), testOpts)
	require.NoError(t, err)
	assert.Equal(t, "Q2 1991", sel.Start)
	assert.Equal(t, "Q4 1992", sel.End, "missing end quarter falls back to the default")
}

func TestParseSelection_QueryRoundTrip(t *testing.T) {
	want := Selection{Start: "Q2 1991", End: "Q1 1992", Region: "Nunavut", Compare: []string{"Canada", "Nunavut"}}
	got, err := ParseSelection(want.Query(), newTable(t), testOpts)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSelection_Regions(t *testing.T) {
	sel := Selection{Region: "Ontario", Compare: []string{"Canada", "Ontario", "Nunavut"}}
	assert.Equal(t, []string{"Ontario", "Canada", "Nunavut"}, sel.Regions())
}

func TestParseSelection_Malformed(t *testing.T) {
	tests := []struct {
		name string
		q    url.Values
	}{
		{"bad label", url.Values{ParamStart: {"1991 Q1"}}},
		{"bad quarter", url.Values{ParamStartQuarter: {"Q5"}}},
		{"year below range", url.Values{ParamEnd: {"Q1 1990"}}},
		{"year above range", url.Values{ParamEndYear: {"2024"}}},
		{"unknown region", url.Values{ParamRegion: {"Atlantis"}}},
		{"unknown compare region", url.Values{ParamCompare: {"Canada", "Atlantis"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSelection(tt.q, newTable(t), testOpts)
			assert.ErrorIs(t, err, ErrBadSelection)
		})
	}
}

func TestParseSelection_LabelMissingFromTableIsNotMalformed(t *testing.T) {
	// Q4 1992 is a valid picker value but the table stops at Q2 1992.
	sel, err := ParseSelection(url.Values{ParamEnd: {"Q4 1992"}}, newTable(t), testOpts)
	require.NoError(t, err)
	assert.Equal(t, "Q4 1992", sel.End)
}

func TestRender_Success(t *testing.T) {
	tbl := newTable(t)
	sel := Selection{Start: "Q1 1991", End: "Q4 1991", Region: "Canada", Compare: []string{"Canada"}}
	v := Render(tbl, domain.DefaultOrdinals, testOpts, sel)

	require.NotNil(t, v.Summary)
	assert.Empty(t, v.Error)
	assert.Empty(t, v.ErrorKind)
	assert.Equal(t, int64(27585000), v.Summary.Initial)
	assert.Equal(t, int64(28030000), v.Summary.Final)
	assert.Equal(t, "1.59%", v.Delta)
	assert.Equal(t, 4, v.Summary.Rows.Len())

	assert.Equal(t, "Q1", v.StartQuarter)
	assert.Equal(t, 1991, v.StartYear)
	assert.Equal(t, "Q4", v.EndQuarter)
	assert.Equal(t, 1991, v.EndYear)
	assert.Equal(t, []int{1991, 1992}, v.Years)
	assert.Equal(t, Quarters, v.Quarters)
	assert.Same(t, tbl, v.Table)
}

func TestRender_NotFound(t *testing.T) {
	sel := Selection{Start: "Q1 1991", End: "Q4 1992", Region: "Canada"}
	v := Render(newTable(t), domain.DefaultOrdinals, testOpts, sel)

	assert.Nil(t, v.Summary)
	assert.Equal(t, KindNotFound, v.ErrorKind)
	assert.Equal(t, MessageNotFound, v.Error)
	assert.Equal(t, "Q4", v.EndQuarter, "form keeps the submitted values")
	assert.Equal(t, 1992, v.EndYear)
}

func TestRender_Inverted(t *testing.T) {
	sel := Selection{Start: "Q4 1991", End: "Q1 1991", Region: "Canada"}
	v := Render(newTable(t), domain.DefaultOrdinals, testOpts, sel)

	assert.Nil(t, v.Summary)
	assert.Equal(t, KindInvertedRange, v.ErrorKind)
	assert.Equal(t, MessageInvertedRange, v.Error)
}

func TestRender_ZeroFinalValue(t *testing.T) {
	sel := Selection{Start: "Q1 1991", End: "Q4 1991", Region: "Nunavut"}
	v := Render(newTable(t), domain.DefaultOrdinals, testOpts, sel)

	require.NotNil(t, v.Summary)
	assert.True(t, math.IsNaN(v.Summary.PercentChange))
	assert.Equal(t, "n/a", v.Delta)
}

func TestRender_UsesGivenOrdinals(t *testing.T) {
	calls := 0
	counting := domain.Ordinals(func(label string) float64 {
		calls++
		return domain.QuarterOrdinal(label)
	})
	sel := Selection{Start: "Q1 1991", End: "Q4 1991", Region: "Canada"}
	v := Render(newTable(t), counting, testOpts, sel)

	assert.Empty(t, v.ErrorKind)
	assert.Equal(t, 2, calls)
}

func TestFormatDelta(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.59, "1.59%"},
		{0, "0.0%"},
		{-2.5, "-2.5%"},
		{12, "12.0%"},
		{math.Inf(-1), "n/a"},
		{math.NaN(), "n/a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDelta(tt.in))
	}
}

func TestMessage_OtherError(t *testing.T) {
	_, err := newTable(t).Column("Atlantis")
	require.Error(t, err)
	assert.Empty(t, ErrorKind(err))
	assert.Equal(t, err.Error(), Message(err))
}

func TestService_CountsValidationFailures(t *testing.T) {
	svc, m := newService(t)

	svc.Render(Selection{Start: "Q4 1991", End: "Q1 1991", Region: "Canada"})
	_, err := svc.Summarize(Selection{Start: "Q1 1980", End: "Q1 1991", Region: "Canada"})
	require.ErrorIs(t, err, domain.ErrNotFound)
	svc.Render(Selection{Start: "Q1 1991", End: "Q2 1991", Region: "Canada"})

	assert.InDelta(t, 1, testutil.ToFloat64(m.ValidationFailures.WithLabelValues(KindInvertedRange)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ValidationFailures.WithLabelValues(KindNotFound)), 0)
}

func TestService_TableGauges(t *testing.T) {
	_, m := newService(t)
	assert.InDelta(t, 6, testutil.ToFloat64(m.TableRows), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.TableRegions), 0)
}

func TestService_CheckReadiness(t *testing.T) {
	svc, _ := newService(t)
	require.NoError(t, svc.CheckReadiness(context.Background()))

	empty := &Service{}
	require.Error(t, empty.CheckReadiness(context.Background()))
}

func TestService_ParseSelection(t *testing.T) {
	svc, _ := newService(t)
	sel, err := svc.ParseSelection(url.Values{ParamRegion: {"Ontario"}})
	require.NoError(t, err)
	assert.Equal(t, "Ontario", sel.Region)
	assert.Same(t, svc.Table(), svc.Table())
}

func TestService_LogsRenders(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := NewService(newTable(t), nil, testOpts, observability.NewMetricsForTesting(), logger)

	svc.Render(Selection{Start: "Q4 1991", End: "Q1 1991", Region: "Ontario"})

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, `msg="dashboard rendered"`)
	assert.Contains(t, out, `start="Q4 1991"`)
	assert.Contains(t, out, "region=Ontario")
	assert.Contains(t, out, "error_kind=inverted_range")
}

func TestService_QuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	svc := NewService(newTable(t), nil, testOpts, observability.NewMetricsForTesting(), logger)

	svc.Render(Selection{Start: "Q1 1991", End: "Q4 1991", Region: "Canada"})
	assert.Empty(t, buf.String())
}
