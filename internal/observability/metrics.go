package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	Requests           *prometheus.CounterVec // labels: route, outcome={ok,invalid,bad_request,error}
	ValidationFailures *prometheus.CounterVec // labels: kind={not_found,inverted_range}

	// Chart rendering metrics.
	ChartRenderDuration *prometheus.HistogramVec // labels: chart={target,compare}, format={svg,png}

	// Memoization metrics.
	MemoLookups *prometheus.CounterVec // labels: cache={ordinal,table}, result={hit,miss}

	// Loaded table shape.
	TableRows    prometheus.Gauge
	TableRegions prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all dashboard metrics and registers them with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := NewMetricsForTesting()

	reg.MustRegister(
		m.Requests,
		m.ValidationFailures,
		m.ChartRenderDuration,
		m.MemoLookups,
		m.TableRows,
		m.TableRegions,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "popdash",
			Name:      "requests_total",
			Help:      "Dashboard requests by route and outcome.",
		}, []string{"route", "outcome"}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "popdash",
			Name:      "validation_failures_total",
			Help:      "Rejected date range selections by kind.",
		}, []string{"kind"}),
		ChartRenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "popdash",
			Name:      "chart_render_duration_seconds",
			Help:      "Time spent rendering a chart image.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"chart", "format"}),
		MemoLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "popdash",
			Name:      "memo_lookups_total",
			Help:      "Memoization cache lookups by cache and result.",
		}, []string{"cache", "result"}),
		TableRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "popdash",
			Name:      "table_rows",
			Help:      "Quarters in the loaded population table.",
		}),
		TableRegions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "popdash",
			Name:      "table_regions",
			Help:      "Region columns in the loaded population table.",
		}),
	}
}

// MemoObserver returns a lookup observer that counts hits and misses for the named cache.
func (m *Metrics) MemoObserver(cache string) func(hit bool) {
	hit := m.MemoLookups.WithLabelValues(cache, "hit")
	miss := m.MemoLookups.WithLabelValues(cache, "miss")
	return func(ok bool) {
		if ok {
			hit.Inc()
			return
		}
		miss.Inc()
	}
}
