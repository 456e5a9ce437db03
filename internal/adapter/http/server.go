package http

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/population-dashboard/internal/charts"
	"github.com/couchcryptid/population-dashboard/internal/dashboard"
	"github.com/couchcryptid/population-dashboard/internal/domain"
	"github.com/couchcryptid/population-dashboard/internal/export"
	"github.com/couchcryptid/population-dashboard/internal/observability"
)

// Request outcomes recorded in the requests counter.
const (
	outcomeOK         = "ok"
	outcomeInvalid    = "invalid"
	outcomeBadRequest = "bad_request"
	outcomeError      = "error"
)

// Dashboard is the application surface the server renders.
type Dashboard interface {
	sharedobs.ReadinessChecker
	Table() *domain.Table
	ParseSelection(q url.Values) (dashboard.Selection, error)
	Render(sel dashboard.Selection) dashboard.View
	Summarize(sel dashboard.Selection) (domain.Summary, error)
}

// Server exposes the dashboard page, chart images, the summary API, the
// parquet export, and health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dash       Dashboard
	chartSize  charts.Options
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the dashboard and operational routes.
// Only Width and Height of chartSize are used.
func NewServer(addr string, dash Dashboard, chartSize charts.Options, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dash:      dash,
		chartSize: chartSize,
		metrics:   metrics,
		logger:    logger,
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /charts/{file}", s.handleChart)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /export.parquet", s.handleExport)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(dash))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selection(w, r, "index")
	if !ok {
		return
	}

	view := s.dash.Render(sel)
	var buf bytes.Buffer
	_, compareOpen := r.URL.Query()[dashboard.ParamCompare]
	if err := pageTemplate.Execute(&buf, newPage(view, compareOpen)); err != nil {
		s.fail(w, "index", "render dashboard page", err)
		return
	}

	outcome := outcomeOK
	if view.ErrorKind != "" {
		outcome = outcomeInvalid
	}
	s.metrics.Requests.WithLabelValues("index", outcome).Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name, ext, _ := strings.Cut(r.PathValue("file"), ".")
	format, err := charts.ParseFormat(ext)
	if err != nil || (name != "target" && name != "compare") {
		http.NotFound(w, r)
		return
	}
	route := "chart_" + name

	sel, ok := s.selection(w, r, route)
	if !ok {
		return
	}
	summary, err := s.dash.Summarize(sel)
	if err != nil {
		s.invalid(w, route, err)
		return
	}

	regions := []string{sel.Region}
	opts := s.chartSize
	opts.Title = sel.Region
	if name == "compare" {
		regions = sel.Compare
		opts.Title = "Compare"
	}

	timer := prometheus.NewTimer(s.metrics.ChartRenderDuration.WithLabelValues(name, string(format)))
	var buf bytes.Buffer
	err = charts.Line(&buf, summary.Rows, regions, format, opts)
	timer.ObserveDuration()
	if err != nil {
		s.fail(w, route, "render chart", err)
		return
	}

	s.metrics.Requests.WithLabelValues(route, outcomeOK).Inc()
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	const route = "summary"
	sel, ok := s.selection(w, r, route)
	if !ok {
		return
	}
	summary, err := s.dash.Summarize(sel)
	if err != nil {
		s.invalid(w, route, err)
		return
	}
	s.metrics.Requests.WithLabelValues(route, outcomeOK).Inc()
	sharedobs.WriteJSON(w, http.StatusOK, newSummaryResponse(summary))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	const route = "export"
	sel, ok := s.selection(w, r, route)
	if !ok {
		return
	}
	summary, err := s.dash.Summarize(sel)
	if err != nil {
		s.invalid(w, route, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteParquet(&buf, summary.Rows, sel.Regions()); err != nil {
		s.fail(w, route, "export parquet", err)
		return
	}

	s.metrics.Requests.WithLabelValues(route, outcomeOK).Inc()
	w.Header().Set("Content-Type", "application/vnd.apache.parquet")
	w.Header().Set("Content-Disposition", `attachment; filename="population.parquet"`)
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

// selection parses the request's selection, answering 400 when it is malformed.
func (s *Server) selection(w http.ResponseWriter, r *http.Request, route string) (dashboard.Selection, bool) {
	sel, err := s.dash.ParseSelection(r.URL.Query())
	if err != nil {
		if errors.Is(err, dashboard.ErrBadSelection) {
			s.metrics.Requests.WithLabelValues(route, outcomeBadRequest).Inc()
			sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return sel, false
		}
		s.fail(w, route, "parse selection", err)
		return sel, false
	}
	return sel, true
}

// invalid answers a range validation failure with 422 and its user-facing message.
func (s *Server) invalid(w http.ResponseWriter, route string, err error) {
	kind := dashboard.ErrorKind(err)
	if kind == "" {
		s.fail(w, route, "summarize selection", err)
		return
	}
	s.metrics.Requests.WithLabelValues(route, outcomeInvalid).Inc()
	sharedobs.WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{
		"error": dashboard.Message(err),
		"kind":  kind,
	})
}

func (s *Server) fail(w http.ResponseWriter, route, msg string, err error) {
	s.metrics.Requests.WithLabelValues(route, outcomeError).Inc()
	s.logger.Error(msg, "route", route, "error", err)
	sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
