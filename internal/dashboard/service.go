package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/couchcryptid/population-dashboard/internal/domain"
	"github.com/couchcryptid/population-dashboard/internal/observability"
)

// Service binds the loaded table to the request handlers. It holds no
// per-request state; every call recomputes from the immutable table.
type Service struct {
	table    *domain.Table
	ordinals domain.Ordinals
	opts     Options
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewService creates a Service. A nil ordinals uses domain.DefaultOrdinals.
func NewService(t *domain.Table, ordinals domain.Ordinals, opts Options, metrics *observability.Metrics, logger *slog.Logger) *Service {
	if ordinals == nil {
		ordinals = domain.DefaultOrdinals
	}
	metrics.TableRows.Set(float64(t.Len()))
	metrics.TableRegions.Set(float64(len(t.Regions)))
	return &Service{
		table:    t,
		ordinals: ordinals,
		opts:     opts,
		metrics:  metrics,
		logger:   logger,
	}
}

// Table returns the loaded population table.
func (s *Service) Table() *domain.Table { return s.table }

// CheckReadiness returns nil once a non-empty table is loaded.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.table == nil || s.table.Len() == 0 {
		return errors.New("population table is empty")
	}
	return nil
}

// ParseSelection reads a selection from query parameters against the loaded table.
func (s *Service) ParseSelection(q url.Values) (Selection, error) {
	return ParseSelection(q, s.table, s.opts)
}

// Render builds the page view for a selection.
func (s *Service) Render(sel Selection) View {
	v := Render(s.table, s.ordinals, s.opts, sel)
	if v.ErrorKind != "" {
		s.metrics.ValidationFailures.WithLabelValues(v.ErrorKind).Inc()
	}
	s.logger.Debug("dashboard rendered",
		"start", sel.Start,
		"end", sel.End,
		"region", sel.Region,
		"compare", len(sel.Compare),
		"error_kind", v.ErrorKind,
	)
	return v
}

// Summarize validates the selection and aggregates its target region.
func (s *Service) Summarize(sel Selection) (domain.Summary, error) {
	summary, err := s.ordinals.Summarize(s.table, sel.Start, sel.End, sel.Region)
	if kind := ErrorKind(err); kind != "" {
		s.metrics.ValidationFailures.WithLabelValues(kind).Inc()
	}
	return summary, err
}
