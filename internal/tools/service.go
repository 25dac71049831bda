// Package tools binds the dataset store, the analysis core, and the chart
// renderer into the five callable operations the server exposes. It owns
// instrumentation and readiness; the stages themselves stay pure.
package tools

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/air-quality-trends/internal/chart"
	"github.com/couchcryptid/air-quality-trends/internal/dataset"
	"github.com/couchcryptid/air-quality-trends/internal/domain"
	"github.com/couchcryptid/air-quality-trends/internal/observability"
)

// SummaryPublisher pushes finished analysis summaries to a side channel.
// Publishing is best-effort: a failure is logged, never surfaced to the
// caller of a tool.
type SummaryPublisher interface {
	PublishSummary(ctx context.Context, summary *domain.AnalysisSummary) error
}

// Service implements the tool operations over an immutable dataset store.
type Service struct {
	store        *dataset.Store
	renderer     *chart.Renderer
	publisher    SummaryPublisher // nil when publishing is disabled
	logger       *slog.Logger
	metrics      *observability.Metrics
	resolveLimit int
}

// New wires a Service. resolveLimit is the location count used when a
// query-free lookup omits its own limit.
func New(store *dataset.Store, renderer *chart.Renderer, publisher SummaryPublisher,
	logger *slog.Logger, metrics *observability.Metrics, resolveLimit int) *Service {
	s := &Service{
		store:        store,
		renderer:     renderer,
		publisher:    publisher,
		logger:       logger,
		metrics:      metrics,
		resolveLimit: resolveLimit,
	}
	metrics.DatasetRows.Set(float64(store.Rows()))
	metrics.DatasetLocations.Set(float64(len(store.Locations())))
	return s
}

// CheckReadiness reports whether the dataset is loaded and non-empty.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.store == nil || s.store.Rows() == 0 {
		return errors.New("dataset not loaded")
	}
	return nil
}

// ResolveLocations looks up (City, Country) pairs by free-text query, or
// samples limit random pairs when the query is empty.
func (s *Service) ResolveLocations(_ context.Context, query string, limit int) (locs []domain.LocationRef, err error) {
	defer s.observe("resolve_locations", time.Now(), &err)

	if limit <= 0 {
		limit = s.resolveLimit
	}
	locs, err = s.store.ResolveLocations(query, limit)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("locations resolved", "query", query, "count", len(locs))
	return locs, nil
}

// FetchRecords returns all dataset rows for the requested locations.
func (s *Service) FetchRecords(_ context.Context, locations []domain.LocationRef) (rows []domain.Observation, err error) {
	defer s.observe("fetch_records", time.Now(), &err)

	rows, err = s.store.FetchRecords(locations)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("records fetched", "locations", len(locations), "rows", len(rows))
	return rows, nil
}

// AnalyzeTrends runs the per-city trend analysis over the given rows and,
// when a publisher is configured, pushes the summary downstream.
func (s *Service) AnalyzeTrends(ctx context.Context, rows []domain.Observation) (summary *domain.AnalysisSummary, err error) {
	defer s.observe("analyze_trends", time.Now(), &err)

	summary, err = domain.Analyze(rows)
	if err != nil {
		return nil, err
	}

	s.metrics.DateParseDropped.Add(float64(summary.DroppedDates))
	s.metrics.AnalysisCities.Observe(float64(len(summary.Cities)))
	if summary.DroppedDates > 0 {
		s.logger.Warn("rows excluded from trend analysis", "dropped_dates", summary.DroppedDates)
	}

	if s.publisher != nil {
		if pubErr := s.publisher.PublishSummary(ctx, summary); pubErr != nil {
			s.logger.Error("publish summary failed", "error", pubErr)
		} else {
			s.metrics.SummariesPublished.Add(float64(len(summary.Cities)))
		}
	}
	return summary, nil
}

// CompareCities fetches, analyzes, and ranks the requested locations in one
// call. Upstream errors pass through unchanged without further computation.
func (s *Service) CompareCities(_ context.Context, locations []domain.LocationRef) (cmp *domain.Comparison, err error) {
	defer s.observe("compare_cities", time.Now(), &err)

	rows, err := s.store.FetchRecords(locations)
	if err != nil {
		return nil, err
	}
	summary, err := domain.Analyze(rows)
	if err != nil {
		return nil, err
	}
	cmp, err = domain.Compare(summary)
	if err != nil {
		return nil, err
	}
	return cmp, nil
}

// RenderPlot draws the rows' AQI time series and returns the persisted path.
func (s *Service) RenderPlot(_ context.Context, rows []domain.Observation, name string) (path string, err error) {
	defer s.observe("render_plot", time.Now(), &err)

	path, err = s.renderer.Render(rows, name)
	if err != nil {
		return "", err
	}
	s.metrics.PlotsRendered.Inc()
	return path, nil
}

// observe records one tool invocation's outcome and duration.
func (s *Service) observe(tool string, start time.Time, err *error) {
	outcome := "ok"
	if *err != nil {
		outcome = "error"
	}
	s.metrics.ToolInvocations.WithLabelValues(tool, outcome).Inc()
	s.metrics.ToolDuration.WithLabelValues(tool).Observe(time.Since(start).Seconds())
}
