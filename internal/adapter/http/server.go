// Package http exposes the tool operations plus health, readiness, and
// metrics endpoints. Each tool endpoint consumes exactly the output shape of
// the stage before it, so the pipeline stages stay independently invocable.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/air-quality-trends/internal/domain"
)

// ToolService is the orchestration surface the server fronts.
type ToolService interface {
	ResolveLocations(ctx context.Context, query string, limit int) ([]domain.LocationRef, error)
	FetchRecords(ctx context.Context, locations []domain.LocationRef) ([]domain.Observation, error)
	AnalyzeTrends(ctx context.Context, rows []domain.Observation) (*domain.AnalysisSummary, error)
	CompareCities(ctx context.Context, locations []domain.LocationRef) (*domain.Comparison, error)
	RenderPlot(ctx context.Context, rows []domain.Observation, name string) (string, error)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the tool endpoints over HTTP.
type Server struct {
	httpServer *http.Server
	service    ToolService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the tool routes and the
// /healthz, /readyz, and /metrics operational routes.
func NewServer(addr string, service ToolService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service: service,
		logger:  logger,
	}

	mux.HandleFunc("POST /v1/tools/resolve_locations", s.handleResolveLocations)
	mux.HandleFunc("POST /v1/tools/fetch_records", s.handleFetchRecords)
	mux.HandleFunc("POST /v1/tools/analyze_trends", s.handleAnalyzeTrends)
	mux.HandleFunc("POST /v1/tools/compare_cities", s.handleCompareCities)
	mux.HandleFunc("POST /v1/tools/render_plot", s.handleRenderPlot)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
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

type resolveRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type locationsRequest struct {
	Locations []domain.LocationRef `json:"locations"`
}

type recordsRequest struct {
	Records []domain.Observation `json:"records"`
}

type plotRequest struct {
	Records []domain.Observation `json:"records"`
	Name    string               `json:"name"`
}

func (s *Server) handleResolveLocations(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if !s.decode(w, r, &req) {
		return
	}
	locs, err := s.service.ResolveLocations(r.Context(), req.Query, req.Limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, locs)
}

func (s *Server) handleFetchRecords(w http.ResponseWriter, r *http.Request) {
	var req locationsRequest
	if !s.decode(w, r, &req) {
		return
	}
	rows, err := s.service.FetchRecords(r.Context(), req.Locations)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleAnalyzeTrends(w http.ResponseWriter, r *http.Request) {
	var req recordsRequest
	if !s.decode(w, r, &req) {
		return
	}
	summary, err := s.service.AnalyzeTrends(r.Context(), req.Records)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCompareCities(w http.ResponseWriter, r *http.Request) {
	var req locationsRequest
	if !s.decode(w, r, &req) {
		return
	}
	cmp, err := s.service.CompareCities(r.Context(), req.Locations)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

func (s *Server) handleRenderPlot(w http.ResponseWriter, r *http.Request) {
	var req plotRequest
	if !s.decode(w, r, &req) {
		return
	}
	path, err := s.service.RenderPlot(r.Context(), req.Records, req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.service.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// decode unmarshals the request body, answering 400 on malformed JSON.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return false
	}
	return true
}

type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// writeError maps the domain error taxonomy onto HTTP statuses. Every error
// stays a descriptive object the caller can inspect; unknown failures get a
// generic 500 body and a server-side log line.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		noMatch      *domain.NoMatchError
		noData       *domain.NoDataError
		insufficient *domain.InsufficientDataError
		emptyRes     *domain.EmptyAnalysisError
	)
	switch {
	case errors.As(err, &noMatch):
		writeJSON(w, http.StatusNotFound, errorBody{
			Error:   noMatch.Error(),
			Details: map[string]string{"query": noMatch.Query},
		})
	case errors.As(err, &noData):
		writeJSON(w, http.StatusNotFound, errorBody{
			Error:   noData.Error(),
			Details: map[string][]string{"cities": noData.Cities},
		})
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error:   insufficient.Error(),
			Details: map[string]string{"reason": insufficient.Reason},
		})
	case errors.As(err, &emptyRes):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: emptyRes.Error()})
	default:
		s.logger.Error("tool invocation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
