package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/air-quality-trends/internal/domain"
)

// fakeService scripts each tool with a canned result or error.
type fakeService struct {
	locations []domain.LocationRef
	rows      []domain.Observation
	summary   *domain.AnalysisSummary
	cmp       *domain.Comparison
	plotPath  string
	err       error
	readyErr  error
}

func (f *fakeService) ResolveLocations(context.Context, string, int) ([]domain.LocationRef, error) {
	return f.locations, f.err
}

func (f *fakeService) FetchRecords(context.Context, []domain.LocationRef) ([]domain.Observation, error) {
	return f.rows, f.err
}

func (f *fakeService) AnalyzeTrends(context.Context, []domain.Observation) (*domain.AnalysisSummary, error) {
	return f.summary, f.err
}

func (f *fakeService) CompareCities(context.Context, []domain.LocationRef) (*domain.Comparison, error) {
	return f.cmp, f.err
}

func (f *fakeService) RenderPlot(context.Context, []domain.Observation, string) (string, error) {
	return f.plotPath, f.err
}

func (f *fakeService) CheckReadiness(context.Context) error {
	return f.readyErr
}

func newTestServer(service *fakeService) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(":0", service, logger)
}

func post(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestResolveLocationsEndpoint(t *testing.T) {
	srv := newTestServer(&fakeService{
		locations: []domain.LocationRef{{City: "Oslo", Country: "Norway"}},
	})

	rec := post(t, srv, "/v1/tools/resolve_locations", `{"query":"oslo","limit":5}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var locs []domain.LocationRef
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &locs))
	require.Len(t, locs, 1)
	assert.Equal(t, "Oslo", locs[0].City)
}

func TestFetchRecordsEndpoint(t *testing.T) {
	srv := newTestServer(&fakeService{
		rows: []domain.Observation{
			{City: "Oslo", Country: "Norway", Date: "2024-03-01", AQIValue: 22, AQICategory: "Good"},
		},
	})

	rec := post(t, srv, "/v1/tools/fetch_records", `{"locations":[{"City":"Oslo","Country":"Norway"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var rows []domain.Observation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 22.0, rows[0].AQIValue)
}

func TestAnalyzeTrendsEndpoint(t *testing.T) {
	srv := newTestServer(&fakeService{
		summary: &domain.AnalysisSummary{
			GeneratedAt: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			Cities: map[string]domain.TrendResult{
				"Oslo": {OverallAQI: 22.5, AQICategory: "Good", Trend: domain.TrendImproving},
			},
		},
	})

	rec := post(t, srv, "/v1/tools/analyze_trends", `{"records":[{"City":"Oslo","AQI Value":22}]}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var summary domain.AnalysisSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, domain.TrendImproving, summary.Cities["Oslo"].Trend)
}

func TestCompareCitiesEndpoint(t *testing.T) {
	srv := newTestServer(&fakeService{
		cmp: &domain.Comparison{
			Ranking: []domain.CityRank{
				{Rank: 1, City: "Oslo", DeltaAQI: 0},
				{Rank: 2, City: "Delhi", DeltaAQI: 158.4},
			},
		},
	})

	rec := post(t, srv, "/v1/tools/compare_cities",
		`{"locations":[{"City":"Oslo","Country":"Norway"},{"City":"Delhi","Country":"India"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var cmp domain.Comparison
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cmp))
	require.Len(t, cmp.Ranking, 2)
	assert.Equal(t, "Oslo", cmp.Ranking[0].City)
}

func TestRenderPlotEndpoint(t *testing.T) {
	srv := newTestServer(&fakeService{plotPath: "plots/oslo.png"})

	rec := post(t, srv, "/v1/tools/render_plot", `{"records":[{"City":"Oslo","AQI Value":22}],"name":"oslo"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "plots/oslo.png", body["path"])
}

func TestMalformedBody(t *testing.T) {
	srv := newTestServer(&fakeService{})

	for _, path := range []string{
		"/v1/tools/resolve_locations",
		"/v1/tools/fetch_records",
		"/v1/tools/analyze_trends",
		"/v1/tools/compare_cities",
		"/v1/tools/render_plot",
	} {
		rec := post(t, srv, path, `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)

		var body errorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "malformed request body", body.Error)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"no match is 404", &domain.NoMatchError{Query: "atlantis"}, http.StatusNotFound},
		{"no data is 404", &domain.NoDataError{Cities: []string{"Atlantis"}}, http.StatusNotFound},
		{"insufficient data is 422", &domain.InsufficientDataError{Reason: "need 3 points"}, http.StatusUnprocessableEntity},
		{"empty analysis is 422", &domain.EmptyAnalysisError{}, http.StatusUnprocessableEntity},
		{"unknown is 500", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&fakeService{err: tt.err})

			rec := post(t, srv, "/v1/tools/resolve_locations", `{"query":"x"}`)
			assert.Equal(t, tt.status, rec.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestUnknownErrorBodyIsOpaque(t *testing.T) {
	srv := newTestServer(&fakeService{err: errors.New("secret internal detail")})

	rec := post(t, srv, "/v1/tools/fetch_records", `{"locations":[]}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body.Error)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&fakeService{})

	rec := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestReadyz(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		srv := newTestServer(&fakeService{})
		rec := get(t, srv, "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		srv := newTestServer(&fakeService{readyErr: errors.New("dataset not loaded")})
		rec := get(t, srv, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "dataset not loaded")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&fakeService{})

	rec := get(t, srv, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&fakeService{})

	rec := get(t, srv, "/v1/tools/resolve_locations")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
