package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the tool
// server.
type Metrics struct {
	ToolInvocations *prometheus.CounterVec   // labels: tool, outcome={ok,error}
	ToolDuration    *prometheus.HistogramVec // labels: tool

	DatasetRows      prometheus.Gauge
	DatasetLocations prometheus.Gauge

	// Analysis metrics.
	DateParseDropped   prometheus.Counter
	AnalysisCities     prometheus.Histogram
	PlotsRendered      prometheus.Counter
	SummariesPublished prometheus.Counter
}

// NewMetrics creates and registers all tool-server metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ToolInvocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aqi_trends",
			Name:      "tool_invocations_total",
			Help:      "Tool invocations by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		ToolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aqi_trends",
			Name:      "tool_duration_seconds",
			Help:      "Duration of a tool invocation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}, []string{"tool"}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aqi_trends",
			Name:      "dataset_rows",
			Help:      "Rows in the loaded air-quality dataset.",
		}),
		DatasetLocations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aqi_trends",
			Name:      "dataset_locations",
			Help:      "Distinct (city, country) pairs in the dataset.",
		}),
		DateParseDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aqi_trends",
			Name:      "date_parse_dropped_total",
			Help:      "Rows excluded from trend analysis for lack of a parseable date.",
		}),
		AnalysisCities: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aqi_trends",
			Name:      "analysis_cities",
			Help:      "City groups per analysis call.",
			Buckets:   []float64{1, 2, 3, 5, 10, 25, 50, 100},
		}),
		PlotsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aqi_trends",
			Name:      "plots_rendered_total",
			Help:      "Chart files written to the plot output directory.",
		}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aqi_trends",
			Name:      "summaries_published_total",
			Help:      "Per-city trend summaries published to Kafka.",
		}),
	}

	prometheus.MustRegister(
		m.ToolInvocations,
		m.ToolDuration,
		m.DatasetRows,
		m.DatasetLocations,
		m.DateParseDropped,
		m.AnalysisCities,
		m.PlotsRendered,
		m.SummariesPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ToolInvocations:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "aqi_trends", Name: "tool_invocations_total"}, []string{"tool", "outcome"}),
		ToolDuration:       prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "aqi_trends", Name: "tool_duration_seconds"}, []string{"tool"}),
		DatasetRows:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "aqi_trends", Name: "dataset_rows"}),
		DatasetLocations:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "aqi_trends", Name: "dataset_locations"}),
		DateParseDropped:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "aqi_trends", Name: "date_parse_dropped_total"}),
		AnalysisCities:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "aqi_trends", Name: "analysis_cities"}),
		PlotsRendered:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "aqi_trends", Name: "plots_rendered_total"}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "aqi_trends", Name: "summaries_published_total"}),
	}
}
