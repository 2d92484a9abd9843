// Package metrics defines the Prometheus metric collectors used across the
// platform and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the platform.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	CracksTotal          *prometheus.CounterVec
	CrackDuration        *prometheus.HistogramVec
	CrackKeyLength       prometheus.Histogram
	CrackConfidence      prometheus.Histogram
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
	JobsSubmittedTotal   prometheus.Counter
	JobStateTotal        *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		CracksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cracks_total",
				Help: "Total crack attempts by outcome (recovered, no_signal, error).",
			},
			[]string{"outcome"},
		),
		CrackDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crack_duration_seconds",
				Help:    "Crack pipeline duration in seconds.",
				Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 5, 15, 60, 300},
			},
			[]string{"source"},
		),
		CrackKeyLength: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "crack_key_length",
				Help:    "Recovered key length per successful crack.",
				Buckets: []float64{1, 2, 4, 6, 8, 10, 12, 16, 24, 32},
			},
		),
		CrackConfidence: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "crack_confidence",
				Help:    "Confidence ratio of the selected key length per crack.",
				Buckets: []float64{0.05, 0.1, 0.2, 0.3, 0.5, 0.7, 0.9, 1},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "result_cache_hits_total",
				Help: "Total number of crack result cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "result_cache_misses_total",
				Help: "Total number of crack result cache misses.",
			},
		),
		JobsSubmittedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "jobs_submitted_total",
				Help: "Total crack jobs accepted by the submission service.",
			},
		),
		JobStateTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "job_state_transitions_total",
				Help: "Job state transitions by resulting state.",
			},
			[]string{"state"},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.CracksTotal,
		m.CrackDuration,
		m.CrackKeyLength,
		m.CrackConfidence,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.JobsSubmittedTotal,
		m.JobStateTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
