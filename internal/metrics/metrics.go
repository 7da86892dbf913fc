// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronos_http_requests_total",
			Help: "Total number of API requests by route and status code",
		},
		[]string{"route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chronos_http_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	Reconstructions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronos_reconstructions_total",
			Help: "Reconstruction attempts by outcome (ok or error kind)",
		},
		[]string{"outcome"},
	)

	SourceLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronos_source_lookups_total",
			Help: "Source lookups by result origin (live or curated)",
		},
		[]string{"origin"},
	)

	SearchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronos_search_backend_failures_total",
			Help: "Live search calls that failed, by backend",
		},
		[]string{"backend"},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chronos_pipeline_duration_seconds",
			Help:    "Wall-clock duration of pipeline runs by terminal state",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		},
		[]string{"state"},
	)

	PipelineTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronos_pipeline_transitions_total",
			Help: "Pipeline state transitions",
		},
		[]string{"from", "to"},
	)
)
