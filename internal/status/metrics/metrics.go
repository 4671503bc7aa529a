package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StatusRequestsTotal tracks status computations by outcome
	// (ok, degraded, error).
	StatusRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noded_status_requests_total",
			Help: "Total number of status computations",
		},
		[]string{"outcome"},
	)

	// CheckDuration tracks how long each health check takes
	CheckDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "noded_status_check_duration_seconds",
			Help:    "Health check duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"check"},
	)

	// DatabaseCheckFailures tracks fatal database round-trip failures
	DatabaseCheckFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "noded_status_database_failures_total",
			Help: "Total number of fatal database check failures",
		},
	)
)
