package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	completionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cravings_completion_requests_total",
			Help: "Completion calls by step and outcome",
		},
		[]string{"step", "outcome"},
	)

	completionRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cravings_completion_retries_total",
			Help: "Completion attempts that failed and were retried",
		},
		[]string{"step"},
	)

	completionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cravings_completion_duration_seconds",
			Help:    "Completion call latency including retries",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"step"},
	)

	extractionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cravings_extraction_failures_total",
			Help: "Completion responses that could not be turned into recipes",
		},
		[]string{"step"},
	)
)
