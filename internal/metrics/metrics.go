// Package metrics defines the Prometheus collectors of the retrieval service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "retrieval",
			Name:      "searches_total",
			Help:      "Total number of ranking requests",
		},
		[]string{"strategy", "mode"}, // mode: "plain" / "feedback"
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "retrieval",
			Name:      "search_duration_seconds",
			Help:      "Ranking duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"strategy"},
	)

	FeedbackRoundsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "retrieval",
			Name:      "feedback_rounds_total",
			Help:      "Total number of Rocchio reformulations",
		},
		[]string{"strategy"},
	)

	EvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "retrieval",
			Name:      "evaluations_total",
			Help:      "Total number of evaluated ranked lists",
		},
		[]string{"result"}, // "ok" / "empty" / "error"
	)

	JobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "retrieval",
			Name:      "jobs_total",
			Help:      "Background jobs by type and final status",
		},
		[]string{"type", "status"},
	)

	IndexesLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "retrieval",
			Name:      "indexes_loaded",
			Help:      "Number of indexes held in memory",
		},
	)
)

var registerOnce sync.Once

// Register registers every collector with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			SearchesTotal,
			SearchDuration,
			FeedbackRoundsTotal,
			EvaluationsTotal,
			JobsTotal,
			IndexesLoaded,
			httpRequestDuration,
			httpRequestsTotal,
		)
	})
}
