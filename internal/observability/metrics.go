package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	apiRequestsTotal       *prometheus.CounterVec
	apiLatencySeconds      *prometheus.HistogramVec
	apiErrorsTotal         *prometheus.CounterVec
	transitionsTotal       *prometheus.CounterVec
	versionConflictsTotal  prometheus.Counter
	evaluationsGradedTotal prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluation_api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "evaluation_api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluation_api_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		transitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluation_transitions_total",
			Help: "Total number of evaluation status transitions applied.",
		}, []string{"from", "to"})

		versionConflictsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evaluation_version_conflicts_total",
			Help: "Total number of optimistic concurrency conflicts detected on write.",
		})

		evaluationsGradedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evaluations_graded_total",
			Help: "Total number of evaluations that reached the completed status.",
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			transitionsTotal,
			versionConflictsTotal,
			evaluationsGradedTotal,
		)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// Transitions exposes the counter for evaluation status transitions.
func Transitions() *prometheus.CounterVec {
	RegisterMetrics()
	return transitionsTotal
}

// VersionConflicts exposes the counter for optimistic locking conflicts.
func VersionConflicts() prometheus.Counter {
	RegisterMetrics()
	return versionConflictsTotal
}

// EvaluationsGraded exposes the counter for completed evaluations.
func EvaluationsGraded() prometheus.Counter {
	RegisterMetrics()
	return evaluationsGradedTotal
}
