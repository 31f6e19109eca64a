// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysisRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_requests_total",
			Help: "Total number of analysis requests by outcome",
		},
		[]string{"status"},
	)

	AnalysisFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_failures_total",
			Help: "Total number of failed analysis requests by error code",
		},
		[]string{"error_code"},
	)

	NormalizationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "normalization_failures_total",
			Help: "Response payloads rejected by the reconciler, by offending field path with array indices collapsed",
		},
		[]string{"path"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_duration_seconds",
			Help:    "Duration of analysis requests in seconds, including the upstream call",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		},
		[]string{"status"},
	)

	AnalysisActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "analysis_requests_active",
			Help: "Number of analysis requests currently in flight",
		},
	)
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)
