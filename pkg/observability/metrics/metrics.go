// Package metrics exposes Prometheus instrumentation for the processing and
// fusion pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	processingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "neurofuse_signal_processing_duration_seconds",
		Help:    "Time spent running the filter/epoch/feature pipeline for one session",
		Buckets: prometheus.DefBuckets,
	})

	epochCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "neurofuse_epoch_count",
		Help:    "Number of epochs extracted per processed recording",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 250, 500},
	})

	fusionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "neurofuse_fusion_duration_seconds",
		Help:    "Time spent evaluating one fusion call, labeled by fusion mode",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})

	safetyOverrides = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "neurofuse_safety_override_total",
		Help: "Number of fusion calls short-circuited by a safety rule",
	}, []string{"reason"})

	riskLevels = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "neurofuse_risk_level_total",
		Help: "Distribution of risk levels produced by fusion",
	}, []string{"level"})

	processingErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "neurofuse_processing_errors_total",
		Help: "Pipeline failures by stage",
	}, []string{"stage"})
)

// RecordProcessingDuration records the wall time of one pipeline run.
func RecordProcessingDuration(seconds float64) {
	processingDuration.Observe(seconds)
}

// RecordEpochCount records how many epochs a recording produced.
func RecordEpochCount(n int) {
	epochCount.Observe(float64(n))
}

// RecordFusionEvaluation records the latency of one fusion call.
func RecordFusionEvaluation(mode string, seconds float64) {
	fusionDuration.WithLabelValues(mode).Observe(seconds)
}

// RecordSafetyOverride counts a safety-rule short circuit.
func RecordSafetyOverride(reason string) {
	safetyOverrides.WithLabelValues(reason).Inc()
}

// RecordRiskLevel counts the final risk level of a fusion call.
func RecordRiskLevel(level string) {
	riskLevels.WithLabelValues(level).Inc()
}

// RecordProcessingError counts a pipeline failure for the given stage.
func RecordProcessingError(stage string) {
	processingErrors.WithLabelValues(stage).Inc()
}
