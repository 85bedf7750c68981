// Package middleware provides cross-cutting concerns for the scoring
// engine: metrics collection and progress reporting.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/crosstalk-bio/crosstalk/internal/ports"
)

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus, exposing stage latency, pair counts, and catalog diagnostics
// for the scoring engine.
type PrometheusMetrics struct {
	stageLatency     *prometheus.HistogramVec
	operationCounter *prometheus.CounterVec
	systemGauges     *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance and registers
// its metrics with the given registerer. Pass prometheus.DefaultRegisterer
// for the global registry, or a fresh registry in tests.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		stageLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scoring_stage_duration_seconds",
				Help:    "Execution time of scoring pipeline stages.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "unit"},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scoring_operations_total",
				Help: "Total number of operations performed by the scoring engine.",
			},
			[]string{"operation", "unit"},
		),
		systemGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "scoring_state",
				Help: "Current state values of the scoring engine.",
			},
			[]string{"metric", "unit"},
		),
	}
}

// RecordLatency records stage execution time in the latency histogram.
func (pm *PrometheusMetrics) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	pm.stageLatency.WithLabelValues(operation, unitLabel(labels)).Observe(duration.Seconds())
}

// RecordCounter increments the operation counter.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	pm.operationCounter.WithLabelValues(metric, unitLabel(labels)).Add(value)
}

// RecordGauge sets a gauge value.
func (pm *PrometheusMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	pm.systemGauges.WithLabelValues(metric, unitLabel(labels)).Set(value)
}

// unitLabel extracts the unit label, defaulting to "unknown".
func unitLabel(labels map[string]string) string {
	if unit, ok := labels["unit"]; ok {
		return unit
	}
	return "unknown"
}
