package ports

import (
	"time"
)

// MetricsCollector defines the interface for collecting operational metrics.
// Implementations should integrate with observability platforms like
// Prometheus or custom monitoring solutions.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)
}

// ProgressReporter receives progress updates from long-running pipeline
// stages. It replaces interleaved print-based reporting: computation code
// calls the hook and the caller decides how (and how often) to surface it.
// Implementations must be safe for concurrent use, since the pair scorer
// reports completion from multiple workers.
type ProgressReporter interface {
	// StageStarted announces a stage and the number of work items it will
	// process. A total of 0 means the count is unknown.
	StageStarted(stage string, total int)

	// StageProgressed reports that n more work items completed.
	StageProgressed(stage string, n int)

	// StageCompleted announces that the stage finished.
	StageCompleted(stage string)
}
