package units

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crosstalk-bio/crosstalk/internal/domain"
)

// buildMatrix constructs a matrix and fills it row-major from values.
func buildMatrix(t *testing.T, rows, cols []string, values [][]float64) *domain.Matrix {
	t.Helper()
	m, err := domain.NewMatrix(rows, cols)
	require.NoError(t, err)
	require.Len(t, values, len(rows))
	for i := range values {
		require.Len(t, values[i], len(cols))
		for j, v := range values[i] {
			m.SetAt(i, j, v)
		}
	}
	return m
}

// buildMetadata labels cells in the given order.
func buildMetadata(t *testing.T, pairs [][2]string) *domain.CellMetadata {
	t.Helper()
	meta := domain.NewCellMetadata()
	for _, p := range pairs {
		require.NoError(t, meta.Add(p[0], p[1]))
	}
	return meta
}

// recordingMetrics captures metric calls for assertions.
type recordingMetrics struct {
	mu        sync.Mutex
	latencies map[string]time.Duration
	counters  map[string]float64
	gauges    map[string]float64
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		latencies: make(map[string]time.Duration),
		counters:  make(map[string]float64),
		gauges:    make(map[string]float64),
	}
}

func (m *recordingMetrics) RecordLatency(name string, d time.Duration, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latencies[name] = d
}

func (m *recordingMetrics) RecordCounter(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] += value
}

func (m *recordingMetrics) RecordGauge(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] = value
}

func (m *recordingMetrics) gauge(name string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gauges[name]
}

// recordingReporter captures progress calls for assertions.
type recordingReporter struct {
	mu        sync.Mutex
	started   map[string]int
	progress  map[string]int
	completed map[string]int
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{
		started:   make(map[string]int),
		progress:  make(map[string]int),
		completed: make(map[string]int),
	}
}

func (r *recordingReporter) StageStarted(stage string, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started[stage] = total
}

func (r *recordingReporter) StageProgressed(stage string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress[stage] += n
}

func (r *recordingReporter) StageCompleted(stage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed[stage]++
}
