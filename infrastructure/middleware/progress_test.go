package middleware

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingReporter tallies delegate calls.
type countingReporter struct {
	mu          sync.Mutex
	startTotals map[string]int
	progressed  map[string]int
	updates     map[string]int
	completed   map[string]int
}

func newCountingReporter() *countingReporter {
	return &countingReporter{
		startTotals: make(map[string]int),
		progressed:  make(map[string]int),
		updates:     make(map[string]int),
		completed:   make(map[string]int),
	}
}

func (r *countingReporter) StageStarted(stage string, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.startTotals[stage] = total
}

func (r *countingReporter) StageProgressed(stage string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progressed[stage] += n
	r.updates[stage]++
}

func (r *countingReporter) StageCompleted(stage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed[stage]++
}

func TestThrottledReporter_PreservesTotals(t *testing.T) {
	delegate := newCountingReporter()
	// A rate this low admits at most the first burst update; everything
	// else is suppressed until completion.
	reporter := NewThrottledReporter(delegate, 0.001)

	reporter.StageStarted("scoring", 100)
	for i := 0; i < 100; i++ {
		reporter.StageProgressed("scoring", 1)
	}
	reporter.StageCompleted("scoring")

	assert.Equal(t, 100, delegate.startTotals["scoring"])
	assert.Equal(t, 100, delegate.progressed["scoring"],
		"suppressed increments are flushed, keeping the running total exact")
	assert.LessOrEqual(t, delegate.updates["scoring"], 3,
		"nearly all updates are coalesced")
	assert.Equal(t, 1, delegate.completed["scoring"])
}

func TestThrottledReporter_HighRatePassesThrough(t *testing.T) {
	delegate := newCountingReporter()
	reporter := NewThrottledReporter(delegate, 1e6)

	reporter.StageStarted("scoring", 3)
	reporter.StageProgressed("scoring", 1)
	reporter.StageProgressed("scoring", 2)
	reporter.StageCompleted("scoring")

	assert.Equal(t, 3, delegate.progressed["scoring"])
	assert.Equal(t, 1, delegate.completed["scoring"])
}

func TestThrottledReporter_StagesAreIndependent(t *testing.T) {
	delegate := newCountingReporter()
	reporter := NewThrottledReporter(delegate, 0.001)

	reporter.StageStarted("first", 10)
	for i := 0; i < 10; i++ {
		reporter.StageProgressed("first", 1)
	}
	reporter.StageStarted("second", 5)
	for i := 0; i < 5; i++ {
		reporter.StageProgressed("second", 1)
	}

	reporter.StageCompleted("first")
	reporter.StageCompleted("second")

	assert.Equal(t, 10, delegate.progressed["first"])
	assert.Equal(t, 5, delegate.progressed["second"])
}

func TestThrottledReporter_CompletionWithoutProgress(t *testing.T) {
	delegate := newCountingReporter()
	reporter := NewThrottledReporter(delegate, 1)

	reporter.StageStarted("empty", 0)
	reporter.StageCompleted("empty")

	require.Equal(t, 1, delegate.completed["empty"])
	assert.Zero(t, delegate.updates["empty"], "no synthetic progress updates")
}

func TestNopProgressReporter(t *testing.T) {
	var r NopProgressReporter
	r.StageStarted("any", 1)
	r.StageProgressed("any", 1)
	r.StageCompleted("any")
}
