package middleware

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/crosstalk-bio/crosstalk/internal/ports"
)

var (
	_ ports.ProgressReporter = (*NopProgressReporter)(nil)
	_ ports.ProgressReporter = (*ThrottledReporter)(nil)
)

// NopProgressReporter discards all progress updates.
type NopProgressReporter struct{}

// StageStarted implements ports.ProgressReporter.
func (NopProgressReporter) StageStarted(string, int) {}

// StageProgressed implements ports.ProgressReporter.
func (NopProgressReporter) StageProgressed(string, int) {}

// StageCompleted implements ports.ProgressReporter.
func (NopProgressReporter) StageCompleted(string) {}

// ThrottledReporter forwards progress updates to a delegate at a bounded
// rate. Scoring workers report per-pair completion; an unthrottled delegate
// writing to a terminal or log would dominate small-pair workloads.
// Increments suppressed by the limiter are accumulated and flushed with the
// next forwarded update, so the delegate's running total stays exact.
// Stage start and completion always pass through.
type ThrottledReporter struct {
	delegate ports.ProgressReporter
	limiter  *rate.Limiter

	mu      sync.Mutex
	pending map[string]int
}

// NewThrottledReporter wraps delegate, forwarding at most maxPerSecond
// progress updates per second.
func NewThrottledReporter(delegate ports.ProgressReporter, maxPerSecond float64) *ThrottledReporter {
	return &ThrottledReporter{
		delegate: delegate,
		limiter:  rate.NewLimiter(rate.Limit(maxPerSecond), 1),
		pending:  make(map[string]int),
	}
}

// StageStarted forwards the stage start unconditionally.
func (t *ThrottledReporter) StageStarted(stage string, total int) {
	t.delegate.StageStarted(stage, total)
}

// StageProgressed accumulates n and forwards the pending total when the
// limiter admits an update.
func (t *ThrottledReporter) StageProgressed(stage string, n int) {
	t.mu.Lock()
	t.pending[stage] += n
	if !t.limiter.Allow() {
		t.mu.Unlock()
		return
	}
	flush := t.pending[stage]
	t.pending[stage] = 0
	t.mu.Unlock()

	t.delegate.StageProgressed(stage, flush)
}

// StageCompleted flushes any suppressed increments, then forwards the
// completion.
func (t *ThrottledReporter) StageCompleted(stage string) {
	t.mu.Lock()
	flush := t.pending[stage]
	delete(t.pending, stage)
	t.mu.Unlock()

	if flush > 0 {
		t.delegate.StageProgressed(stage, flush)
	}
	t.delegate.StageCompleted(stage)
}
