package middleware

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics_RecordCounter(t *testing.T) {
	pm := NewPrometheusMetrics(prometheus.NewRegistry())

	labels := map[string]string{"unit": "pair_scorer"}
	pm.RecordCounter("score_product", 1, labels)
	pm.RecordCounter("score_product", 2, labels)

	value := testutil.ToFloat64(pm.operationCounter.WithLabelValues("score_product", "pair_scorer"))
	assert.Equal(t, 3.0, value)
}

func TestPrometheusMetrics_RecordGauge(t *testing.T) {
	pm := NewPrometheusMetrics(prometheus.NewRegistry())

	pm.RecordGauge("cell_type_pairs", 10, map[string]string{"unit": "pair_scorer"})
	pm.RecordGauge("cell_type_pairs", 6, map[string]string{"unit": "pair_scorer"})

	value := testutil.ToFloat64(pm.systemGauges.WithLabelValues("cell_type_pairs", "pair_scorer"))
	assert.Equal(t, 6.0, value, "gauges hold the latest value")
}

func TestPrometheusMetrics_RecordLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(reg)

	pm.RecordLatency("score_product", 250*time.Millisecond, map[string]string{"unit": "pair_scorer"})

	count := testutil.CollectAndCount(pm.stageLatency, "scoring_stage_duration_seconds")
	assert.Equal(t, 1, count)
}

func TestPrometheusMetrics_UnknownUnitLabel(t *testing.T) {
	pm := NewPrometheusMetrics(prometheus.NewRegistry())

	pm.RecordCounter("score_product", 1, nil)

	value := testutil.ToFloat64(pm.operationCounter.WithLabelValues("score_product", "unknown"))
	assert.Equal(t, 1.0, value)
}

func TestNewPrometheusMetrics_RegistersAll(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(reg)

	pm.RecordLatency("op", time.Second, nil)
	pm.RecordCounter("op", 1, nil)
	pm.RecordGauge("state", 1, nil)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"scoring_stage_duration_seconds",
		"scoring_operations_total",
		"scoring_state",
	}, names)
}
