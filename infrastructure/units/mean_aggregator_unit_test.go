package units

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosstalk-bio/crosstalk/internal/domain"
)

func TestNewMeanAggregatorUnit(t *testing.T) {
	tests := []struct {
		name        string
		unitName    string
		config      MeanAggregatorConfig
		expectError bool
	}{
		{
			name:     "mean method",
			unitName: "aggregator",
			config:   MeanAggregatorConfig{Method: AggregationMean},
		},
		{
			name:     "ratio method",
			unitName: "aggregator",
			config:   MeanAggregatorConfig{Method: AggregationRatio},
		},
		{
			name:        "empty name",
			unitName:    "",
			config:      MeanAggregatorConfig{Method: AggregationMean},
			expectError: true,
		},
		{
			name:        "unknown method",
			unitName:    "aggregator",
			config:      MeanAggregatorConfig{Method: "median"},
			expectError: true,
		},
		{
			name:        "missing method",
			unitName:    "aggregator",
			config:      MeanAggregatorConfig{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, err := NewMeanAggregatorUnit(tt.unitName, tt.config)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, unit.Validate())
		})
	}
}

func TestMeanAggregatorUnit_Aggregate_Mean(t *testing.T) {
	matrix := buildMatrix(t,
		[]string{"GA", "GB"},
		[]string{"c1", "c2", "c3", "c4"},
		[][]float64{
			{1, 3, 0, 0},
			{0, 0, 2, 6},
		},
	)
	meta := buildMetadata(t, [][2]string{
		{"c1", "T"}, {"c2", "T"}, {"c3", "B"}, {"c4", "B"},
	})

	unit, err := NewMeanAggregatorUnit("aggregator", MeanAggregatorConfig{Method: AggregationMean})
	require.NoError(t, err)

	mean, err := unit.Aggregate(matrix, meta)
	require.NoError(t, err)

	assert.Equal(t, []string{"T", "B"}, mean.Cols(),
		"columns follow first-encountered label order")
	assertValue(t, mean, "GA", "T", 2)
	assertValue(t, mean, "GA", "B", 0)
	assertValue(t, mean, "GB", "T", 0)
	assertValue(t, mean, "GB", "B", 4)
}

func TestMeanAggregatorUnit_Aggregate_Ratio(t *testing.T) {
	matrix := buildMatrix(t,
		[]string{"GA"},
		[]string{"c1", "c2", "c3", "c4"},
		[][]float64{{1, 0, 5, 5}},
	)
	meta := buildMetadata(t, [][2]string{
		{"c1", "T"}, {"c2", "T"}, {"c3", "B"}, {"c4", "B"},
	})

	unit, err := NewMeanAggregatorUnit("aggregator", MeanAggregatorConfig{Method: AggregationRatio})
	require.NoError(t, err)

	ratios, err := unit.Aggregate(matrix, meta)
	require.NoError(t, err)
	assertValue(t, ratios, "GA", "T", 0.5)
	assertValue(t, ratios, "GA", "B", 1)
}

func TestMeanAggregatorUnit_Aggregate_EmptyMatrix(t *testing.T) {
	unit, err := NewMeanAggregatorUnit("aggregator", MeanAggregatorConfig{Method: AggregationMean})
	require.NoError(t, err)

	empty, err := domain.NewMatrix(nil, []string{"c1"})
	require.NoError(t, err)
	meta := buildMetadata(t, [][2]string{{"c1", "T"}})

	_, err = unit.Aggregate(empty, meta)
	assert.ErrorIs(t, err, domain.ErrEmptyMatrix)
}

func TestMeanAggregatorUnit_Execute(t *testing.T) {
	matrix := buildMatrix(t, []string{"GA"}, []string{"c1", "c2"}, [][]float64{{2, 4}})
	meta := buildMetadata(t, [][2]string{{"c1", "T"}, {"c2", "T"}})

	unit, err := NewMeanAggregatorUnit("aggregator", MeanAggregatorConfig{Method: AggregationMean})
	require.NoError(t, err)

	state := domain.With(domain.NewState(), domain.KeyExpressionMatrix, matrix)
	state = domain.With(state, domain.KeyCellMetadata, meta)

	out, err := unit.Execute(context.Background(), state)
	require.NoError(t, err)

	mean, ok := domain.Get(out, domain.KeyMeanMatrix)
	require.True(t, ok)
	assertValue(t, mean, "GA", "T", 3)

	// The expression matrix stays available for downstream readers.
	_, ok = domain.Get(out, domain.KeyExpressionMatrix)
	assert.True(t, ok)
}
