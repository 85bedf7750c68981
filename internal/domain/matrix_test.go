package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix(t *testing.T) {
	tests := []struct {
		name          string
		rows          []string
		cols          []string
		expectedError error
	}{
		{
			name: "valid keys",
			rows: []string{"GA", "GB"},
			cols: []string{"c1", "c2", "c3"},
		},
		{
			name:          "duplicate row key",
			rows:          []string{"GA", "GA"},
			cols:          []string{"c1"},
			expectedError: ErrDuplicateRow,
		},
		{
			name:          "duplicate column key",
			rows:          []string{"GA"},
			cols:          []string{"c1", "c1"},
			expectedError: ErrDuplicateColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatrix(tt.rows, tt.cols)
			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.rows), m.NumRows())
			assert.Equal(t, len(tt.cols), m.NumCols())
			assert.Equal(t, tt.rows, m.Rows())
			assert.Equal(t, tt.cols, m.Cols())
		})
	}
}

func TestMatrix_ValueAccess(t *testing.T) {
	m, err := NewMatrix([]string{"GA", "GB"}, []string{"c1", "c2"})
	require.NoError(t, err)

	require.NoError(t, m.Set("GA", "c2", 3.5))

	v, err := m.Value("GA", "c2")
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)

	v, err = m.Value("GB", "c1")
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = m.Value("GX", "c1")
	assert.ErrorIs(t, err, ErrUnknownRow)

	_, err = m.Value("GA", "cx")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	col, err := m.Column("c2")
	require.NoError(t, err)
	assert.Equal(t, []float64{3.5, 0}, col)

	row, err := m.RowValues("GA")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 3.5}, row)
}

func TestMatrix_Clone(t *testing.T) {
	m, err := NewMatrix([]string{"GA"}, []string{"c1"})
	require.NoError(t, err)
	require.NoError(t, m.Set("GA", "c1", 1))

	clone := m.Clone()
	require.NoError(t, clone.Set("GA", "c1", 9))

	v, err := m.Value("GA", "c1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v, "mutating the clone must not touch the original")
}

func TestMatrix_AppendRow(t *testing.T) {
	m, err := NewMatrix([]string{"GA"}, []string{"c1", "c2"})
	require.NoError(t, err)

	require.NoError(t, m.AppendRow("GB", []float64{1, 2}))
	assert.Equal(t, []string{"GA", "GB"}, m.Rows())

	err = m.AppendRow("GB", []float64{3, 4})
	assert.ErrorIs(t, err, ErrDuplicateRow)

	err = m.AppendRow("GC", []float64{1})
	assert.Error(t, err, "value count must match column count")
}

func TestMatrix_SelectAndWithoutRows(t *testing.T) {
	m, err := NewMatrix([]string{"GA", "GB", "GC"}, []string{"c1"})
	require.NoError(t, err)
	require.NoError(t, m.Set("GB", "c1", 2))

	selected := m.SelectRows(map[string]struct{}{"GB": {}, "GX": {}})
	assert.Equal(t, []string{"GB"}, selected.Rows())
	v, err := selected.Value("GB", "c1")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	remaining := m.WithoutRows(map[string]struct{}{"GB": {}})
	assert.Equal(t, []string{"GA", "GC"}, remaining.Rows())
}

func TestMatrix_IsEmpty(t *testing.T) {
	m, err := NewMatrix(nil, []string{"c1"})
	require.NoError(t, err)
	assert.True(t, m.IsEmpty())

	m, err = NewMatrix([]string{"GA"}, []string{"c1"})
	require.NoError(t, err)
	assert.False(t, m.IsEmpty())
}
