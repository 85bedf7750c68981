// Package domain contains pure, dependency-free domain models and types
// for the communication scoring engine.
package domain

import (
	"fmt"
)

// Matrix is a dense two-dimensional table of non-negative expression values
// with unique, ordered string keys on both axes. It backs both the
// genes-by-cells expression matrix and the genes/complexes-by-cell-types
// mean matrix produced by aggregation.
//
// Row and column keys are unique by construction; constructors and mutators
// reject duplicates so that downstream lookups are unambiguous.
// A Matrix is not safe for concurrent mutation, but all pipeline stages
// treat their inputs as read-only and return new matrices, so sharing a
// Matrix across worker goroutines for reads requires no synchronization.
type Matrix struct {
	rows     []string
	rowIndex map[string]int
	cols     []string
	colIndex map[string]int
	data     [][]float64
}

// NewMatrix creates a zero-filled Matrix with the given row and column keys.
// It returns ErrDuplicateRow or ErrDuplicateColumn if a key repeats.
func NewMatrix(rows, cols []string) (*Matrix, error) {
	m := &Matrix{
		rows:     make([]string, 0, len(rows)),
		rowIndex: make(map[string]int, len(rows)),
		cols:     make([]string, 0, len(cols)),
		colIndex: make(map[string]int, len(cols)),
		data:     make([][]float64, 0, len(rows)),
	}
	for _, c := range cols {
		if _, exists := m.colIndex[c]; exists {
			return nil, fmt.Errorf("column %q: %w", c, ErrDuplicateColumn)
		}
		m.colIndex[c] = len(m.cols)
		m.cols = append(m.cols, c)
	}
	for _, r := range rows {
		if _, exists := m.rowIndex[r]; exists {
			return nil, fmt.Errorf("row %q: %w", r, ErrDuplicateRow)
		}
		m.rowIndex[r] = len(m.rows)
		m.rows = append(m.rows, r)
		m.data = append(m.data, make([]float64, len(cols)))
	}
	return m, nil
}

// NumRows returns the number of rows.
func (m *Matrix) NumRows() int { return len(m.rows) }

// NumCols returns the number of columns.
func (m *Matrix) NumCols() int { return len(m.cols) }

// IsEmpty reports whether the matrix has no rows or no columns.
func (m *Matrix) IsEmpty() bool { return len(m.rows) == 0 || len(m.cols) == 0 }

// Rows returns a copy of the row keys in their stored order.
func (m *Matrix) Rows() []string {
	out := make([]string, len(m.rows))
	copy(out, m.rows)
	return out
}

// Cols returns a copy of the column keys in their stored order.
func (m *Matrix) Cols() []string {
	out := make([]string, len(m.cols))
	copy(out, m.cols)
	return out
}

// HasRow reports whether the matrix contains the given row key.
func (m *Matrix) HasRow(key string) bool {
	_, ok := m.rowIndex[key]
	return ok
}

// HasCol reports whether the matrix contains the given column key.
func (m *Matrix) HasCol(key string) bool {
	_, ok := m.colIndex[key]
	return ok
}

// RowKeyAt returns the row key at position i.
func (m *Matrix) RowKeyAt(i int) string { return m.rows[i] }

// At returns the value at row i, column j. Indexes are not bounds-checked
// beyond the underlying slice semantics; it exists for hot loops that have
// already resolved positions.
func (m *Matrix) At(i, j int) float64 { return m.data[i][j] }

// SetAt stores v at row i, column j.
func (m *Matrix) SetAt(i, j int, v float64) { m.data[i][j] = v }

// Value returns the value stored under the given row and column keys.
func (m *Matrix) Value(row, col string) (float64, error) {
	i, ok := m.rowIndex[row]
	if !ok {
		return 0, fmt.Errorf("row %q: %w", row, ErrUnknownRow)
	}
	j, ok := m.colIndex[col]
	if !ok {
		return 0, fmt.Errorf("column %q: %w", col, ErrUnknownColumn)
	}
	return m.data[i][j], nil
}

// Set stores v under the given row and column keys.
func (m *Matrix) Set(row, col string, v float64) error {
	i, ok := m.rowIndex[row]
	if !ok {
		return fmt.Errorf("row %q: %w", row, ErrUnknownRow)
	}
	j, ok := m.colIndex[col]
	if !ok {
		return fmt.Errorf("column %q: %w", col, ErrUnknownColumn)
	}
	m.data[i][j] = v
	return nil
}

// Column returns a copy of the values stored under the given column key,
// in row order.
func (m *Matrix) Column(col string) ([]float64, error) {
	j, ok := m.colIndex[col]
	if !ok {
		return nil, fmt.Errorf("column %q: %w", col, ErrUnknownColumn)
	}
	out := make([]float64, len(m.rows))
	for i := range m.rows {
		out[i] = m.data[i][j]
	}
	return out, nil
}

// RowValues returns a copy of the values stored under the given row key,
// in column order.
func (m *Matrix) RowValues(row string) ([]float64, error) {
	i, ok := m.rowIndex[row]
	if !ok {
		return nil, fmt.Errorf("row %q: %w", row, ErrUnknownRow)
	}
	out := make([]float64, len(m.cols))
	copy(out, m.data[i])
	return out, nil
}

// ColIndexOf returns the position of the given column key.
func (m *Matrix) ColIndexOf(col string) (int, error) {
	j, ok := m.colIndex[col]
	if !ok {
		return 0, fmt.Errorf("column %q: %w", col, ErrUnknownColumn)
	}
	return j, nil
}

// Clone returns a deep copy of the matrix.
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{
		rows:     make([]string, len(m.rows)),
		rowIndex: make(map[string]int, len(m.rowIndex)),
		cols:     make([]string, len(m.cols)),
		colIndex: make(map[string]int, len(m.colIndex)),
		data:     make([][]float64, len(m.data)),
	}
	copy(out.rows, m.rows)
	copy(out.cols, m.cols)
	for k, v := range m.rowIndex {
		out.rowIndex[k] = v
	}
	for k, v := range m.colIndex {
		out.colIndex[k] = v
	}
	for i := range m.data {
		row := make([]float64, len(m.data[i]))
		copy(row, m.data[i])
		out.data[i] = row
	}
	return out
}

// AppendRow adds a new row with the given key and values.
// The value slice length must match the number of columns.
func (m *Matrix) AppendRow(key string, values []float64) error {
	if _, exists := m.rowIndex[key]; exists {
		return fmt.Errorf("row %q: %w", key, ErrDuplicateRow)
	}
	if len(values) != len(m.cols) {
		return fmt.Errorf("row %q: expected %d values, got %d", key, len(m.cols), len(values))
	}
	row := make([]float64, len(values))
	copy(row, values)
	m.rowIndex[key] = len(m.rows)
	m.rows = append(m.rows, key)
	m.data = append(m.data, row)
	return nil
}

// SelectRows returns a new matrix containing only the rows whose key is in
// keep, preserving the original row order. Keys in keep that are absent from
// the matrix are ignored.
func (m *Matrix) SelectRows(keep map[string]struct{}) *Matrix {
	out := &Matrix{
		rowIndex: make(map[string]int),
		cols:     make([]string, len(m.cols)),
		colIndex: make(map[string]int, len(m.colIndex)),
	}
	copy(out.cols, m.cols)
	for k, v := range m.colIndex {
		out.colIndex[k] = v
	}
	for i, key := range m.rows {
		if _, ok := keep[key]; !ok {
			continue
		}
		row := make([]float64, len(m.data[i]))
		copy(row, m.data[i])
		out.rowIndex[key] = len(out.rows)
		out.rows = append(out.rows, key)
		out.data = append(out.data, row)
	}
	return out
}

// WithoutRows returns a new matrix with every row whose key is in drop
// removed, preserving the original order of the remaining rows.
func (m *Matrix) WithoutRows(drop map[string]struct{}) *Matrix {
	keep := make(map[string]struct{}, len(m.rows))
	for _, key := range m.rows {
		if _, ok := drop[key]; !ok {
			keep[key] = struct{}{}
		}
	}
	return m.SelectRows(keep)
}
