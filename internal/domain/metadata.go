package domain

import (
	"fmt"
)

// CellMetadata maps each cell identifier to a single cell-type label.
// Insertion order is preserved: CellTypes returns labels in the order they
// were first observed, which fixes the column order of aggregated matrices.
type CellMetadata struct {
	cells  []string
	labels map[string]string
}

// NewCellMetadata returns an empty CellMetadata.
func NewCellMetadata() *CellMetadata {
	return &CellMetadata{labels: make(map[string]string)}
}

// Add records the cell-type label for a cell.
// Each cell may be added once; the label must be non-empty.
func (m *CellMetadata) Add(cell, label string) error {
	if cell == "" {
		return fmt.Errorf("cell identifier cannot be empty")
	}
	if label == "" {
		return fmt.Errorf("cell %q: cell-type label cannot be empty", cell)
	}
	if _, exists := m.labels[cell]; exists {
		return fmt.Errorf("cell %q already has a label", cell)
	}
	m.cells = append(m.cells, cell)
	m.labels[cell] = label
	return nil
}

// Len returns the number of cells.
func (m *CellMetadata) Len() int { return len(m.cells) }

// Label returns the cell-type label of a cell.
func (m *CellMetadata) Label(cell string) (string, bool) {
	label, ok := m.labels[cell]
	return label, ok
}

// CellTypes returns the distinct cell-type labels in first-encountered order.
func (m *CellMetadata) CellTypes() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, cell := range m.cells {
		label := m.labels[cell]
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

// CellsOfType returns the cells carrying the given label, in insertion order.
// Every label returned by CellTypes has at least one cell.
func (m *CellMetadata) CellsOfType(label string) []string {
	var out []string
	for _, cell := range m.cells {
		if m.labels[cell] == label {
			out = append(out, cell)
		}
	}
	return out
}
