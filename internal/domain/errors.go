package domain

import (
	"errors"
	"fmt"
)

// Common domain errors returned by matrix construction and pipeline stages.
var (
	// ErrEmptyMatrix indicates that an operation received a matrix with no
	// rows or no columns. Every stage requires a non-empty input.
	ErrEmptyMatrix = errors.New("expression matrix has no rows or columns")

	// ErrEmptyCellType indicates that a cell-type label has no member cells.
	// Prevalence and mean computation would divide by zero.
	ErrEmptyCellType = errors.New("cell type has no member cells")

	// ErrCellNotFound indicates that a cell listed in the metadata has no
	// matching column in the expression matrix.
	ErrCellNotFound = errors.New("cell is missing from the expression matrix")

	// ErrDuplicateRow indicates a repeated row key during matrix construction.
	ErrDuplicateRow = errors.New("duplicate row key")

	// ErrDuplicateColumn indicates a repeated column key during matrix
	// construction.
	ErrDuplicateColumn = errors.New("duplicate column key")

	// ErrUnknownRow indicates a lookup for a row key the matrix does not hold.
	ErrUnknownRow = errors.New("unknown row key")

	// ErrUnknownColumn indicates a lookup for a column key the matrix does
	// not hold.
	ErrUnknownColumn = errors.New("unknown column key")

	// ErrCatalogInconsistent indicates that a partner pair passed membership
	// filtering but has no canonical catalog entry. The membership set and
	// the id lookup are built from the same catalog snapshot, so this can
	// only happen when the two views diverge; the run must abort.
	ErrCatalogInconsistent = errors.New("catalog membership and id lookup are inconsistent")
)

// ConsistencyError reports a partner pair that survived membership filtering
// but could not be resolved to an interaction id. It wraps
// ErrCatalogInconsistent so callers can match with errors.Is.
type ConsistencyError struct {
	// PartnerA and PartnerB are the names of the pair that failed resolution.
	PartnerA string
	PartnerB string
}

// Error implements the error interface.
func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("no interaction id for partner pair %s|%s: %v", e.PartnerA, e.PartnerB, ErrCatalogInconsistent)
}

// Unwrap returns ErrCatalogInconsistent for errors.Is matching.
func (e *ConsistencyError) Unwrap() error { return ErrCatalogInconsistent }
