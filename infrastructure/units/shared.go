// Package units provides the pipeline stages of the communication scoring
// engine, each implementing the ports.Unit interface.
package units

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/crosstalk-bio/crosstalk/internal/ports"
)

// Common errors returned by pipeline units.
var (
	// ErrEmptyUnitName is returned when attempting to create a unit with an
	// empty name.
	ErrEmptyUnitName = errors.New("unit name cannot be empty")

	// ErrMissingExpressionMatrix is returned when the state does not carry
	// an expression matrix.
	ErrMissingExpressionMatrix = errors.New("state is missing the expression matrix")

	// ErrMissingCellMetadata is returned when the state does not carry the
	// cell metadata.
	ErrMissingCellMetadata = errors.New("state is missing the cell metadata")

	// ErrMissingMeanMatrix is returned when the state does not carry the
	// aggregated mean matrix.
	ErrMissingMeanMatrix = errors.New("state is missing the mean expression matrix")

	// ErrMissingCatalog is returned when the state does not carry the
	// loaded catalog.
	ErrMissingCatalog = errors.New("state is missing the interaction catalog")

	// ErrMissingInteractionIndex is returned when the state does not carry
	// the derived interaction index.
	ErrMissingInteractionIndex = errors.New("state is missing the interaction index")
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// reportStarted forwards to the reporter when one is configured.
func reportStarted(r ports.ProgressReporter, stage string, total int) {
	if r != nil {
		r.StageStarted(stage, total)
	}
}

// reportProgress forwards to the reporter when one is configured.
func reportProgress(r ports.ProgressReporter, stage string, n int) {
	if r != nil {
		r.StageProgressed(stage, n)
	}
}

// reportCompleted forwards to the reporter when one is configured.
func reportCompleted(r ports.ProgressReporter, stage string) {
	if r != nil {
		r.StageCompleted(stage)
	}
}
