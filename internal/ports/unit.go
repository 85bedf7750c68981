// Package ports defines the interfaces that form the contract between the
// domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the engine testable.
package ports

import (
	"context"

	"github.com/crosstalk-bio/crosstalk/internal/domain"
)

// Unit is one stage of the scoring pipeline. Each Unit reads typed values
// from the State, performs its transformation, and returns a new State with
// its output added. Units must be stateless and safe for concurrent use;
// the values they read are treated as read-only.
type Unit interface {
	// Name returns a unique identifier for this unit, used for
	// configuration, tracing, and error reporting.
	Name() string

	// Execute performs the unit's transformation on the provided State and
	// returns a new State containing the result. The input State is never
	// modified. Units respect context cancellation and return promptly
	// when the context is done.
	Execute(ctx context.Context, state domain.State) (domain.State, error)

	// Validate checks that the unit's configuration is complete and
	// internally consistent. It is called during pipeline construction,
	// before any Execute.
	Validate() error
}
