// Package application orchestrates the scoring pipeline: it owns the
// sequential execution container, the run configuration, and the Engine
// facade that wires units into the operations exposed to callers.
package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/crosstalk-bio/crosstalk/internal/domain"
	"github.com/crosstalk-bio/crosstalk/internal/ports"
)

// Pipeline is a sequential execution container that processes units in
// strict order, each unit's output state becoming the input of the next.
// The scoring stages have hard data dependencies (filter before aggregate,
// aggregate before scale, scale before score), so sequencing is the only
// topology the engine needs.
type Pipeline struct {
	// id identifies this pipeline in error messages.
	id string
	// units holds the ordered stages.
	units []ports.Unit
	// nameSet tracks unit names for O(1) duplicate detection.
	nameSet map[string]struct{}
	// mu guards units during concurrent Add and Execute.
	mu sync.RWMutex
}

// NewPipeline creates an empty pipeline with the given identifier.
func NewPipeline(id string) *Pipeline {
	return &Pipeline{
		id:      id,
		nameSet: make(map[string]struct{}),
	}
}

// Add appends a unit to the execution sequence after validating it.
// Add returns an error for nil units, duplicate names, or units whose
// Validate fails.
func (p *Pipeline) Add(unit ports.Unit) error {
	if unit == nil {
		return fmt.Errorf("pipeline %s: cannot add nil unit", p.id)
	}
	if err := unit.Validate(); err != nil {
		return fmt.Errorf("pipeline %s: unit %s invalid: %w", p.id, unit.Name(), err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	name := unit.Name()
	if _, exists := p.nameSet[name]; exists {
		return fmt.Errorf("pipeline %s: unit %s already added", p.id, name)
	}
	p.units = append(p.units, unit)
	p.nameSet[name] = struct{}{}
	return nil
}

// Execute runs all units in order, passing each unit's output state to the
// next. It respects context cancellation between stages and returns the
// failing unit's name in the error. A failure leaves no partial results:
// the state handed back is the input state.
func (p *Pipeline) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	p.mu.RLock()
	units := make([]ports.Unit, len(p.units))
	copy(units, p.units)
	p.mu.RUnlock()

	current := state
	for _, unit := range units {
		select {
		case <-ctx.Done():
			return state, ctx.Err()
		default:
		}
		next, err := unit.Execute(ctx, current)
		if err != nil {
			return state, fmt.Errorf("pipeline %s: execution failed at %s: %w", p.id, unit.Name(), err)
		}
		current = next
	}
	return current, nil
}

// Units returns a copy of the ordered unit list.
func (p *Pipeline) Units() []ports.Unit {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]ports.Unit, len(p.units))
	copy(out, p.units)
	return out
}
