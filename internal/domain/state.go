package domain

import (
	"fmt"
	"maps"
)

// Key represents a type-safe generic key for accessing values in State.
// The type parameter T ensures compile-time type safety when getting and
// setting values, eliminating runtime type assertions at call sites.
type Key[T any] struct{ name string }

// NewKey creates a new Key with the specified name and type.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Predefined state keys used by the scoring pipeline.
var (
	// KeyExpressionMatrix stores the genes-by-cells expression matrix.
	KeyExpressionMatrix = Key[*Matrix]{"expression_matrix"}

	// KeyCellMetadata stores the cell to cell-type mapping.
	KeyCellMetadata = Key[*CellMetadata]{"cell_metadata"}

	// KeyMeanMatrix stores the genes/complexes-by-cell-types aggregate matrix.
	KeyMeanMatrix = Key[*Matrix]{"mean_matrix"}

	// KeyCatalog stores the loaded interaction catalog.
	KeyCatalog = Key[*Catalog]{"catalog"}

	// KeyInteractionIndex stores the derived interaction lookup.
	KeyInteractionIndex = Key[*InteractionIndex]{"interaction_index"}

	// KeyScores stores the final score collection.
	KeyScores = Key[ScoreCollection]{"scores"}

	// KeyRunID stores a caller-supplied identifier for tracing and metrics.
	KeyRunID = Key[string]{"execution.run_id"}
)

// State is the immutable-by-convention container that flows through the
// pipeline. With returns a new State sharing the stored values; units treat
// every value they read as read-only and publish results under new keys (or
// as freshly built replacements), so the map itself is the only thing
// copied. Matrices are large, which is why State does not deep-copy values
// the way a general-purpose blackboard would.
type State struct {
	data map[string]any
}

// NewState creates a new empty State.
func NewState() State {
	return State{data: make(map[string]any)}
}

// Get retrieves a value from the State with compile-time type safety.
// It returns the value and whether the key exists with the expected type.
func Get[T any](s State, key Key[T]) (T, bool) {
	var zero T
	value, exists := s.data[key.name]
	if !exists {
		return zero, false
	}
	val, ok := value.(T)
	if !ok {
		return zero, false
	}
	return val, true
}

// With creates a new State with the key-value pair added or replaced,
// leaving the original unchanged.
func With[T any](s State, key Key[T], value T) State {
	newData := maps.Clone(s.data)
	if newData == nil {
		newData = make(map[string]any, 1)
	}
	newData[key.name] = value
	return State{data: newData}
}

// Keys returns the names of all keys present in the State.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// String returns a debug representation listing the stored keys.
func (s State) String() string {
	return fmt.Sprintf("State%v", s.Keys())
}
