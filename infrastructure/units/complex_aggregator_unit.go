package units

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/crosstalk-bio/crosstalk/internal/domain"
	"github.com/crosstalk-bio/crosstalk/internal/ports"
)

var _ ports.Unit = (*ComplexAggregatorUnit)(nil)

// ComplexAggregatorUnit extends the mean expression matrix with one row per
// multi-subunit complex, computed as the geometric mean of the subunit rows
// independently per cell-type column.
//
// The matrix is first restricted to genes present in the catalog's gene
// table; genes outside the catalog vanish silently (their count is surfaced
// through the metrics collector as a diagnostic). A complex row is produced
// only when every subunit is present in the restricted matrix; partial
// complexes are excluded entirely. A gene row whose name collides with a
// produced complex name is dropped in favor of the complex row, keeping row
// keys unique.
type ComplexAggregatorUnit struct {
	name    string
	metrics ports.MetricsCollector
	tracer  trace.Tracer
}

// NewComplexAggregatorUnit creates a ComplexAggregatorUnit. The metrics
// collector is optional; pass nil to disable diagnostics.
func NewComplexAggregatorUnit(name string, metrics ports.MetricsCollector) (*ComplexAggregatorUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}
	return &ComplexAggregatorUnit{
		name:    name,
		metrics: metrics,
		tracer:  otel.Tracer("complex-aggregator-unit"),
	}, nil
}

// Name returns the unique identifier for this unit instance.
func (u *ComplexAggregatorUnit) Name() string { return u.name }

// Validate checks that the unit is ready for execution.
func (u *ComplexAggregatorUnit) Validate() error {
	if u.name == "" {
		return ErrEmptyUnitName
	}
	return nil
}

// Execute reads the mean matrix and catalog from the state and replaces the
// mean matrix with its complex-extended copy.
func (u *ComplexAggregatorUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	mean, ok := domain.Get(state, domain.KeyMeanMatrix)
	if !ok {
		return state, ErrMissingMeanMatrix
	}
	catalog, ok := domain.Get(state, domain.KeyCatalog)
	if !ok {
		return state, ErrMissingCatalog
	}

	ctx, span := u.tracer.Start(ctx, "complex_aggregator.execute",
		trace.WithAttributes(attribute.Int("matrix.rows", mean.NumRows())),
	)
	defer span.End()
	_ = ctx

	extended, err := u.Extend(mean, catalog)
	if err != nil {
		span.RecordError(err)
		return state, fmt.Errorf("unit %s: %w", u.name, err)
	}
	span.SetAttributes(attribute.Int("matrix.rows_extended", extended.NumRows()))
	return domain.With(state, domain.KeyMeanMatrix, extended), nil
}

// Extend returns the mean matrix restricted to catalog genes and extended
// with geometric-mean complex rows. Complex rows are appended in sorted
// name order so the output is deterministic.
func (u *ComplexAggregatorUnit) Extend(mean *domain.Matrix, catalog *domain.Catalog) (*domain.Matrix, error) {
	if mean.IsEmpty() {
		return nil, domain.ErrEmptyMatrix
	}

	restricted := mean.SelectRows(catalog.GeneNameSet())
	dropped := mean.NumRows() - restricted.NumRows()
	if u.metrics != nil {
		u.metrics.RecordGauge("genes_outside_catalog", float64(dropped), map[string]string{"unit": u.name})
	}

	subunits := catalog.ComplexSubunits()
	names := make([]string, 0, len(subunits))
	for name := range subunits {
		names = append(names, name)
	}
	sort.Strings(names)

	produced := make(map[string][]float64, len(names))
	producedNames := make([]string, 0, len(names))
	for _, name := range names {
		row, ok := u.geometricRow(restricted, subunits[name])
		if !ok {
			continue
		}
		produced[name] = row
		producedNames = append(producedNames, name)
	}

	// A gene sharing its name with a produced complex (e.g. OSMR, LIFR,
	// IL2) must give way, or the extended matrix would carry two rows
	// under one key.
	collisions := make(map[string]struct{}, len(producedNames))
	for _, name := range producedNames {
		collisions[name] = struct{}{}
	}
	out := restricted.WithoutRows(collisions)

	for _, name := range producedNames {
		if err := out.AppendRow(name, produced[name]); err != nil {
			return nil, fmt.Errorf("complex %q: %w", name, err)
		}
	}
	return out, nil
}

// geometricRow computes the per-column geometric mean across the subunit
// rows. It reports false when any subunit is absent from the matrix.
func (u *ComplexAggregatorUnit) geometricRow(matrix *domain.Matrix, subunits []string) ([]float64, bool) {
	rows := make([][]float64, 0, len(subunits))
	for _, sub := range subunits {
		values, err := matrix.RowValues(sub)
		if err != nil {
			return nil, false
		}
		rows = append(rows, values)
	}

	n := float64(len(rows))
	out := make([]float64, matrix.NumCols())
	for j := range out {
		prod := 1.0
		for _, row := range rows {
			prod *= row[j]
		}
		out[j] = math.Pow(prod, 1/n)
	}
	return out, true
}
