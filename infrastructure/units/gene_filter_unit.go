package units

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/crosstalk-bio/crosstalk/internal/domain"
	"github.com/crosstalk-bio/crosstalk/internal/ports"
)

var _ ports.Unit = (*GeneFilterUnit)(nil)

// GeneFilterUnit zeroes out lowly expressed genes per cell type. For every
// cell type it computes, per gene, the fraction of that type's cells with
// non-zero expression; genes below the configured prevalence threshold have
// their expression set to 0 for that type's cells only. Other cell types
// are unaffected, so a gene can survive in one type and be silenced in
// another.
//
// The unit returns a new matrix of identical shape and never mutates its
// input. It is stateless and safe for concurrent execution.
type GeneFilterUnit struct {
	// name is the unique identifier for this unit instance.
	name string
	// config contains the validated configuration parameters.
	config GeneFilterConfig
	// tracer is the OpenTelemetry tracer for observability.
	tracer trace.Tracer
}

// GeneFilterConfig defines the configuration parameters for GeneFilterUnit.
type GeneFilterConfig struct {
	// MinPctCell is the expression-prevalence threshold in [0,1]. A gene
	// whose fraction of expressing cells within a cell type is strictly
	// below this value is zeroed for that type.
	MinPctCell float64 `yaml:"min_pct_cell" json:"min_pct_cell" validate:"min=0,max=1"`
}

// NewGeneFilterUnit creates a GeneFilterUnit with a validated configuration.
func NewGeneFilterUnit(name string, config GeneFilterConfig) (*GeneFilterUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &GeneFilterUnit{
		name:   name,
		config: config,
		tracer: otel.Tracer("gene-filter-unit"),
	}, nil
}

// Name returns the unique identifier for this unit instance.
func (u *GeneFilterUnit) Name() string { return u.name }

// Validate checks that the unit's configuration is complete and consistent.
func (u *GeneFilterUnit) Validate() error {
	if u.name == "" {
		return ErrEmptyUnitName
	}
	return validate.Struct(u.config)
}

// Execute reads the expression matrix and cell metadata from the state and
// replaces the matrix with its filtered copy.
func (u *GeneFilterUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	matrix, ok := domain.Get(state, domain.KeyExpressionMatrix)
	if !ok {
		return state, ErrMissingExpressionMatrix
	}
	meta, ok := domain.Get(state, domain.KeyCellMetadata)
	if !ok {
		return state, ErrMissingCellMetadata
	}

	ctx, span := u.tracer.Start(ctx, "gene_filter.execute",
		trace.WithAttributes(
			attribute.Int("matrix.rows", matrix.NumRows()),
			attribute.Int("matrix.cols", matrix.NumCols()),
			attribute.Float64("min_pct_cell", u.config.MinPctCell),
		),
	)
	defer span.End()
	_ = ctx

	filtered, err := u.Filter(matrix, meta)
	if err != nil {
		span.RecordError(err)
		return state, fmt.Errorf("unit %s: %w", u.name, err)
	}
	return domain.With(state, domain.KeyExpressionMatrix, filtered), nil
}

// Filter returns a copy of matrix with, per cell type, the expression of
// genes below the prevalence threshold set to 0 for that type's cells.
//
// Preconditions: the matrix is non-empty and every metadata cell has a
// matching matrix column. Every label observed in the metadata has at least
// one cell by construction, which rules out the division by zero the
// prevalence computation would otherwise hit.
func (u *GeneFilterUnit) Filter(matrix *domain.Matrix, meta *domain.CellMetadata) (*domain.Matrix, error) {
	if matrix.IsEmpty() {
		return nil, domain.ErrEmptyMatrix
	}

	out := matrix.Clone()
	for _, cellType := range meta.CellTypes() {
		cols, err := columnPositions(matrix, meta.CellsOfType(cellType))
		if err != nil {
			return nil, err
		}
		if len(cols) == 0 {
			return nil, fmt.Errorf("cell type %q: %w", cellType, domain.ErrEmptyCellType)
		}

		for i := 0; i < out.NumRows(); i++ {
			expressing := 0
			for _, j := range cols {
				if out.At(i, j) != 0 {
					expressing++
				}
			}
			pct := float64(expressing) / float64(len(cols))
			if pct < u.config.MinPctCell {
				for _, j := range cols {
					out.SetAt(i, j, 0)
				}
			}
		}
	}
	return out, nil
}

// UnmarshalParameters deserializes YAML configuration into the unit's
// parameters, validating before replacing the current settings.
func (u *GeneFilterUnit) UnmarshalParameters(params yaml.Node) error {
	var config GeneFilterConfig
	if err := params.Decode(&config); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}
	u.config = config
	return nil
}

// columnPositions resolves cell identifiers to matrix column positions.
func columnPositions(matrix *domain.Matrix, cells []string) ([]int, error) {
	out := make([]int, 0, len(cells))
	for _, cell := range cells {
		j, err := matrix.ColIndexOf(cell)
		if err != nil {
			return nil, fmt.Errorf("cell %q: %w", cell, domain.ErrCellNotFound)
		}
		out = append(out, j)
	}
	return out, nil
}
