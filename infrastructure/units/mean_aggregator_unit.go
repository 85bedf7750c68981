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

var _ ports.Unit = (*MeanAggregatorUnit)(nil)

// Aggregation methods supported by MeanAggregatorUnit.
const (
	// AggregationMean reduces each gene row to the arithmetic mean of the
	// cell type's cells. Used for normalized expression.
	AggregationMean = "mean"

	// AggregationRatio reduces each gene row to the fraction of the cell
	// type's cells with non-zero counts. Used when summarizing raw counts.
	AggregationRatio = "ratio"
)

// MeanAggregatorUnit collapses the genes-by-cells expression matrix into a
// genes-by-cell-types summary matrix. Column order follows the
// first-encountered order of labels in the metadata; downstream pairing
// enumerates pairs explicitly, so the order is not semantically
// load-bearing.
//
// The unit is stateless and safe for concurrent execution.
type MeanAggregatorUnit struct {
	name   string
	config MeanAggregatorConfig
	tracer trace.Tracer
}

// MeanAggregatorConfig defines the configuration for MeanAggregatorUnit.
type MeanAggregatorConfig struct {
	// Method selects the reduction applied per gene row within a cell type:
	// "mean" for arithmetic mean, "ratio" for the fraction of cells with
	// non-zero counts.
	Method string `yaml:"method" json:"method" validate:"required,oneof=mean ratio"`
}

// NewMeanAggregatorUnit creates a MeanAggregatorUnit with a validated
// configuration.
func NewMeanAggregatorUnit(name string, config MeanAggregatorConfig) (*MeanAggregatorUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &MeanAggregatorUnit{
		name:   name,
		config: config,
		tracer: otel.Tracer("mean-aggregator-unit"),
	}, nil
}

// Name returns the unique identifier for this unit instance.
func (u *MeanAggregatorUnit) Name() string { return u.name }

// Validate checks that the unit's configuration is complete and consistent.
func (u *MeanAggregatorUnit) Validate() error {
	if u.name == "" {
		return ErrEmptyUnitName
	}
	return validate.Struct(u.config)
}

// Execute reads the expression matrix and cell metadata from the state and
// stores the aggregated matrix under the mean-matrix key.
func (u *MeanAggregatorUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	matrix, ok := domain.Get(state, domain.KeyExpressionMatrix)
	if !ok {
		return state, ErrMissingExpressionMatrix
	}
	meta, ok := domain.Get(state, domain.KeyCellMetadata)
	if !ok {
		return state, ErrMissingCellMetadata
	}

	ctx, span := u.tracer.Start(ctx, "mean_aggregator.execute",
		trace.WithAttributes(
			attribute.Int("matrix.rows", matrix.NumRows()),
			attribute.String("method", u.config.Method),
		),
	)
	defer span.End()
	_ = ctx

	mean, err := u.Aggregate(matrix, meta)
	if err != nil {
		span.RecordError(err)
		return state, fmt.Errorf("unit %s: %w", u.name, err)
	}
	return domain.With(state, domain.KeyMeanMatrix, mean), nil
}

// Aggregate reduces each gene row per cell type with the configured method
// and returns the genes-by-cell-types matrix.
func (u *MeanAggregatorUnit) Aggregate(matrix *domain.Matrix, meta *domain.CellMetadata) (*domain.Matrix, error) {
	if matrix.IsEmpty() {
		return nil, domain.ErrEmptyMatrix
	}

	cellTypes := meta.CellTypes()
	out, err := domain.NewMatrix(matrix.Rows(), cellTypes)
	if err != nil {
		return nil, err
	}

	for t, cellType := range cellTypes {
		cols, err := columnPositions(matrix, meta.CellsOfType(cellType))
		if err != nil {
			return nil, err
		}
		if len(cols) == 0 {
			return nil, fmt.Errorf("cell type %q: %w", cellType, domain.ErrEmptyCellType)
		}

		for i := 0; i < matrix.NumRows(); i++ {
			var value float64
			switch u.config.Method {
			case AggregationRatio:
				expressing := 0
				for _, j := range cols {
					if matrix.At(i, j) != 0 {
						expressing++
					}
				}
				value = float64(expressing) / float64(len(cols))
			default: // AggregationMean
				sum := 0.0
				for _, j := range cols {
					sum += matrix.At(i, j)
				}
				value = sum / float64(len(cols))
			}
			out.SetAt(i, t, value)
		}
	}
	return out, nil
}

// UnmarshalParameters deserializes YAML configuration into the unit's
// parameters, validating before replacing the current settings.
func (u *MeanAggregatorUnit) UnmarshalParameters(params yaml.Node) error {
	var config MeanAggregatorConfig
	if err := params.Decode(&config); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}
	u.config = config
	return nil
}
