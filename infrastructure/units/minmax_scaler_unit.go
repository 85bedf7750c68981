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

var _ ports.Unit = (*MinMaxScalerUnit)(nil)

// MinMaxScalerUnit linearly rescales each row of the mean matrix into
// [0, UpperRange] using the row's observed minimum and maximum. Rows are
// scaled independently; values from different genes or complexes are never
// mixed. A constant row has no observable range and maps to all zeros,
// consistent with min-max scaling when the range collapses.
type MinMaxScalerUnit struct {
	name   string
	config MinMaxScalerConfig
	tracer trace.Tracer
}

// MinMaxScalerConfig defines the configuration for MinMaxScalerUnit.
type MinMaxScalerConfig struct {
	// UpperRange is the upper bound of the target range. Must be positive.
	UpperRange float64 `yaml:"upper_range" json:"upper_range" validate:"gt=0"`
}

// NewMinMaxScalerUnit creates a MinMaxScalerUnit with a validated
// configuration.
func NewMinMaxScalerUnit(name string, config MinMaxScalerConfig) (*MinMaxScalerUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &MinMaxScalerUnit{
		name:   name,
		config: config,
		tracer: otel.Tracer("minmax-scaler-unit"),
	}, nil
}

// Name returns the unique identifier for this unit instance.
func (u *MinMaxScalerUnit) Name() string { return u.name }

// Validate checks that the unit's configuration is complete and consistent.
func (u *MinMaxScalerUnit) Validate() error {
	if u.name == "" {
		return ErrEmptyUnitName
	}
	return validate.Struct(u.config)
}

// Execute reads the mean matrix from the state and replaces it with its
// scaled copy.
func (u *MinMaxScalerUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	mean, ok := domain.Get(state, domain.KeyMeanMatrix)
	if !ok {
		return state, ErrMissingMeanMatrix
	}

	ctx, span := u.tracer.Start(ctx, "minmax_scaler.execute",
		trace.WithAttributes(
			attribute.Int("matrix.rows", mean.NumRows()),
			attribute.Float64("upper_range", u.config.UpperRange),
		),
	)
	defer span.End()
	_ = ctx

	scaled, err := u.Scale(mean)
	if err != nil {
		span.RecordError(err)
		return state, fmt.Errorf("unit %s: %w", u.name, err)
	}
	return domain.With(state, domain.KeyMeanMatrix, scaled), nil
}

// Scale returns a copy of the matrix with each row rescaled to
// [0, UpperRange].
func (u *MinMaxScalerUnit) Scale(matrix *domain.Matrix) (*domain.Matrix, error) {
	if matrix.IsEmpty() {
		return nil, domain.ErrEmptyMatrix
	}

	out := matrix.Clone()
	cols := out.NumCols()
	for i := 0; i < out.NumRows(); i++ {
		min, max := out.At(i, 0), out.At(i, 0)
		for j := 1; j < cols; j++ {
			v := out.At(i, j)
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}

		if max == min {
			for j := 0; j < cols; j++ {
				out.SetAt(i, j, 0)
			}
			continue
		}

		scale := u.config.UpperRange / (max - min)
		for j := 0; j < cols; j++ {
			out.SetAt(i, j, (out.At(i, j)-min)*scale)
		}
	}
	return out, nil
}

// UnmarshalParameters deserializes YAML configuration into the unit's
// parameters, validating before replacing the current settings.
func (u *MinMaxScalerUnit) UnmarshalParameters(params yaml.Node) error {
	var config MinMaxScalerConfig
	if err := params.Decode(&config); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}
	u.config = config
	return nil
}
