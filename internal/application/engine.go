package application

import (
	"context"
	"fmt"

	"github.com/crosstalk-bio/crosstalk/infrastructure/units"
	"github.com/crosstalk-bio/crosstalk/internal/domain"
	"github.com/crosstalk-bio/crosstalk/internal/ports"
)

// Engine is the façade over the scoring pipeline. It exposes each stage as
// a standalone operation and the full filter→aggregate→complex→scale→score
// flow as ScoreProduct. The catalog provider is the only required
// collaborator; metrics and progress reporting are optional.
type Engine struct {
	provider ports.CatalogProvider
	metrics  ports.MetricsCollector
	reporter ports.ProgressReporter
}

// EngineOption configures optional Engine collaborators.
type EngineOption func(*Engine)

// WithMetrics attaches a metrics collector to the engine's units.
func WithMetrics(m ports.MetricsCollector) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithProgressReporter attaches a progress reporter to the engine's units.
func WithProgressReporter(r ports.ProgressReporter) EngineOption {
	return func(e *Engine) { e.reporter = r }
}

// NewEngine creates an Engine backed by the given catalog provider.
func NewEngine(provider ports.CatalogProvider, opts ...EngineOption) (*Engine, error) {
	if provider == nil {
		return nil, fmt.Errorf("catalog provider is required")
	}
	e := &Engine{provider: provider}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// LoadCatalog loads the reference catalog from the provider's source.
func (e *Engine) LoadCatalog(ctx context.Context, source string) (*domain.Catalog, error) {
	catalog, err := e.provider.Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return catalog, nil
}

// FilterGenes zeroes, per cell type, the expression of genes present in
// fewer than minPctCell of the type's cells. The input matrix is unchanged.
func (e *Engine) FilterGenes(matrix *domain.Matrix, meta *domain.CellMetadata, minPctCell float64) (*domain.Matrix, error) {
	unit, err := units.NewGeneFilterUnit("gene_filter", units.GeneFilterConfig{MinPctCell: minPctCell})
	if err != nil {
		return nil, err
	}
	return unit.Filter(matrix, meta)
}

// MeanExpression computes the arithmetic mean expression of each gene per
// cell type.
func (e *Engine) MeanExpression(matrix *domain.Matrix, meta *domain.CellMetadata) (*domain.Matrix, error) {
	unit, err := units.NewMeanAggregatorUnit("mean_aggregator", units.MeanAggregatorConfig{Method: units.AggregationMean})
	if err != nil {
		return nil, err
	}
	return unit.Aggregate(matrix, meta)
}

// RatioExpression computes, per gene and cell type, the fraction of cells
// with non-zero counts. Used when summarizing raw counts instead of
// normalized expression.
func (e *Engine) RatioExpression(matrix *domain.Matrix, meta *domain.CellMetadata) (*domain.Matrix, error) {
	unit, err := units.NewMeanAggregatorUnit("ratio_aggregator", units.MeanAggregatorConfig{Method: units.AggregationRatio})
	if err != nil {
		return nil, err
	}
	return unit.Aggregate(matrix, meta)
}

// HeteromerGeometricExpression extends a mean expression matrix with
// geometric-mean complex rows derived from the catalog at source.
func (e *Engine) HeteromerGeometricExpression(ctx context.Context, mean *domain.Matrix, source string) (*domain.Matrix, error) {
	catalog, err := e.LoadCatalog(ctx, source)
	if err != nil {
		return nil, err
	}
	unit, err := units.NewComplexAggregatorUnit("complex_aggregator", e.metrics)
	if err != nil {
		return nil, err
	}
	return unit.Extend(mean, catalog)
}

// ScaleExpression rescales each row of the matrix into [0, upperRange].
func (e *Engine) ScaleExpression(matrix *domain.Matrix, upperRange float64) (*domain.Matrix, error) {
	unit, err := units.NewMinMaxScalerUnit("minmax_scaler", units.MinMaxScalerConfig{UpperRange: upperRange})
	if err != nil {
		return nil, err
	}
	return unit.Scale(matrix)
}

// ScoreProduct runs the full scoring pipeline over the expression matrix
// and metadata against the catalog at source, returning one score table per
// unordered cell-type pair. Any stage failure aborts the run; no partial
// collection is returned.
func (e *Engine) ScoreProduct(ctx context.Context, matrix *domain.Matrix, meta *domain.CellMetadata, source string, cfg Config) (domain.ScoreCollection, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	catalog, err := e.LoadCatalog(ctx, source)
	if err != nil {
		return nil, err
	}
	index := domain.BuildInteractionIndex(catalog)

	pipeline, err := e.buildScorePipeline(cfg)
	if err != nil {
		return nil, err
	}

	state := domain.NewState()
	state = domain.With(state, domain.KeyExpressionMatrix, matrix)
	state = domain.With(state, domain.KeyCellMetadata, meta)
	state = domain.With(state, domain.KeyCatalog, catalog)
	state = domain.With(state, domain.KeyInteractionIndex, index)

	state, err = pipeline.Execute(ctx, state)
	if err != nil {
		return nil, err
	}

	scores, ok := domain.Get(state, domain.KeyScores)
	if !ok {
		return nil, fmt.Errorf("pipeline finished without producing scores")
	}
	return scores, nil
}

// buildScorePipeline assembles the stages of a full scoring run.
func (e *Engine) buildScorePipeline(cfg Config) (*Pipeline, error) {
	pipeline := NewPipeline("score_product")

	if cfg.FilterGenes {
		filter, err := units.NewGeneFilterUnit("gene_filter", units.GeneFilterConfig{MinPctCell: cfg.MinPctCell})
		if err != nil {
			return nil, err
		}
		if err := pipeline.Add(filter); err != nil {
			return nil, err
		}
	}

	aggregator, err := units.NewMeanAggregatorUnit("mean_aggregator", units.MeanAggregatorConfig{Method: cfg.Aggregation})
	if err != nil {
		return nil, err
	}
	complexes, err := units.NewComplexAggregatorUnit("complex_aggregator", e.metrics)
	if err != nil {
		return nil, err
	}
	scaler, err := units.NewMinMaxScalerUnit("minmax_scaler", units.MinMaxScalerConfig{UpperRange: cfg.UpperRange})
	if err != nil {
		return nil, err
	}
	scorer, err := units.NewPairScorerUnit("pair_scorer", units.PairScorerConfig{Threads: cfg.Threads}, e.metrics, e.reporter)
	if err != nil {
		return nil, err
	}

	for _, unit := range []ports.Unit{aggregator, complexes, scaler, scorer} {
		if err := pipeline.Add(unit); err != nil {
			return nil, err
		}
	}
	return pipeline, nil
}
