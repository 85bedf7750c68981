package units

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/crosstalk-bio/crosstalk/internal/domain"
	"github.com/crosstalk-bio/crosstalk/internal/ports"
)

var _ ports.Unit = (*PairScorerUnit)(nil)

// scoringStage is the progress-reporter stage name for pairwise scoring.
const scoringStage = "pairwise_scoring"

// PairScorerUnit computes communication scores for every unordered pair of
// cell types, self-pairs included. For each pair it forms the outer product
// of the two cell types' scaled expression columns (every (row_i, row_j)
// combination), keeps the combinations present in the interaction index's
// membership set, and tags the survivors with their catalog interaction id.
//
// The outer-product-and-filter step is a pure function of two read-only
// columns and the shared membership set, so it fans out across an
// errgroup-bounded worker pool with one task per cell-type pair and no
// synchronization among workers. Results arrive in completion order and are
// keyed by pair, which keeps the collection order-independent. Tagging runs
// sequentially afterwards; it is cheap next to the outer product.
//
// A failed task, or a membership hit with no canonical catalog entry,
// aborts the whole run. Partial score collections are never returned.
type PairScorerUnit struct {
	name     string
	config   PairScorerConfig
	metrics  ports.MetricsCollector
	reporter ports.ProgressReporter
	tracer   trace.Tracer
}

// PairScorerConfig defines the configuration for PairScorerUnit.
type PairScorerConfig struct {
	// Threads bounds the worker pool scoring cell-type pairs.
	Threads int `yaml:"threads" json:"threads" validate:"min=1"`
}

// pairResult carries one pair's filtered outer product back to the driver,
// before interaction ids are attached.
type pairResult struct {
	typeA, typeB string
	rows         []domain.ScoreRow
}

// NewPairScorerUnit creates a PairScorerUnit with a validated configuration.
// Metrics collector and progress reporter are optional; pass nil to disable.
func NewPairScorerUnit(name string, config PairScorerConfig, metrics ports.MetricsCollector, reporter ports.ProgressReporter) (*PairScorerUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &PairScorerUnit{
		name:     name,
		config:   config,
		metrics:  metrics,
		reporter: reporter,
		tracer:   otel.Tracer("pair-scorer-unit"),
	}, nil
}

// Name returns the unique identifier for this unit instance.
func (u *PairScorerUnit) Name() string { return u.name }

// Validate checks that the unit's configuration is complete and consistent.
func (u *PairScorerUnit) Validate() error {
	if u.name == "" {
		return ErrEmptyUnitName
	}
	return validate.Struct(u.config)
}

// Execute reads the scaled mean matrix and the interaction index from the
// state and stores the score collection.
func (u *PairScorerUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	matrix, ok := domain.Get(state, domain.KeyMeanMatrix)
	if !ok {
		return state, ErrMissingMeanMatrix
	}
	index, ok := domain.Get(state, domain.KeyInteractionIndex)
	if !ok {
		return state, ErrMissingInteractionIndex
	}

	ctx, span := u.tracer.Start(ctx, "pair_scorer.execute",
		trace.WithAttributes(
			attribute.Int("matrix.rows", matrix.NumRows()),
			attribute.Int("matrix.cell_types", matrix.NumCols()),
			attribute.Int("threads", u.config.Threads),
		),
	)
	defer span.End()

	scores, err := u.ScoreProduct(ctx, matrix, index)
	if err != nil {
		span.RecordError(err)
		return state, fmt.Errorf("unit %s: %w", u.name, err)
	}
	return domain.With(state, domain.KeyScores, scores), nil
}

// ScoreProduct scores every unordered cell-type pair of the scaled matrix
// against the interaction index and returns the collection keyed by
// canonical pair key.
func (u *PairScorerUnit) ScoreProduct(ctx context.Context, matrix *domain.Matrix, index *domain.InteractionIndex) (domain.ScoreCollection, error) {
	if matrix.IsEmpty() {
		return nil, domain.ErrEmptyMatrix
	}
	start := time.Now()

	cellTypes := matrix.Cols()
	pairs := pairsWithReplacement(cellTypes)
	rows := matrix.Rows()

	reportStarted(u.reporter, scoringStage, len(pairs))

	results := make(chan pairResult, len(pairs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(u.config.Threads)
	for _, pair := range pairs {
		typeA, typeB := pair[0], pair[1]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			filtered, err := u.scorePair(matrix, index, rows, typeA, typeB)
			if err != nil {
				return err
			}
			results <- pairResult{typeA: typeA, typeB: typeB, rows: filtered}
			reportProgress(u.reporter, scoringStage, 1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(results)

	// Interaction-id tagging happens sequentially on the collected
	// results. Every surviving key was admitted by the membership set, so
	// a canonical lookup miss means the index views diverged: fatal.
	collection := make(domain.ScoreCollection, len(pairs))
	for res := range results {
		for i := range res.rows {
			row := &res.rows[i]
			id, ok := index.InteractionID(row.PartnerA, row.PartnerB)
			if !ok {
				return nil, &domain.ConsistencyError{PartnerA: row.PartnerA, PartnerB: row.PartnerB}
			}
			row.InteractionID = id
		}
		collection[domain.PairKey(res.typeA, res.typeB)] = domain.ScoreTable{
			CellTypeA: res.typeA,
			CellTypeB: res.typeB,
			Rows:      res.rows,
		}
	}

	reportCompleted(u.reporter, scoringStage)
	if u.metrics != nil {
		labels := map[string]string{"unit": u.name}
		u.metrics.RecordLatency("score_product", time.Since(start), labels)
		u.metrics.RecordGauge("cell_type_pairs", float64(len(pairs)), labels)
	}
	return collection, nil
}

// scorePair forms the outer product of the two cell types' columns and
// keeps the (ligand, receptor) combinations admitted by the membership set.
// Row order of the result follows the outer product: ligand-major, then
// receptor, giving each pair a dense, deterministic table.
func (u *PairScorerUnit) scorePair(matrix *domain.Matrix, index *domain.InteractionIndex, rows []string, typeA, typeB string) ([]domain.ScoreRow, error) {
	colA, err := matrix.Column(typeA)
	if err != nil {
		return nil, err
	}
	colB, err := matrix.Column(typeB)
	if err != nil {
		return nil, err
	}

	var out []domain.ScoreRow
	for i, ligand := range rows {
		for j, receptor := range rows {
			if !index.Contains(ligand, receptor) {
				continue
			}
			out = append(out, domain.ScoreRow{
				PartnerA: ligand,
				PartnerB: receptor,
				Score:    colA[i] * colB[j],
			})
		}
	}
	return out, nil
}

// pairsWithReplacement enumerates the unordered pairs of cell types,
// including each type paired with itself: C(k,2)+k pairs for k types.
func pairsWithReplacement(cellTypes []string) [][2]string {
	n := len(cellTypes)
	out := make([][2]string, 0, n*(n+1)/2)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			out = append(out, [2]string{cellTypes[i], cellTypes[j]})
		}
	}
	return out
}

// UnmarshalParameters deserializes YAML configuration into the unit's
// parameters, validating before replacing the current settings.
func (u *PairScorerUnit) UnmarshalParameters(params yaml.Node) error {
	var config PairScorerConfig
	if err := params.Decode(&config); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}
	u.config = config
	return nil
}
