package main

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crosstalk-bio/crosstalk/infrastructure/catalog"
	"github.com/crosstalk-bio/crosstalk/infrastructure/middleware"
	"github.com/crosstalk-bio/crosstalk/internal/application"
	"github.com/crosstalk-bio/crosstalk/internal/ports"
)

// progressLogRate bounds how often worker progress reaches the log.
const progressLogRate = 2.0

func newScoreCmd(logger *zap.Logger) *cobra.Command {
	var (
		matrixPath   string
		metadataPath string
		catalogPath  string
		configPath   string
		outputDir    string
		jsonPath     string
		threads      int
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score all ligand–receptor interactions across cell-type pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := application.DefaultConfig()
			if configPath != "" {
				loaded, err := application.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if threads > 0 {
				cfg.Threads = threads
			}

			matrix, err := loadMatrixCSV(matrixPath)
			if err != nil {
				return fmt.Errorf("loading expression matrix: %w", err)
			}
			meta, err := loadMetadataCSV(metadataPath, cfg.CellTypeColumn)
			if err != nil {
				return fmt.Errorf("loading cell metadata: %w", err)
			}
			logger.Info("inputs loaded",
				zap.Int("genes", matrix.NumRows()),
				zap.Int("cells", matrix.NumCols()),
				zap.Int("annotated_cells", meta.Len()),
			)

			engine, err := application.NewEngine(providerFor(catalogPath),
				application.WithMetrics(middleware.NewPrometheusMetrics(prometheus.DefaultRegisterer)),
				application.WithProgressReporter(middleware.NewThrottledReporter(
					&zapProgressReporter{logger: logger}, progressLogRate)),
			)
			if err != nil {
				return err
			}

			scores, err := engine.ScoreProduct(cmd.Context(), matrix, meta, catalogPath, cfg)
			if err != nil {
				return err
			}
			logger.Info("scoring finished", zap.Int("cell_type_pairs", len(scores)))

			if outputDir != "" {
				if err := writeScoreCSV(outputDir, scores); err != nil {
					return fmt.Errorf("writing CSV output: %w", err)
				}
			}
			if jsonPath != "" {
				if err := writeScoreJSON(jsonPath, scores); err != nil {
					return fmt.Errorf("writing JSON output: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&matrixPath, "matrix", "", "CSV expression matrix, genes by cells (required)")
	cmd.Flags().StringVar(&metadataPath, "metadata", "", "CSV cell metadata with a cell-type column (required)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog archive path or postgres:// DSN (required)")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML run configuration")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for per-pair CSV score tables")
	cmd.Flags().StringVar(&jsonPath, "json", "", "path for the combined JSON score collection")
	cmd.Flags().IntVar(&threads, "threads", 0, "worker pool size (overrides config)")
	_ = cmd.MarkFlagRequired("matrix")
	_ = cmd.MarkFlagRequired("metadata")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}

// providerFor picks the catalog provider from the source's shape: a
// PostgreSQL DSN selects the SQL provider, anything else is treated as an
// archive path.
func providerFor(source string) ports.CatalogProvider {
	if strings.HasPrefix(source, "postgres://") || strings.HasPrefix(source, "postgresql://") {
		return catalog.NewSQLProvider()
	}
	return catalog.NewZipProvider()
}

// zapProgressReporter surfaces pipeline progress through the CLI logger.
type zapProgressReporter struct {
	logger *zap.Logger
}

func (r *zapProgressReporter) StageStarted(stage string, total int) {
	r.logger.Info("stage started", zap.String("stage", stage), zap.Int("total", total))
}

func (r *zapProgressReporter) StageProgressed(stage string, n int) {
	r.logger.Info("stage progressed", zap.String("stage", stage), zap.Int("completed", n))
}

func (r *zapProgressReporter) StageCompleted(stage string) {
	r.logger.Info("stage completed", zap.String("stage", stage))
}
