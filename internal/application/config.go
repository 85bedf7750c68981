package application

import (
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Package-level validator for configuration structs.
var validate = validator.New()

// Config holds the knobs of a full scoring run. Zero values are not
// runnable; start from DefaultConfig and override.
type Config struct {
	// CellTypeColumn names the metadata column carrying cell-type labels.
	// Consumed by ingestion; the engine itself receives parsed metadata.
	CellTypeColumn string `yaml:"cell_type_column" validate:"required"`

	// FilterGenes toggles the prevalence filtering stage.
	FilterGenes bool `yaml:"filter_genes"`

	// MinPctCell is the expression-prevalence threshold in [0,1] used when
	// FilterGenes is set.
	MinPctCell float64 `yaml:"min_pct_cell" validate:"min=0,max=1"`

	// Aggregation selects the per-cell-type reduction: "mean" or "ratio".
	Aggregation string `yaml:"aggregation" validate:"required,oneof=mean ratio"`

	// UpperRange is the upper bound of per-row min-max scaling.
	UpperRange float64 `yaml:"upper_range" validate:"gt=0"`

	// Threads bounds the pairwise scoring worker pool.
	Threads int `yaml:"threads" validate:"min=1"`
}

// DefaultConfig returns the standard scoring configuration: filtering at
// 10% prevalence, mean aggregation, scaling to [0,10], four workers.
func DefaultConfig() Config {
	return Config{
		CellTypeColumn: "cell_type",
		FilterGenes:    true,
		MinPctCell:     0.1,
		Aggregation:    "mean",
		UpperRange:     10,
		Threads:        4,
	}
}

// ParseConfig decodes a YAML configuration from r, applying validation.
// Fields absent from the document keep their DefaultConfig values.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config %s: %w", path, err)
	}
	defer f.Close()
	return ParseConfig(f)
}
