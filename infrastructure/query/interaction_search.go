// Package query provides read-side lookups over a loaded catalog, outside
// the scoring pipeline.
package query

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"

	"github.com/crosstalk-bio/crosstalk/internal/domain"
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// foldCaser is a package-level Unicode case folder, shared because caser
// construction is not free.
var foldCaser = cases.Fold()

// SearchConfig defines the parameters of fuzzy suggestion ranking.
type SearchConfig struct {
	// MaxDistance is the largest Levenshtein distance a partner name may
	// have from the query to be suggested.
	MaxDistance int `yaml:"max_distance" json:"max_distance" validate:"min=1"`

	// MaxSuggestions caps the number of returned suggestions.
	MaxSuggestions int `yaml:"max_suggestions" json:"max_suggestions" validate:"min=1"`
}

// InteractionSearcher answers "which catalog interactions involve this
// partner" queries. Matching is case-folded; when a query matches nothing,
// the searcher falls back to Levenshtein-ranked partner-name suggestions.
// It is immutable after construction and safe for concurrent use.
type InteractionSearcher struct {
	index  *domain.InteractionIndex
	config SearchConfig
}

// SearchResult is the outcome of one partner query. When Matches is empty,
// Suggestions holds the closest partner names, nearest first.
type SearchResult struct {
	Matches     []domain.ResolvedInteraction
	Suggestions []string
}

// NewInteractionSearcher creates a searcher over the given index.
func NewInteractionSearcher(index *domain.InteractionIndex, config SearchConfig) (*InteractionSearcher, error) {
	if index == nil {
		return nil, fmt.Errorf("interaction index is required")
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &InteractionSearcher{index: index, config: config}, nil
}

// Search returns the interactions in which the queried partner
// participates, matched case-insensitively against either partner name.
func (s *InteractionSearcher) Search(partner string) SearchResult {
	folded := foldCaser.String(partner)

	var matches []domain.ResolvedInteraction
	for _, in := range s.index.Interactions() {
		if foldCaser.String(in.PartnerA) == folded || foldCaser.String(in.PartnerB) == folded {
			matches = append(matches, in)
		}
	}
	if len(matches) > 0 {
		return SearchResult{Matches: matches}
	}
	return SearchResult{Suggestions: s.suggest(folded)}
}

// suggest ranks partner names by Levenshtein distance from the folded
// query, keeping names within MaxDistance, nearest first. Ties break
// alphabetically so results are stable.
func (s *InteractionSearcher) suggest(folded string) []string {
	type scored struct {
		name     string
		distance int
	}
	var candidates []scored
	for _, name := range s.index.PartnerNames() {
		d := levenshtein.ComputeDistance(folded, foldCaser.String(name))
		if d <= s.config.MaxDistance {
			candidates = append(candidates, scored{name: name, distance: d})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})

	n := len(candidates)
	if n > s.config.MaxSuggestions {
		n = s.config.MaxSuggestions
	}
	out := make([]string, 0, n)
	for _, c := range candidates[:n] {
		out = append(out, c.name)
	}
	return out
}
