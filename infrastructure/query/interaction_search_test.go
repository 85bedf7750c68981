package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosstalk-bio/crosstalk/internal/domain"
)

func searchIndex(t *testing.T) *domain.InteractionIndex {
	t.Helper()
	cat := &domain.Catalog{
		Genes: []domain.Gene{
			{GeneName: "CCL5", ProteinID: 1},
			{GeneName: "CCR5", ProteinID: 2},
			{GeneName: "CXCL12", ProteinID: 3},
			{GeneName: "CXCR4", ProteinID: 4},
		},
		Interactions: []domain.Interaction{
			{ID: "CPI-1", Multidata1ID: 1, Multidata2ID: 2},
			{ID: "CPI-2", Multidata1ID: 3, Multidata2ID: 4},
			{ID: "CPI-3", Multidata1ID: 1, Multidata2ID: 4},
		},
	}
	return domain.BuildInteractionIndex(cat)
}

func TestNewInteractionSearcher(t *testing.T) {
	index := searchIndex(t)

	_, err := NewInteractionSearcher(nil, SearchConfig{MaxDistance: 2, MaxSuggestions: 5})
	assert.Error(t, err, "index is required")

	_, err = NewInteractionSearcher(index, SearchConfig{MaxDistance: 0, MaxSuggestions: 5})
	assert.Error(t, err)

	_, err = NewInteractionSearcher(index, SearchConfig{MaxDistance: 2, MaxSuggestions: 0})
	assert.Error(t, err)

	searcher, err := NewInteractionSearcher(index, SearchConfig{MaxDistance: 2, MaxSuggestions: 5})
	require.NoError(t, err)
	assert.NotNil(t, searcher)
}

func TestInteractionSearcher_Search(t *testing.T) {
	searcher, err := NewInteractionSearcher(searchIndex(t), SearchConfig{MaxDistance: 2, MaxSuggestions: 5})
	require.NoError(t, err)

	tests := []struct {
		name        string
		query       string
		expectedIDs []string
	}{
		{
			name:        "matches either partner position",
			query:       "CCL5",
			expectedIDs: []string{"CPI-1", "CPI-3"},
		},
		{
			name:        "second partner position",
			query:       "CXCR4",
			expectedIDs: []string{"CPI-2", "CPI-3"},
		},
		{
			name:        "case folded",
			query:       "ccl5",
			expectedIDs: []string{"CPI-1", "CPI-3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := searcher.Search(tt.query)
			assert.Empty(t, result.Suggestions)

			ids := make([]string, 0, len(result.Matches))
			for _, m := range result.Matches {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}

func TestInteractionSearcher_Suggestions(t *testing.T) {
	searcher, err := NewInteractionSearcher(searchIndex(t), SearchConfig{MaxDistance: 2, MaxSuggestions: 5})
	require.NoError(t, err)

	// One substitution away from both CCL5 and CCR5; ties break
	// alphabetically.
	result := searcher.Search("CCX5")
	assert.Empty(t, result.Matches)
	assert.Equal(t, []string{"CCL5", "CCR5"}, result.Suggestions)

	// Far from every partner name.
	result = searcher.Search("ZZZZZZZZ")
	assert.Empty(t, result.Matches)
	assert.Empty(t, result.Suggestions)
}

func TestInteractionSearcher_SuggestionCap(t *testing.T) {
	searcher, err := NewInteractionSearcher(searchIndex(t), SearchConfig{MaxDistance: 2, MaxSuggestions: 1})
	require.NoError(t, err)

	result := searcher.Search("CCX5")
	assert.Equal(t, []string{"CCL5"}, result.Suggestions, "cap keeps the nearest name")
}
