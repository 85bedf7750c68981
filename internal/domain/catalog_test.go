package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_GeneNameSet(t *testing.T) {
	cat := &Catalog{
		Genes: []Gene{
			{EnsemblID: "ENSG1", GeneName: "GA", ProteinID: 1},
			{EnsemblID: "ENSG2", GeneName: "GB", ProteinID: 2},
			{EnsemblID: "ENSG3", GeneName: "GA", ProteinID: 3},
		},
	}

	set := cat.GeneNameSet()
	assert.Len(t, set, 2)
	assert.Contains(t, set, "GA")
	assert.Contains(t, set, "GB")
}

func TestCatalog_ComplexSubunits(t *testing.T) {
	tests := []struct {
		name     string
		catalog  *Catalog
		expected map[string][]string
	}{
		{
			name: "joins composition against gene and complex tables",
			catalog: &Catalog{
				Genes: []Gene{
					{GeneName: "GA", ProteinID: 1},
					{GeneName: "GB", ProteinID: 2},
				},
				Complexes: []ComplexRecord{{ComplexMultidataID: 100, Name: "CXL"}},
				Compositions: []ComplexComposition{
					{ComplexMultidataID: 100, ProteinMultidataID: 1},
					{ComplexMultidataID: 100, ProteinMultidataID: 2},
				},
			},
			expected: map[string][]string{"CXL": {"GA", "GB"}},
		},
		{
			name: "deduplicates repeated subunits",
			catalog: &Catalog{
				Genes:     []Gene{{GeneName: "GA", ProteinID: 1}},
				Complexes: []ComplexRecord{{ComplexMultidataID: 100, Name: "CXL"}},
				Compositions: []ComplexComposition{
					{ComplexMultidataID: 100, ProteinMultidataID: 1},
					{ComplexMultidataID: 100, ProteinMultidataID: 1},
				},
			},
			expected: map[string][]string{"CXL": {"GA"}},
		},
		{
			name: "drops placeholder gene names",
			catalog: &Catalog{
				Genes: []Gene{
					{GeneName: "GA", ProteinID: 1},
					{GeneName: "nan", ProteinID: 2},
					{GeneName: "", ProteinID: 3},
				},
				Complexes: []ComplexRecord{{ComplexMultidataID: 100, Name: "CXL"}},
				Compositions: []ComplexComposition{
					{ComplexMultidataID: 100, ProteinMultidataID: 1},
					{ComplexMultidataID: 100, ProteinMultidataID: 2},
					{ComplexMultidataID: 100, ProteinMultidataID: 3},
				},
			},
			expected: map[string][]string{"CXL": {"GA"}},
		},
		{
			name: "omits complex whose subunits all drop out",
			catalog: &Catalog{
				Genes:     []Gene{{GeneName: "NaN", ProteinID: 1}},
				Complexes: []ComplexRecord{{ComplexMultidataID: 100, Name: "CXL"}},
				Compositions: []ComplexComposition{
					{ComplexMultidataID: 100, ProteinMultidataID: 1},
				},
			},
			expected: map[string][]string{},
		},
		{
			name: "ignores composition rows pointing at unknown ids",
			catalog: &Catalog{
				Genes:     []Gene{{GeneName: "GA", ProteinID: 1}},
				Complexes: []ComplexRecord{{ComplexMultidataID: 100, Name: "CXL"}},
				Compositions: []ComplexComposition{
					{ComplexMultidataID: 100, ProteinMultidataID: 1},
					{ComplexMultidataID: 100, ProteinMultidataID: 99},
					{ComplexMultidataID: 999, ProteinMultidataID: 1},
				},
			},
			expected: map[string][]string{"CXL": {"GA"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.catalog.ComplexSubunits()
			require.Len(t, got, len(tt.expected))
			for name, subunits := range tt.expected {
				assert.Equal(t, subunits, got[name], "complex %s", name)
			}
		})
	}
}
