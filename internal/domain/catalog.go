package domain

import (
	"sort"
	"strings"
)

// Gene is one row of the catalog gene table. ProteinID shares the multidata
// identifier space used by interactions and complexes.
type Gene struct {
	EnsemblID string
	GeneName  string
	ProteinID int64
}

// Interaction is one row of the catalog interaction table. The two partner
// columns hold multidata identifiers that resolve to either a gene's protein
// or a complex. Partner order carries no meaning.
type Interaction struct {
	ID           string
	Multidata1ID int64
	Multidata2ID int64
}

// ComplexComposition links a complex to one of its subunit proteins.
type ComplexComposition struct {
	ComplexMultidataID int64
	ProteinMultidataID int64
}

// ComplexRecord is one row of the catalog complex table.
type ComplexRecord struct {
	ComplexMultidataID int64
	Name               string
}

// GeneSynonym maps an alternative gene symbol to its catalog gene name.
type GeneSynonym struct {
	Synonym  string
	GeneName string
}

// Catalog bundles the five reference tables consumed by the scoring
// pipeline. Providers (zip archive, SQL) produce it; the engine treats it as
// immutable after loading.
type Catalog struct {
	Interactions []Interaction
	Genes        []Gene
	Compositions []ComplexComposition
	Complexes    []ComplexRecord
	Synonyms     []GeneSynonym
}

// GeneNameSet returns the set of gene names present in the gene table.
func (c *Catalog) GeneNameSet() map[string]struct{} {
	out := make(map[string]struct{}, len(c.Genes))
	for _, g := range c.Genes {
		out[g.GeneName] = struct{}{}
	}
	return out
}

// proteinNames maps protein multidata ids to gene names. When several gene
// rows share a protein id, the later row overwrites the earlier one.
func (c *Catalog) proteinNames() map[int64]string {
	out := make(map[int64]string, len(c.Genes))
	for _, g := range c.Genes {
		out[g.ProteinID] = g.GeneName
	}
	return out
}

// complexNames maps complex multidata ids to complex names.
func (c *Catalog) complexNames() map[int64]string {
	out := make(map[int64]string, len(c.Complexes))
	for _, cx := range c.Complexes {
		out[cx.ComplexMultidataID] = cx.Name
	}
	return out
}

// ComplexSubunits returns, for each complex name, the deduplicated list of
// subunit gene names, built by joining the composition table against the
// complex and gene tables. Subunit entries with an empty or "nan" gene name
// are dropped; a complex whose subunits all drop out is omitted entirely.
// Subunit lists are sorted so the result is deterministic.
func (c *Catalog) ComplexSubunits() map[string][]string {
	byProtein := c.proteinNames()
	byComplex := c.complexNames()

	sets := make(map[string]map[string]struct{})
	for _, comp := range c.Compositions {
		name, ok := byComplex[comp.ComplexMultidataID]
		if !ok {
			continue
		}
		gene, ok := byProtein[comp.ProteinMultidataID]
		if !ok || isMissingName(gene) {
			continue
		}
		set, ok := sets[name]
		if !ok {
			set = make(map[string]struct{})
			sets[name] = set
		}
		set[gene] = struct{}{}
	}

	out := make(map[string][]string, len(sets))
	for name, set := range sets {
		if len(set) == 0 {
			continue
		}
		subunits := make([]string, 0, len(set))
		for gene := range set {
			subunits = append(subunits, gene)
		}
		sort.Strings(subunits)
		out[name] = subunits
	}
	return out
}

// isMissingName reports whether a gene name is an absent-value placeholder.
// Tabular exports of the catalog encode missing names as the literal "nan".
func isMissingName(s string) bool {
	return s == "" || strings.EqualFold(s, "nan")
}
