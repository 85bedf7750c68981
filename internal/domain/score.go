package domain

// ScoreRow is one catalog-matched candidate from a cell-type pair's outer
// product: PartnerA is expressed in the pair's first cell type, PartnerB in
// the second, Score is the product of their scaled mean expressions.
type ScoreRow struct {
	PartnerA      string
	PartnerB      string
	Score         float64
	InteractionID string
}

// ScoreTable holds the ordered, densely indexed score rows for one
// unordered cell-type pair.
type ScoreTable struct {
	CellTypeA string
	CellTypeB string
	Rows      []ScoreRow
}

// ScoreCollection maps the canonical cell-type pair key (labels sorted
// alphabetically, joined with "|") to the pair's score table. It is built
// once per run and never mutated afterwards.
type ScoreCollection map[string]ScoreTable

// PairKey returns the canonical key for an unordered cell-type pair.
func PairKey(typeA, typeB string) string {
	if typeB < typeA {
		typeA, typeB = typeB, typeA
	}
	return typeA + directedSep + typeB
}

// Table returns the score table stored under the canonical key of the given
// cell-type pair, in either order.
func (c ScoreCollection) Table(typeA, typeB string) (ScoreTable, bool) {
	t, ok := c[PairKey(typeA, typeB)]
	return t, ok
}
