package domain

const (
	// directedSep joins partner names into directed membership keys.
	directedSep = "|"
	// canonicalSep joins sorted partner names into canonical lookup keys.
	canonicalSep = "-"
)

// DirectedKey returns the membership key for an ordered (ligand, receptor)
// name pair.
func DirectedKey(a, b string) string { return a + directedSep + b }

// CanonicalKey returns the order-independent lookup key for a partner pair:
// the two names sorted, joined with "-".
func CanonicalKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + canonicalSep + b
}

// InteractionIndex is the derived lookup structure for catalog interactions:
// a membership set of every directed partner-name pair, used for O(1)
// filtering of outer-product candidates, and a canonical sorted-name lookup
// resolving a pair to its interaction id.
//
// Both views are built from the same catalog snapshot; a membership hit that
// misses the canonical lookup is a ConsistencyError, never a silent drop.
// The index is immutable after construction and safe for concurrent reads.
type InteractionIndex struct {
	membership map[string]struct{}
	canonical  map[string]string
	partners   map[string]struct{}
	resolved   []ResolvedInteraction
	skipped    int
}

// ResolvedInteraction is an interaction with both partner identifiers
// substituted by gene or complex names.
type ResolvedInteraction struct {
	ID       string
	PartnerA string
	PartnerB string
}

// BuildInteractionIndex derives the index from the catalog.
//
// Partner identifiers are substituted with names in two documented steps:
// gene protein ids first, then complex ids, with complexes overwriting any
// identifier present in both. Interactions with a partner identifier that
// resolves to no name are skipped and counted; matrix rows are keyed by
// name, so such interactions could never match a candidate pair anyway.
func BuildInteractionIndex(c *Catalog) *InteractionIndex {
	names := c.proteinNames()
	for id, name := range c.complexNames() {
		names[id] = name
	}

	ix := &InteractionIndex{
		membership: make(map[string]struct{}, 2*len(c.Interactions)),
		canonical:  make(map[string]string, len(c.Interactions)),
		partners:   make(map[string]struct{}, len(c.Interactions)),
	}
	for _, in := range c.Interactions {
		a, okA := names[in.Multidata1ID]
		b, okB := names[in.Multidata2ID]
		if !okA || !okB {
			ix.skipped++
			continue
		}
		ix.membership[DirectedKey(a, b)] = struct{}{}
		ix.membership[DirectedKey(b, a)] = struct{}{}
		ix.canonical[CanonicalKey(a, b)] = in.ID
		ix.partners[a] = struct{}{}
		ix.partners[b] = struct{}{}
		ix.resolved = append(ix.resolved, ResolvedInteraction{ID: in.ID, PartnerA: a, PartnerB: b})
	}
	return ix
}

// Interactions returns every interaction with both partners resolved to
// names, in catalog order. The returned slice is shared; callers must not
// modify it.
func (ix *InteractionIndex) Interactions() []ResolvedInteraction { return ix.resolved }

// Contains reports whether the directed (ligand, receptor) name pair belongs
// to the catalog in either orientation of some interaction.
func (ix *InteractionIndex) Contains(ligand, receptor string) bool {
	_, ok := ix.membership[DirectedKey(ligand, receptor)]
	return ok
}

// InteractionID resolves a partner pair, in either order, to its catalog
// interaction id.
func (ix *InteractionIndex) InteractionID(a, b string) (string, bool) {
	id, ok := ix.canonical[CanonicalKey(a, b)]
	return id, ok
}

// Len returns the number of interactions with both partners resolved.
func (ix *InteractionIndex) Len() int { return len(ix.canonical) }

// Skipped returns the number of interactions dropped because a partner
// identifier resolved to no gene or complex name.
func (ix *InteractionIndex) Skipped() int { return ix.skipped }

// PartnerNames returns the names participating in at least one interaction,
// in no particular order. Used by interaction search.
func (ix *InteractionIndex) PartnerNames() []string {
	out := make([]string, 0, len(ix.partners))
	for name := range ix.partners {
		out = append(out, name)
	}
	return out
}
