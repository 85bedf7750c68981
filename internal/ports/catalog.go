package ports

import (
	"context"

	"github.com/crosstalk-bio/crosstalk/internal/domain"
)

// CatalogProvider loads the interaction/gene/complex reference catalog from
// persistent storage. The source string is provider-specific: a file path
// for archive-backed providers, a DSN for SQL-backed ones.
//
// Implementations return the five typed tables bundled in a domain.Catalog;
// they perform no filtering or joining beyond column mapping, so every
// provider yields the same snapshot for the same underlying data.
type CatalogProvider interface {
	Load(ctx context.Context, source string) (*domain.Catalog, error)
}
