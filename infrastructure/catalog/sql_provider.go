package catalog

import (
	"context"
	"database/sql"
	"fmt"

	// Registers the "postgres" driver with database/sql.
	_ "github.com/lib/pq"

	"github.com/crosstalk-bio/crosstalk/internal/domain"
	"github.com/crosstalk-bio/crosstalk/internal/ports"
)

var _ ports.CatalogProvider = (*SQLProvider)(nil)

// SQLProvider loads the catalog from a PostgreSQL database holding the five
// reference tables. The Load source is a PostgreSQL DSN.
//
// Expected schema (column names match the archive tables):
//
//	interaction_table(id_cp_interaction TEXT, multidata_1_id BIGINT, multidata_2_id BIGINT)
//	gene_table(ensembl TEXT, gene_name TEXT, protein_id BIGINT)
//	complex_composition_table(complex_multidata_id BIGINT, protein_multidata_id BIGINT)
//	complex_table(complex_multidata_id BIGINT, name TEXT)
//	gene_synonym_table(gene_synonym TEXT, gene_name TEXT)
type SQLProvider struct{}

// NewSQLProvider creates a SQLProvider.
func NewSQLProvider() *SQLProvider { return &SQLProvider{} }

// Load connects to the database at the DSN and reads all five tables.
func (p *SQLProvider) Load(ctx context.Context, source string) (*domain.Catalog, error) {
	db, err := sql.Open("postgres", source)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach catalog database: %w", err)
	}

	out := &domain.Catalog{}

	if err := queryRows(ctx, db,
		`SELECT id_cp_interaction, multidata_1_id, multidata_2_id FROM interaction_table`,
		func(rows *sql.Rows) error {
			var in domain.Interaction
			if err := rows.Scan(&in.ID, &in.Multidata1ID, &in.Multidata2ID); err != nil {
				return err
			}
			out.Interactions = append(out.Interactions, in)
			return nil
		}); err != nil {
		return nil, fmt.Errorf("querying interactions: %w", err)
	}

	if err := queryRows(ctx, db,
		`SELECT ensembl, gene_name, protein_id FROM gene_table`,
		func(rows *sql.Rows) error {
			var g domain.Gene
			if err := rows.Scan(&g.EnsemblID, &g.GeneName, &g.ProteinID); err != nil {
				return err
			}
			out.Genes = append(out.Genes, g)
			return nil
		}); err != nil {
		return nil, fmt.Errorf("querying genes: %w", err)
	}

	if err := queryRows(ctx, db,
		`SELECT complex_multidata_id, protein_multidata_id FROM complex_composition_table`,
		func(rows *sql.Rows) error {
			var c domain.ComplexComposition
			if err := rows.Scan(&c.ComplexMultidataID, &c.ProteinMultidataID); err != nil {
				return err
			}
			out.Compositions = append(out.Compositions, c)
			return nil
		}); err != nil {
		return nil, fmt.Errorf("querying complex composition: %w", err)
	}

	if err := queryRows(ctx, db,
		`SELECT complex_multidata_id, name FROM complex_table`,
		func(rows *sql.Rows) error {
			var c domain.ComplexRecord
			if err := rows.Scan(&c.ComplexMultidataID, &c.Name); err != nil {
				return err
			}
			out.Complexes = append(out.Complexes, c)
			return nil
		}); err != nil {
		return nil, fmt.Errorf("querying complexes: %w", err)
	}

	if err := queryRows(ctx, db,
		`SELECT gene_synonym, gene_name FROM gene_synonym_table`,
		func(rows *sql.Rows) error {
			var s domain.GeneSynonym
			if err := rows.Scan(&s.Synonym, &s.GeneName); err != nil {
				return err
			}
			out.Synonyms = append(out.Synonyms, s)
			return nil
		}); err != nil {
		return nil, fmt.Errorf("querying gene synonyms: %w", err)
	}

	return out, nil
}

// queryRows runs a query and applies scan to every row.
func queryRows(ctx context.Context, db *sql.DB, query string, scan func(*sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
