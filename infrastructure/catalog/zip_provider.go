// Package catalog provides ports.CatalogProvider implementations that load
// the interaction/gene/complex reference tables from persistent storage.
package catalog

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/crosstalk-bio/crosstalk/internal/domain"
	"github.com/crosstalk-bio/crosstalk/internal/ports"
)

var _ ports.CatalogProvider = (*ZipProvider)(nil)

// Table file names inside a catalog archive.
const (
	interactionsFile = "interaction_table.csv"
	genesFile        = "gene_table.csv"
	compositionFile  = "complex_composition_table.csv"
	complexesFile    = "complex_table.csv"
	synonymsFile     = "gene_synonym_table.csv"
)

// ZipProvider loads the catalog from a zip archive of CSV tables, the
// distribution format of the reference database. Each table is a CSV file
// with a header row; columns are matched by name, so column order in the
// files is free. The synonym table is optional.
type ZipProvider struct{}

// NewZipProvider creates a ZipProvider.
func NewZipProvider() *ZipProvider { return &ZipProvider{} }

// Load reads the catalog tables from the archive at source.
func (p *ZipProvider) Load(ctx context.Context, source string) (*domain.Catalog, error) {
	reader, err := zip.OpenReader(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog archive %s: %w", source, err)
	}
	defer reader.Close()

	files := make(map[string]*zip.File, len(reader.File))
	for _, f := range reader.File {
		files[f.Name] = f
	}

	out := &domain.Catalog{}
	if err := readTable(ctx, files, interactionsFile, true, func(row record) error {
		id1, err := row.int64Col("multidata_1_id")
		if err != nil {
			return err
		}
		id2, err := row.int64Col("multidata_2_id")
		if err != nil {
			return err
		}
		out.Interactions = append(out.Interactions, domain.Interaction{
			ID:           row.col("id_cp_interaction"),
			Multidata1ID: id1,
			Multidata2ID: id2,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readTable(ctx, files, genesFile, true, func(row record) error {
		proteinID, err := row.int64Col("protein_id")
		if err != nil {
			return err
		}
		out.Genes = append(out.Genes, domain.Gene{
			EnsemblID: row.col("ensembl"),
			GeneName:  row.col("gene_name"),
			ProteinID: proteinID,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readTable(ctx, files, compositionFile, true, func(row record) error {
		complexID, err := row.int64Col("complex_multidata_id")
		if err != nil {
			return err
		}
		proteinID, err := row.int64Col("protein_multidata_id")
		if err != nil {
			return err
		}
		out.Compositions = append(out.Compositions, domain.ComplexComposition{
			ComplexMultidataID: complexID,
			ProteinMultidataID: proteinID,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readTable(ctx, files, complexesFile, true, func(row record) error {
		complexID, err := row.int64Col("complex_multidata_id")
		if err != nil {
			return err
		}
		out.Complexes = append(out.Complexes, domain.ComplexRecord{
			ComplexMultidataID: complexID,
			Name:               row.col("name"),
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readTable(ctx, files, synonymsFile, false, func(row record) error {
		out.Synonyms = append(out.Synonyms, domain.GeneSynonym{
			Synonym:  row.col("gene_synonym"),
			GeneName: row.col("gene_name"),
		})
		return nil
	}); err != nil {
		return nil, err
	}

	return out, nil
}

// record is one CSV row with its header mapping.
type record struct {
	header map[string]int
	fields []string
	file   string
	line   int
}

// col returns the named column's value, or "" when the column is absent.
func (r record) col(name string) string {
	idx, ok := r.header[name]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return r.fields[idx]
}

// int64Col parses the named column as a multidata identifier.
func (r record) int64Col(name string) (int64, error) {
	raw := r.col(name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s line %d: column %s: invalid identifier %q", r.file, r.line, name, raw)
	}
	return v, nil
}

// readTable streams the named CSV file from the archive, invoking visit for
// each data row. Required tables must exist; optional ones are skipped
// silently when absent.
func readTable(ctx context.Context, files map[string]*zip.File, name string, required bool, visit func(record) error) error {
	f, ok := files[name]
	if !ok {
		if required {
			return fmt.Errorf("catalog archive is missing table %s", name)
		}
		return nil
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1

	head, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read %s header: %w", name, err)
	}
	header := make(map[string]int, len(head))
	for i, col := range head {
		header[col] = i
	}

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		fields, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := visit(record{header: header, fields: fields, file: name, line: line}); err != nil {
			return err
		}
	}
}
