package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/crosstalk-bio/crosstalk/internal/domain"
)

// loadMatrixCSV reads a genes-by-cells expression matrix. The header row
// carries the cell identifiers (the first header field labels the gene
// column and is ignored); each following row is a gene name and its values.
func loadMatrixCSV(path string) (*domain.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", path, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%s: matrix has no cell columns", path)
	}
	cells := header[1:]

	var genes []string
	var values [][]float64
	for line := 2; ; line++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(fields) != len(header) {
			return nil, fmt.Errorf("%s line %d: expected %d fields, got %d", path, line, len(header), len(fields))
		}
		row := make([]float64, len(cells))
		for j, raw := range fields[1:] {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: invalid value %q", path, line, raw)
			}
			row[j] = v
		}
		genes = append(genes, fields[0])
		values = append(values, row)
	}

	matrix, err := domain.NewMatrix(genes, cells)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i := range values {
		for j, v := range values[i] {
			matrix.SetAt(i, j, v)
		}
	}
	return matrix, nil
}

// loadMetadataCSV reads cell metadata: the first column holds the cell
// identifier, the named column holds its cell-type label.
func loadMetadataCSV(path, cellTypeColumn string) (*domain.CellMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", path, err)
	}

	labelIdx := -1
	for i, col := range header {
		if col == cellTypeColumn {
			labelIdx = i
			break
		}
	}
	if labelIdx < 0 {
		return nil, fmt.Errorf("%s: missing cell-type column %q", path, cellTypeColumn)
	}

	meta := domain.NewCellMetadata()
	for line := 2; ; line++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if labelIdx >= len(fields) {
			return nil, fmt.Errorf("%s line %d: too few fields", path, line)
		}
		if err := meta.Add(fields[0], fields[labelIdx]); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
	}
	return meta, nil
}
