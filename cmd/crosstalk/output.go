package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/crosstalk-bio/crosstalk/internal/domain"
)

// writeScoreCSV writes one CSV file per cell-type pair into dir. Following
// the catalog convention, the first two header fields name the pair's cell
// types and the rows carry the partner expressed in each.
func writeScoreCSV(dir string, scores domain.ScoreCollection) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	keys := make([]string, 0, len(scores))
	for key := range scores {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		table := scores[key]
		name := strings.ReplaceAll(key, "|", "__") + ".csv"
		if err := writeTableCSV(filepath.Join(dir, name), table); err != nil {
			return fmt.Errorf("pair %s: %w", key, err)
		}
	}
	return nil
}

func writeTableCSV(path string, table domain.ScoreTable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{table.CellTypeA, table.CellTypeB, "score", "id_cp_interaction"}); err != nil {
		return err
	}
	for _, row := range table.Rows {
		record := []string{
			row.PartnerA,
			row.PartnerB,
			strconv.FormatFloat(row.Score, 'g', -1, 64),
			row.InteractionID,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// scoreRowJSON mirrors domain.ScoreRow with stable JSON field names.
type scoreRowJSON struct {
	PartnerA      string  `json:"partner_a"`
	PartnerB      string  `json:"partner_b"`
	Score         float64 `json:"score"`
	InteractionID string  `json:"interaction_id"`
}

// scoreTableJSON mirrors domain.ScoreTable.
type scoreTableJSON struct {
	CellTypeA string         `json:"cell_type_a"`
	CellTypeB string         `json:"cell_type_b"`
	Rows      []scoreRowJSON `json:"rows"`
}

// writeScoreJSON writes the whole collection as a single JSON document
// keyed by canonical pair key.
func writeScoreJSON(path string, scores domain.ScoreCollection) error {
	out := make(map[string]scoreTableJSON, len(scores))
	for key, table := range scores {
		rows := make([]scoreRowJSON, 0, len(table.Rows))
		for _, row := range table.Rows {
			rows = append(rows, scoreRowJSON{
				PartnerA:      row.PartnerA,
				PartnerB:      row.PartnerB,
				Score:         row.Score,
				InteractionID: row.InteractionID,
			})
		}
		out[key] = scoreTableJSON{CellTypeA: table.CellTypeA, CellTypeB: table.CellTypeB, Rows: rows}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
