package storage

import (
	"encoding/json"
	"io"
	"math"
	"strconv"
)

// Value marshals non-finite numbers as null.
type Value float64

func (v Value) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

type ExportTable struct {
	Title   string    `json:"title"`
	Columns []string  `json:"columns"`
	Rows    [][]Value `json:"rows"`
}

type ExportData struct {
	RunMetadata
	Data []ExportTable `json:"data"`
}

// ExportJSON writes the metadata and every table of a run.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	data := ExportData{RunMetadata: *meta}
	for i := range meta.Tables {
		rec, err := s.LoadTable(runID, i)
		if err != nil {
			return err
		}
		t := ExportTable{Title: rec.Title, Columns: rec.Names(), Rows: make([][]Value, len(rec.Rows))}
		for j, row := range rec.Rows {
			t.Rows[j] = make([]Value, len(row))
			for k, v := range row {
				t.Rows[j][k] = Value(v)
			}
		}
		data.Data = append(data.Data, t)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes one table of a run.
func (s *Store) ExportCSV(w io.Writer, runID string, table int) error {
	rec, err := s.LoadTable(runID, table)
	if err != nil {
		return err
	}
	return WriteCSV(w, rec.Names(), rec.Rows)
}
