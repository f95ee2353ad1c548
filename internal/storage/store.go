package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/astropc/internal/report"
)

// ErrNoTable is returned for a table index the run does not have.
var ErrNoTable = errors.New("no such table")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type TableMetadata struct {
	File    string   `json:"file"`
	Title   string   `json:"title"`
	Columns []string `json:"columns"`
	Rows    int      `json:"rows"`
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Chapter    string             `json:"chapter"`
	Timestamp  time.Time          `json:"timestamp"`
	Integrator string             `json:"integrator,omitempty"`
	MaxSteps   int                `json:"max_steps,omitempty"`
	Params     map[string]float64 `json:"params"`
	Tables     []TableMetadata    `json:"tables"`
	Notes      []string           `json:"notes,omitempty"`
}

// Save writes metadata.json and one CSV per recorded table. meta.ID,
// Timestamp and Tables are filled in.
func (s *Store) Save(meta RunMetadata, rec *report.Recorder) (string, error) {
	meta.Timestamp = time.Now()
	meta.ID = fmt.Sprintf("%s_%d_%s", meta.Chapter, meta.Timestamp.Unix(), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.Tables = meta.Tables[:0]
	meta.Notes = append([]string(nil), rec.Notes...)
	for i, t := range rec.Tables {
		tm := TableMetadata{
			File:    fmt.Sprintf("table_%02d.csv", i),
			Title:   t.Title,
			Columns: t.Names(),
			Rows:    len(t.Rows),
		}
		if err := writeTable(filepath.Join(runDir, tm.File), tm.Columns, t.Rows); err != nil {
			return "", err
		}
		meta.Tables = append(meta.Tables, tm)
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeTable(path string, header []string, rows [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WriteCSV(f, header, rows); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV writes a header and rows. Non-finite values are written as
// NaN, +Inf or -Inf.
func WriteCSV(w io.Writer, header []string, rows [][]float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// List returns the stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTable reads table index of a run back into a recording.
func (s *Store) LoadTable(runID string, index int) (*report.Recording, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(meta.Tables) {
		return nil, fmt.Errorf("%w: run %s has %d tables, asked for %d", ErrNoTable, runID, len(meta.Tables), index)
	}
	tm := meta.Tables[index]

	file, err := os.Open(filepath.Join(s.baseDir, runID, tm.File))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	rec := &report.Recording{Title: tm.Title}
	if len(records) == 0 {
		return rec, nil
	}
	for _, name := range records[0] {
		rec.Columns = append(rec.Columns, report.Column{Name: name})
	}
	rec.Rows = make([][]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]float64, 0, len(record))
		for _, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", tm.File, err)
			}
			row = append(row, v)
		}
		rec.Rows = append(rec.Rows, row)
	}
	return rec, nil
}
