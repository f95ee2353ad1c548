package report

import "strings"

// Recording is one table collected by a Recorder.
type Recording struct {
	Title   string
	Columns []Column
	Rows    [][]float64
	Notes   []string
}

// Names returns the column names.
func (r *Recording) Names() []string {
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the values of the named column, or nil.
func (r *Recording) Column(name string) []float64 {
	idx := -1
	for i, c := range r.Columns {
		if strings.EqualFold(c.Name, name) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, 0, len(r.Rows))
	for _, row := range r.Rows {
		if idx < len(row) {
			out = append(out, row[idx])
		}
	}
	return out
}

// Recorder keeps every table, row and note. It never asks to stop.
type Recorder struct {
	Tables []*Recording
	Notes  []string
	Breaks []string
}

func (r *Recorder) Emit(ev Event) bool {
	switch ev.Kind {
	case KindTable:
		r.Tables = append(r.Tables, &Recording{
			Title:   ev.Table.Title,
			Columns: append([]Column(nil), ev.Table.Columns...),
		})
	case KindRow:
		cur := r.current()
		cur.Rows = append(cur.Rows, append([]float64(nil), ev.Values...))
	case KindNote:
		r.Notes = append(r.Notes, ev.Text)
		if len(r.Tables) > 0 {
			cur := r.Tables[len(r.Tables)-1]
			cur.Notes = append(cur.Notes, ev.Text)
		}
	case KindBreak:
		r.Breaks = append(r.Breaks, ev.Text)
	}
	return true
}

func (r *Recorder) Emitter() Emitter { return r.Emit }

// Rows counts the rows of all tables.
func (r *Recorder) Rows() int {
	n := 0
	for _, t := range r.Tables {
		n += len(t.Rows)
	}
	return n
}

func (r *Recorder) current() *Recording {
	if len(r.Tables) == 0 {
		r.Tables = append(r.Tables, &Recording{})
	}
	return r.Tables[len(r.Tables)-1]
}
