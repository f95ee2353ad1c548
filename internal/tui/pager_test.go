package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/astropc/internal/report"
)

type fakeRun struct {
	rows    int
	stopped bool
	err     error
}

func (f *fakeRun) run(_ context.Context, out report.Emitter) error {
	out.Table(report.Table{
		Title:      "layers",
		Columns:    []report.Column{report.Index("i", 3), report.Col("x", 8, 3)},
		PauseEvery: 2,
	})
	for i := 0; i < f.rows; i++ {
		if !out.Row(float64(i), float64(i)/10) {
			f.stopped = true
			return nil
		}
	}
	out.Note("done after %d rows", f.rows)
	return f.err
}

func start(t *testing.T, f *fakeRun) *Pager {
	t.Helper()
	p := NewPager(context.Background(), "test", f.run, report.NewStyles(&strings.Builder{}))
	p.Update(p.Init()())
	return p
}

func press(p *Pager, key string) tea.Cmd {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	if key == "enter" {
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	}
	_, cmd := p.Update(msg)
	return cmd
}

func TestPagerPagesThroughRun(t *testing.T) {
	f := &fakeRun{rows: 5}
	p := start(t, f)

	if p.done {
		t.Fatal("pager finished before the first pause")
	}
	first := len(p.Lines())
	if !strings.Contains(strings.Join(p.Lines(), "\n"), "layers") {
		t.Errorf("title missing from first page: %q", p.Lines())
	}
	if !strings.Contains(p.View(), report.PromptStop.Question()) {
		t.Error("view does not show the pause question")
	}

	press(p, "enter")
	if len(p.Lines()) != first+2 {
		t.Errorf("expected two more rows, got %d lines after %d", len(p.Lines()), first)
	}

	press(p, "c")
	if !p.done {
		t.Fatal("expected the run to be finished")
	}
	if !strings.Contains(p.Lines()[len(p.Lines())-1], "done after 5 rows") {
		t.Errorf("final note missing: %q", p.Lines())
	}
	if f.stopped {
		t.Error("run should not have been stopped")
	}
	if cmd := press(p, "q"); cmd == nil {
		t.Error("expected quit command once finished")
	}
}

func TestPagerStopKey(t *testing.T) {
	f := &fakeRun{rows: 10}
	p := start(t, f)

	press(p, "s")
	if !f.stopped {
		t.Error("s should stop the run")
	}
	if !p.done {
		t.Error("pager should be finished after the run stops")
	}
}

func TestPagerEscapeStopsRun(t *testing.T) {
	f := &fakeRun{rows: 10}
	p := start(t, f)

	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Error("expected quit command")
	}
	if !f.stopped {
		t.Error("escape should stop the run")
	}
}

func TestPagerReportsRunError(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeRun{rows: 1, err: boom}
	p := start(t, f)

	if !p.done {
		t.Fatal("a single row never pauses")
	}
	if !errors.Is(p.Err(), boom) {
		t.Errorf("expected run error, got %v", p.Err())
	}
}
