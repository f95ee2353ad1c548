package tui

import (
	"bytes"
	"context"
	"iter"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/astropc/internal/report"
)

var (
	cyan = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// RunFunc produces the events of one chapter run.
type RunFunc func(ctx context.Context, out report.Emitter) error

// page is the output between two pause points. Question is empty on the
// final page.
type page struct {
	lines    []string
	question string
	final    bool
}

type session struct {
	next   func() (page, bool)
	stop   func()
	answer string
	err    error
}

// pagePrompter hands every pause of the console back to the pager as a
// page and returns the key the user pressed.
type pagePrompter struct {
	buf     *bytes.Buffer
	sess    *session
	yield   func(page) bool
	stopped bool
}

func (p *pagePrompter) Ask(question string) (string, error) {
	if p.stopped {
		return "", report.ErrNoInput
	}
	if !p.yield(page{lines: p.flush(), question: question}) {
		p.stopped = true
		return "", report.ErrNoInput
	}
	return p.sess.answer, nil
}

func (p *pagePrompter) flush() []string {
	text := strings.TrimRight(p.buf.String(), "\n")
	p.buf.Reset()
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func pages(ctx context.Context, run RunFunc, styles report.Styles, sess *session) iter.Seq[page] {
	return func(yield func(page) bool) {
		var buf bytes.Buffer
		p := &pagePrompter{buf: &buf, sess: sess, yield: yield}
		console := report.NewConsole(&buf, p).WithStyles(styles)
		sess.err = run(ctx, console.Emitter())
		if !p.stopped {
			yield(page{lines: p.flush(), final: true})
		}
	}
}

const chromeHeight = 3

// Pager is a bubbletea model that pulls one page of a run per keypress.
// Arrow and page keys scroll back through earlier output.
type Pager struct {
	title    string
	sess     *session
	lines    []string
	question string
	done     bool
	viewport viewport.Model
}

func NewPager(ctx context.Context, title string, run RunFunc, styles report.Styles) *Pager {
	sess := &session{}
	sess.next, sess.stop = iter.Pull(pages(ctx, run, styles, sess))
	return &Pager{title: title, sess: sess, viewport: viewport.New(100, 24-chromeHeight)}
}

type advanceMsg struct{}

func (p *Pager) Init() tea.Cmd {
	return func() tea.Msg { return advanceMsg{} }
}

func (p *Pager) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case advanceMsg:
		p.advance()
	case tea.WindowSizeMsg:
		p.viewport.Width = msg.Width
		p.viewport.Height = max(msg.Height-chromeHeight, 1)
		p.refresh()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			p.Close()
			return p, tea.Quit
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			p.viewport, cmd = p.viewport.Update(msg)
			return p, cmd
		}
		if p.done {
			if msg.String() == "q" || msg.String() == "enter" {
				return p, tea.Quit
			}
			return p, nil
		}
		p.sess.answer = answer(msg)
		p.advance()
	}
	return p, nil
}

func answer(msg tea.KeyMsg) string {
	if msg.Type == tea.KeyRunes {
		return string(msg.Runes)
	}
	if msg.Type == tea.KeySpace {
		return " "
	}
	return ""
}

func (p *Pager) advance() {
	pg, ok := p.sess.next()
	if !ok {
		p.Close()
		return
	}
	p.lines = append(p.lines, pg.lines...)
	p.question = pg.question
	p.refresh()
	if pg.final {
		p.Close()
	}
}

func (p *Pager) refresh() {
	p.viewport.SetContent(strings.Join(p.lines, "\n"))
	p.viewport.GotoBottom()
}

// Close stops the run if it is still going.
func (p *Pager) Close() {
	p.done = true
	p.question = ""
	p.sess.stop()
}

// Err returns the error of the run once it has finished.
func (p *Pager) Err() error { return p.sess.err }

// Lines returns everything printed so far.
func (p *Pager) Lines() []string { return p.lines }

func (p *Pager) View() string {
	var b strings.Builder
	b.WriteString(cyan.Render(p.title))
	b.WriteString("\n")

	b.WriteString(p.viewport.View())
	b.WriteString("\n\n")
	if p.done {
		b.WriteString(dim.Render("end of run, q to quit"))
	} else {
		b.WriteString(dim.Render(p.question + "  (esc quits)"))
	}
	return b.String()
}

// Run shows a chapter run in the pager and returns the run's error.
func Run(ctx context.Context, title string, run RunFunc, opts ...tea.ProgramOption) error {
	p := NewPager(ctx, title, run, report.NewStyles(os.Stdout))
	defer p.Close()
	if _, err := tea.NewProgram(p, opts...).Run(); err != nil {
		return err
	}
	return p.Err()
}
