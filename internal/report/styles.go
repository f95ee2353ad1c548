package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles used by the console reporter. They are bound to a renderer so
// that writing to a file or a pipe yields plain text.
type Styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Row    lipgloss.Style
	Note   lipgloss.Style
	Break  lipgloss.Style
	Hint   lipgloss.Style
}

func NewStyles(out io.Writer) Styles {
	r := lipgloss.NewRenderer(out)
	return Styles{
		Title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff")),
		Header: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466")),
		Row: r.NewStyle().
			Foreground(lipgloss.Color("255")),
		Note: r.NewStyle().
			Foreground(lipgloss.Color("86")),
		Break: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00")),
		Hint: r.NewStyle().
			Foreground(lipgloss.Color("#666688")).
			Italic(true),
	}
}
