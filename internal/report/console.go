package report

import (
	"fmt"
	"io"
)

// Console prints events as plain or styled text and pauses at the
// points the current table asks for. A nil prompter never pauses.
type Console struct {
	out      io.Writer
	prompter Prompter
	styles   Styles
	table    *Table
	rows     int
}

func NewConsole(out io.Writer, prompter Prompter) *Console {
	return &Console{
		out:      out,
		prompter: prompter,
		styles:   NewStyles(out),
	}
}

// WithStyles replaces the styles derived from the output writer.
func (c *Console) WithStyles(s Styles) *Console {
	c.styles = s
	return c
}

// Emit satisfies Emitter.
func (c *Console) Emit(ev Event) bool {
	switch ev.Kind {
	case KindTable:
		c.table = ev.Table
		c.rows = 0
		fmt.Fprintln(c.out)
		if ev.Table.Title != "" {
			fmt.Fprintln(c.out, c.styles.Title.Render(ev.Table.Title))
		}
		fmt.Fprintln(c.out, c.styles.Header.Render(ev.Table.HeaderLine()))
		return true
	case KindRow:
		if c.table == nil {
			c.table = &Table{}
		}
		fmt.Fprintln(c.out, c.styles.Row.Render(c.table.FormatRow(ev.Values)))
		c.rows++
		if n := c.table.PauseEvery; n > 0 && c.rows%n == 0 {
			return c.pause(nil)
		}
		return true
	case KindNote:
		fmt.Fprintln(c.out, c.styles.Note.Render(ev.Text))
		return true
	case KindBreak:
		if ev.Text != "" {
			fmt.Fprintln(c.out, c.styles.Break.Render(ev.Text))
		}
		return c.pause(ev.Reply)
	}
	return true
}

// Emitter returns c.Emit as an Emitter.
func (c *Console) Emitter() Emitter { return c.Emit }

func (c *Console) pause(reply *string) bool {
	if c.prompter == nil {
		return true
	}
	style := PromptStop
	if c.table != nil {
		style = c.table.Prompt
	}
	for {
		answer, err := c.prompter.Ask(c.styles.Hint.Render(style.Question()))
		if err != nil {
			return false
		}
		if cont, ok := style.Decide(answer); ok {
			if reply != nil {
				*reply = answer
			}
			return cont
		}
	}
}
