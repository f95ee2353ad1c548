// Package report turns the event stream produced by a chapter into console
// tables, recordings or pages.
//
// A chapter never formats or pauses by itself. It emits events through an
// [Emitter]: a [Table] opens a new table, rows carry numbers only, notes
// carry free text and a break marks a place where the book waits for the
// reader. The consumer decides how to render, when to pause and whether
// to go on; an Emitter returning false asks the chapter to stop.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Kind int

const (
	KindTable Kind = iota
	KindRow
	KindNote
	KindBreak
)

func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindRow:
		return "row"
	case KindNote:
		return "note"
	case KindBreak:
		return "break"
	default:
		return "unknown"
	}
}

// PromptStyle selects how an answer at a pause point is read.
type PromptStyle int

const (
	// PromptStop continues on anything but s/S.
	PromptStop PromptStyle = iota
	// PromptEnter continues on an empty answer only.
	PromptEnter
	// PromptYesNo asks again until y/n is given; n stops.
	PromptYesNo
	// PromptSwitch is PromptStop plus a "c [step]" answer that the
	// producer reads back through [Emitter.Ask].
	PromptSwitch
)

// Question returns the text shown at a pause.
func (p PromptStyle) Question() string {
	switch p {
	case PromptEnter:
		return "Press Enter to continue, any other value to stop"
	case PromptYesNo:
		return "Continue y/n?"
	case PromptSwitch:
		return "Enter C [step] to change direction, S to stop or any other key to continue"
	default:
		return "Enter S to stop or any other key to continue"
	}
}

// Decide maps an answer to continue/stop. ok is false when the answer
// must be asked again.
func (p PromptStyle) Decide(answer string) (cont, ok bool) {
	a := strings.TrimSpace(answer)
	switch p {
	case PromptEnter:
		return a == "", true
	case PromptYesNo:
		switch strings.ToLower(a) {
		case "y":
			return true, true
		case "n":
			return false, true
		}
		return false, false
	case PromptSwitch:
		if _, _, err := Switch(a); err != nil {
			return false, false
		}
		return !strings.EqualFold(a, "s"), true
	default:
		return !strings.EqualFold(a, "s"), true
	}
}

// Switch parses a PromptSwitch answer. ok reports a "c" answer; step is
// the optional new step, zero when none was given.
func Switch(answer string) (ok bool, step float64, err error) {
	f := strings.Fields(answer)
	if len(f) == 0 || !strings.EqualFold(f[0], "c") {
		return false, 0, nil
	}
	if len(f) == 1 {
		return true, 0, nil
	}
	if len(f) > 2 {
		return false, 0, fmt.Errorf("want c [step], got %q", answer)
	}
	step, err = strconv.ParseFloat(f[1], 64)
	if err != nil {
		return false, 0, fmt.Errorf("step %q: %w", f[1], err)
	}
	if step == 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return false, 0, fmt.Errorf("step must be finite and non-zero, got %q", f[1])
	}
	return true, step, nil
}

type Column struct {
	Name  string
	Width int
	Prec  int
	Sci   bool
	Int   bool
}

// Col is a fixed-point column.
func Col(name string, width, prec int) Column {
	return Column{Name: name, Width: width, Prec: prec}
}

// Sci is an exponent-notation column.
func Sci(name string, width, prec int) Column {
	return Column{Name: name, Width: width, Prec: prec, Sci: true}
}

// Index is an integer counter column.
func Index(name string, width int) Column {
	return Column{Name: name, Width: width, Int: true}
}

// Format renders v right-aligned in the column width. Non-finite values
// render as n/a.
func (c Column) Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprintf("%*s", c.Width, "n/a")
	}
	switch {
	case c.Int:
		return fmt.Sprintf("%*d", c.Width, int64(math.Round(v)))
	case c.Sci:
		return fmt.Sprintf("%*.*e", c.Width, c.Prec, v)
	default:
		return fmt.Sprintf("%*.*f", c.Width, c.Prec, v)
	}
}

// Header renders the column name right-aligned in the column width.
func (c Column) Header() string {
	return fmt.Sprintf("%*s", c.Width, c.Name)
}

type Table struct {
	Title      string
	Columns    []Column
	PauseEvery int
	Prompt     PromptStyle
}

// FormatRow joins the formatted values with single spaces.
func (t *Table) FormatRow(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		col := Column{Width: 11, Prec: 5}
		if i < len(t.Columns) {
			col = t.Columns[i]
		}
		parts[i] = col.Format(v)
	}
	return strings.Join(parts, " ")
}

// HeaderLine joins the column headers with single spaces.
func (t *Table) HeaderLine() string {
	parts := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		parts[i] = c.Header()
	}
	return strings.Join(parts, " ")
}

type Event struct {
	Kind   Kind
	Table  *Table
	Values []float64
	Text   string
	// Reply, when set on a break, receives the accepted answer.
	Reply *string
}

// Emitter consumes one event. Returning false asks the producer to stop.
type Emitter func(Event) bool

func (e Emitter) Table(t Table) bool {
	return e(Event{Kind: KindTable, Table: &t})
}

func (e Emitter) Row(values ...float64) bool {
	return e(Event{Kind: KindRow, Values: values})
}

func (e Emitter) Note(format string, args ...any) bool {
	return e(Event{Kind: KindNote, Text: fmt.Sprintf(format, args...)})
}

func (e Emitter) Break(text string) bool {
	return e(Event{Kind: KindBreak, Text: text})
}

// Pause is an untitled break: a pause point chosen by the producer
// rather than by the table's PauseEvery.
func (e Emitter) Pause() bool {
	return e.Break("")
}

// Ask is a pause whose accepted answer is stored in reply. reply is left
// untouched when the consumer does not pause.
func (e Emitter) Ask(reply *string) bool {
	return e(Event{Kind: KindBreak, Reply: reply})
}

// Discard accepts every event.
func Discard(Event) bool { return true }

// Tee forwards every event to all emitters and reports whether all of
// them want to continue.
func Tee(emitters ...Emitter) Emitter {
	return func(ev Event) bool {
		cont := true
		for _, e := range emitters {
			if !e(ev) {
				cont = false
			}
		}
		return cont
	}
}
