package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrNoInput is returned by a Prompter when no more answers can be read.
var ErrNoInput = errors.New("no input available")

// Prompter reads one answer for a question. It is used both for pause
// points and for chapter parameters.
type Prompter interface {
	Ask(question string) (string, error)
}

// LinePrompter reads answers line by line.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) Ask(question string) (string, error) {
	fmt.Fprintf(p.out, "%s ", question)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// FormPrompter asks through an interactive huh input field.
type FormPrompter struct{}

func (FormPrompter) Ask(question string) (string, error) {
	var answer string
	err := huh.NewInput().
		Title(question).
		Value(&answer).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return "", ErrNoInput
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// Scripted replays fixed answers and then reports ErrNoInput.
type Scripted struct {
	Answers []string
	Asked   []string
}

func (s *Scripted) Ask(question string) (string, error) {
	s.Asked = append(s.Asked, question)
	if len(s.Answers) == 0 {
		return "", ErrNoInput
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	return a, nil
}
