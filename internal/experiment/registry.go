package experiment

import (
	"errors"
	"fmt"

	"github.com/san-kum/astropc/internal/dynamo"
	"github.com/san-kum/astropc/internal/integrators"
	"github.com/san-kum/astropc/internal/physics"
)

var ErrUnknownChapter = errors.New("unknown chapter")

type Registry struct {
	chapters map[string]physics.Chapter
	order    []string
}

func NewRegistry() *Registry {
	r := &Registry{chapters: make(map[string]physics.Chapter)}
	for _, ch := range physics.All() {
		r.Register(ch)
	}
	return r
}

// Register adds ch, replacing a chapter of the same name.
func (r *Registry) Register(ch physics.Chapter) {
	if _, ok := r.chapters[ch.Name()]; !ok {
		r.order = append(r.order, ch.Name())
	}
	r.chapters[ch.Name()] = ch
}

func (r *Registry) Get(name string) (physics.Chapter, error) {
	ch, ok := r.chapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChapter, name)
	}
	return ch, nil
}

// List returns the chapters in book order.
func (r *Registry) List() []physics.Chapter {
	out := make([]physics.Chapter, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.chapters[name])
	}
	return out
}

// Integrator returns a fresh scheme, or nil for the empty name so that the
// chapter keeps its own.
func (r *Registry) Integrator(name string) (dynamo.Integrator, error) {
	if name == "" {
		return nil, nil
	}
	return integrators.ByName(name)
}
