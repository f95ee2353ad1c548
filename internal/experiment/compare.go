package experiment

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/astropc/internal/dynamo"
	"github.com/san-kum/astropc/internal/report"
)

// Comparison is one run of a chapter under a given integrator.
type Comparison struct {
	Integrator string
	Recorder   *report.Recorder
}

// Compare reruns e once per integrator name, concurrently, and records
// every run. Every name is resolved before the first run starts.
// Chapters that keep no state between runs are safe here.
func (r *Registry) Compare(ctx context.Context, e *Experiment, names []string) ([]Comparison, error) {
	integs := make([]dynamo.Integrator, len(names))
	for i, name := range names {
		integ, err := r.Integrator(name)
		if err != nil {
			return nil, err
		}
		integs[i] = integ
	}

	out := make([]Comparison, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		in := e.Input
		in.Values = append([]float64(nil), e.Input.Values...)
		in.Integrator = integs[i]
		run := &Experiment{Chapter: e.Chapter, Config: e.Config, Input: in, Logger: e.Logger}

		out[i] = Comparison{Integrator: name, Recorder: &report.Recorder{}}
		rec := out[i].Recorder
		g.Go(func() error {
			if err := run.Run(gctx, rec.Emitter()); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Final returns the last row of the last table, or nil.
func (c Comparison) Final() (*report.Recording, []float64) {
	if len(c.Recorder.Tables) == 0 {
		return nil, nil
	}
	t := c.Recorder.Tables[len(c.Recorder.Tables)-1]
	if len(t.Rows) == 0 {
		return t, nil
	}
	return t, t.Rows[len(t.Rows)-1]
}
