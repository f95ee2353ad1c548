package physics

import (
	"context"

	"github.com/san-kum/astropc/internal/dynamo"
	"github.com/san-kum/astropc/internal/integrators"
	"github.com/san-kum/astropc/internal/report"
)

// Universe integrates the Friedmann equation for the scale factor into
// the past and into the future.
type Universe struct{}

func (Universe) Name() string  { return "universe" }
func (Universe) Title() string { return "Models of the universe" }

func (Universe) Params() []Param {
	return []Param{
		{Key: "sigma", Label: "Density parameter sigma(0)"},
		{Key: "q", Label: "Deceleration parameter q(0)"},
	}
}

// FriedmannSystem has state (y, z): the scale factor and its derivative,
// both normalised to 1 today. The independent variable is the time in
// units of the Hubble time.
type FriedmannSystem struct {
	Sigma, Q float64
}

func NewUniverseSystem(sigma, q float64) *FriedmannSystem {
	return &FriedmannSystem{Sigma: sigma, Q: q}
}

func (f *FriedmannSystem) StateDim() int { return 2 }

func (f *FriedmannSystem) Derive(x dynamo.State, _ float64) (dynamo.State, error) {
	y, z := x[0], x[1]
	if y <= 0 {
		return nil, dynamo.Violation("scale factor", y)
	}
	return dynamo.State{z, -f.Sigma/(y*y) + (f.Sigma-f.Q)*y}, nil
}

func (f *FriedmannSystem) Admissible(x dynamo.State, _ float64) error {
	if x[0] <= 0 {
		return dynamo.Violation("scale factor", x[0])
	}
	return nil
}

// UniverseSteps shrinks the step to 0.01 once the expansion rate exceeds 2.
var UniverseSteps = dynamo.Throttle{Index: 1, Limit: 2, Step: 0.01}

func (c Universe) Run(ctx context.Context, in Input, out report.Emitter) error {
	if err := checkArity(c, in); err != nil {
		return err
	}
	sys := NewUniverseSystem(in.Values[0], in.Values[1])
	integ := in.integrator(integrators.NewMidpoint())

	eras := []struct {
		title string
		dx    float64
		end   string
	}{
		{"Computations for the past", -0.02, "Model starts from Big Bang"},
		{"Computations for the future", 0.02, "Model ends in Collapse"},
	}
	for _, era := range eras {
		if !out.Table(report.Table{
			Title: era.title,
			Columns: []report.Column{
				report.Col("x", 9, 2),
				report.Col("y", 11, 7),
				report.Col("z", 11, 7),
			},
			PauseEvery: 15,
			Prompt:     report.PromptYesNo,
		}) {
			return nil
		}
		if !out.Row(0, 1, 1) {
			continue
		}

		x0 := dynamo.State{1, 1}
		// The throttle also applies to the first step.
		dx := UniverseSteps.Next(x0, 0, era.dx)
		sim := dynamo.New(sys, integ, UniverseSteps)
		outcome, err := sim.RunWithCallback(ctx, x0, in.config(dx, 0), func(sm dynamo.Sample) bool {
			return out.Row(sm.T, sm.X[0], sm.X[1])
		})
		if err != nil {
			return err
		}
		switch outcome.Reason {
		case dynamo.StopDomain:
			if !out.Break(era.end) {
				return nil
			}
		case dynamo.StopLimit:
			domainNote(out, outcome)
		}
	}
	return nil
}
