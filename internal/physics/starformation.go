package physics

import (
	"context"
	"math"

	"github.com/san-kum/astropc/internal/dynamo"
	"github.com/san-kum/astropc/internal/integrators"
	"github.com/san-kum/astropc/internal/report"
)

// StarFormation models the exchange between atomic gas, molecular clouds
// and stars in a galactic disk.
type StarFormation struct{}

func (StarFormation) Name() string  { return "starformation" }
func (StarFormation) Title() string { return "Galactic star formation" }

func (StarFormation) Params() []Param {
	return []Param{
		{Key: "m", Label: "Initial fraction of molecular clouds"},
		{Key: "a", Label: "Initial fraction of atomic gas"},
		{Key: "n", Label: "Parameter n"},
		{Key: "k1", Label: "Parameter k1"},
		{Key: "k2", Label: "Parameter k2"},
	}
}

// GasCycle has state (a, m). The stellar fraction is s = 1 - a - m.
type GasCycle struct {
	N, K1, K2 float64
}

func (g *GasCycle) StateDim() int { return 2 }

func (g *GasCycle) Derive(x dynamo.State, _ float64) (dynamo.State, error) {
	a, m := x[0], x[1]
	fa := 1 - a - m - g.K1*m*m*a
	fm := 0.0
	if m > 0 {
		fm = g.K1*m*m*a + g.K2*(a-1+m)*math.Pow(m, g.N)
	}
	return dynamo.State{fa, fm}, nil
}

// starFormationBlock is the number of steps between pauses.
const starFormationBlock = 19

func (c StarFormation) Run(ctx context.Context, in Input, out report.Emitter) error {
	if err := checkArity(c, in); err != nil {
		return err
	}
	v := in.Values
	m, a := v[0], v[1]
	sys := &GasCycle{N: v[2], K1: v[3], K2: v[4]}

	if !out.Table(report.Table{
		Title: "Gas and star fractions",
		Columns: []report.Column{
			report.Index("i", 4),
			report.Col("x", 7, 2),
			report.Col("a", 10, 4),
			report.Col("m", 10, 4),
			report.Col("s", 10, 4),
		},
	}) {
		return nil
	}
	if !out.Row(0, 0, a, m, 1-a-m) {
		return nil
	}

	sim := dynamo.New(sys, in.integrator(integrators.NewMidpoint()), nil)
	outcome, err := sim.RunWithCallback(ctx, dynamo.State{a, m}, in.config(0.02, 0), func(sm dynamo.Sample) bool {
		x := sm.X
		if !out.Row(float64(sm.Step), sm.T, x[0], x[1], 1-x[0]-x[1]) {
			return false
		}
		if sm.Step%starFormationBlock == 0 {
			return out.Pause()
		}
		return true
	})
	if err != nil {
		return err
	}
	domainNote(out, outcome)
	return nil
}
