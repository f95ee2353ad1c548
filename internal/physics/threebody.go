package physics

import (
	"context"
	"math"

	"github.com/san-kum/astropc/internal/dynamo"
	"github.com/san-kum/astropc/internal/integrators"
	"github.com/san-kum/astropc/internal/report"
)

// ThreeBody integrates the planar circular restricted three-body problem
// in the rotating frame of the primaries.
type ThreeBody struct{}

func (ThreeBody) Name() string  { return "threebody" }
func (ThreeBody) Title() string { return "The restricted three-body problem" }

func (ThreeBody) Params() []Param {
	return []Param{
		{Key: "mu", Label: "Mass parameter mu"},
		{Key: "x", Label: "Initial x"},
		{Key: "y", Label: "Initial y"},
		{Key: "u", Label: "Initial u"},
		{Key: "v", Label: "Initial v"},
		{Key: "dt", Label: "Time step"},
	}
}

// RestrictedThreeBody has state (x, y, u, v). The primaries of mass 1-mu
// and mu sit at x = mu and x = mu-1.
type RestrictedThreeBody struct {
	Mu float64
}

func (s *RestrictedThreeBody) StateDim() int { return 4 }

func (s *RestrictedThreeBody) distances(x, y float64) (r1, r2 float64) {
	return math.Hypot(x-s.Mu, y), math.Hypot(x+1-s.Mu, y)
}

func (s *RestrictedThreeBody) Derive(st dynamo.State, _ float64) (dynamo.State, error) {
	x, y, u, v := st[0], st[1], st[2], st[3]
	r1, r2 := s.distances(x, y)
	if r1 == 0 || r2 == 0 {
		return nil, dynamo.Violation("distance to primary", 0)
	}
	mu := s.Mu
	r13, r23 := r1*r1*r1, r2*r2*r2
	fu := -(1-mu)*(x-mu)/r13 - mu*(x+1-mu)/r23 + x + 2*v
	fv := -(1-mu)*y/r13 - mu*y/r23 + y - 2*u
	return dynamo.State{u, v, fu, fv}, nil
}

// Jacobi returns the Jacobi constant 2V - (u^2 + v^2) of a state.
func (s *RestrictedThreeBody) Jacobi(st dynamo.State) float64 {
	return 2*Potential(s.Mu, st[0], st[1]) - st[2]*st[2] - st[3]*st[3]
}

func (c ThreeBody) Run(ctx context.Context, in Input, out report.Emitter) error {
	if err := checkArity(c, in); err != nil {
		return err
	}
	v := in.Values
	if v[5] == 0 {
		return badValue("time step must not be zero")
	}
	sys := &RestrictedThreeBody{Mu: v[0]}
	x0 := dynamo.State{v[1], v[2], v[3], v[4]}
	out.Note("Jacobi constant C = %.9f", sys.Jacobi(x0))

	if !out.Table(report.Table{
		Title: "Orbit in the rotating frame",
		Columns: []report.Column{
			report.Index("i", 5),
			report.Col("t", 10, 4),
			report.Col("x", 12, 9),
			report.Col("y", 12, 9),
			report.Col("u", 13, 10),
			report.Col("v", 13, 10),
		},
		PauseEvery: 20,
		Prompt:     report.PromptEnter,
	}) {
		return nil
	}

	sim := dynamo.New(sys, in.integrator(integrators.NewMidpoint()), nil)
	outcome, err := sim.RunWithCallback(ctx, x0, in.config(v[5], 0), func(sm dynamo.Sample) bool {
		x := sm.X
		return out.Row(float64(sm.Step), sm.T, x[0], x[1], x[2], x[3])
	})
	if err != nil {
		return err
	}
	domainNote(out, outcome)
	return nil
}
