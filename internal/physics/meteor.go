package physics

import (
	"context"
	"errors"
	"math"

	"github.com/san-kum/astropc/internal/dynamo"
	"github.com/san-kum/astropc/internal/integrators"
	"github.com/san-kum/astropc/internal/report"
)

// Meteor follows a meteoroid through an exponential atmosphere while
// drag slows it and ablation eats its mass.
type Meteor struct{}

func (Meteor) Name() string  { return "meteor" }
func (Meteor) Title() string { return "Flight of a meteoroid through the atmosphere" }

func (Meteor) Params() []Param {
	return []Param{
		{Key: "height", Label: "Initial height (km)"},
		{Key: "horizontal", Label: "Horizontal velocity (km/s)"},
		{Key: "vertical", Label: "Vertical velocity (km/s)"},
		{Key: "mass", Label: "Initial mass (g)"},
		{Key: "k1", Label: "Drag coefficient K1"},
		{Key: "k2", Label: "Ablation coefficient K2"},
		{Key: "tau", Label: "Luminous efficiency tau"},
	}
}

// AtmosphereDensity is the air density in g/cm^3 at height y in cm.
func AtmosphereDensity(y float64) float64 {
	return math.Exp(-6.65125 - 1.39813e-6*y)
}

// MeteorSystem has state (x, y, u, v, m) in cgs units.
type MeteorSystem struct {
	K1, K2 float64
	// M0 is the initial mass; the flight ends below 1% of it.
	M0 float64
}

func (s *MeteorSystem) StateDim() int { return 5 }

// Forces returns the accelerations and the mass loss rate.
func (s *MeteorSystem) Forces(x dynamo.State) (fu, fv, fm float64) {
	u, v, m := x[2], x[3], x[4]
	rho := AtmosphereDensity(x[1])
	speed := math.Hypot(u, v)
	fu = -s.K1 * rho * speed * u / math.Cbrt(m)
	fv = -s.K1*rho*speed*v/math.Cbrt(m) - 980
	fm = -s.K2 * rho * speed * speed * speed * math.Pow(m, 2.0/3.0)
	return fu, fv, fm
}

func (s *MeteorSystem) Derive(x dynamo.State, _ float64) (dynamo.State, error) {
	if x[4] <= 0 {
		return nil, dynamo.Violation("mass", x[4])
	}
	fu, fv, fm := s.Forces(x)
	return dynamo.State{x[2], x[3], fu, fv, fm}, nil
}

func (s *MeteorSystem) Admissible(x dynamo.State, _ float64) error {
	if x[4] <= 0 {
		return dynamo.Violation("mass", x[4])
	}
	if x[1] <= 0 {
		return dynamo.Violation("height", x[1])
	}
	return nil
}

func (s *MeteorSystem) Terminal(x dynamo.State, _ float64) bool {
	return x[4] < 0.01*s.M0
}

// MeteorSteps is the time step table keyed on the remaining mass, with
// bounds at fixed fractions of the initial mass m0.
func MeteorSteps(m0 float64) dynamo.Thresholds {
	return dynamo.Thresholds{
		Index: 4,
		Ref:   m0,
		Brackets: []dynamo.Bracket{
			{Above: 0.8, Step: 0.1},
			{Above: 0.5, Step: 0.05},
			{Above: 0.35, Step: 0.02},
		},
		Floor: 0.01,
	}
}

// MeteorMagnitude is the visual magnitude from the luminous energy
// -tau/2 * dm/dt * speed^2 of a state, seen from height y. NaN when the
// meteoroid does not shine.
func MeteorMagnitude(s *MeteorSystem, x dynamo.State, tau, y float64) float64 {
	_, _, fm := s.Forces(x)
	speed := math.Hypot(x[2], x[3])
	e := -0.5 * tau * fm * speed * speed
	if e <= 0 || y <= 0 {
		return math.NaN()
	}
	return 5*math.Log10(y) - 2.5*math.Log10(e) - 8.795
}

func (c Meteor) Run(ctx context.Context, in Input, out report.Emitter) error {
	if err := checkArity(c, in); err != nil {
		return err
	}
	v := in.Values
	if v[0] <= 0 || v[3] <= 0 {
		return badValue("height and mass must be positive")
	}
	tau := v[6]
	sys := &MeteorSystem{K1: v[4], K2: v[5], M0: v[3]}
	x0 := dynamo.State{0, v[0] * 1e5, v[1] * 1e5, -math.Abs(v[2] * 1e5), v[3]}

	if !out.Table(report.Table{
		Title: "Meteoroid trajectory",
		Columns: []report.Column{
			report.Index("i", 4),
			report.Col("t", 7, 2),
			report.Col("x", 9, 4),
			report.Col("y", 9, 4),
			report.Col("u", 10, 5),
			report.Col("v", 10, 5),
			report.Col("m", 11, 7),
			report.Col("mag", 6, 2),
		},
		PauseEvery: 10,
	}) {
		return nil
	}

	predictor := integrators.NewHeun()
	steps := MeteorSteps(v[3])
	sim := dynamo.New(sys, in.integrator(integrators.NewHeun()), steps)

	prev := dynamo.Sample{X: x0}
	outcome, err := sim.RunWithCallback(ctx, x0, in.config(steps.For(v[3]), 0), func(sm dynamo.Sample) bool {
		mag := math.NaN()
		if pred, _, _, err := predictor.Predict(sys, prev.X, prev.T, sm.H); err == nil {
			mag = MeteorMagnitude(sys, pred, tau, sm.X[1])
		}
		prev = sm
		x := sm.X
		return out.Row(float64(sm.Step), sm.T, x[0]/1e5, x[1]/1e5, x[2]/1e5, x[3]/1e5, x[4], mag)
	})
	if err != nil {
		return err
	}

	var de *dynamo.DomainError
	switch {
	case outcome.Reason == dynamo.StopDomain && errors.As(outcome.Cause, &de) && de.Quantity == "height":
		out.Note("Meteoroid has reached the ground")
	case outcome.Reason == dynamo.StopTerminal:
		out.Note("Meteoroid has lost 99%% of its mass at height %.4f km", outcome.Last.X[1]/1e5)
	default:
		domainNote(out, outcome)
	}
	return nil
}
