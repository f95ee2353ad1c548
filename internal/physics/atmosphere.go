package physics

import (
	"context"
	"math"

	"github.com/san-kum/astropc/internal/dynamo"
	"github.com/san-kum/astropc/internal/integrators"
	"github.com/san-kum/astropc/internal/report"
)

const (
	atmosphereLayers  = 32
	atmospherePauseAt = 15
)

// Atmosphere integrates hydrostatic equilibrium through a grey stellar
// atmosphere in optical depth.
type Atmosphere struct{}

func (Atmosphere) Name() string  { return "atmosphere" }
func (Atmosphere) Title() string { return "A grey stellar atmosphere" }

func (Atmosphere) Params() []Param {
	return []Param{
		{Key: "teff", Label: "Effective temperature (K)"},
		{Key: "logg", Label: "Surface gravity (log10 cgs)"},
		{Key: "mu", Label: "Mean molecular weight"},
	}
}

// AtmosphereSystem has the gas pressure as its only state component and
// optical depth as the independent variable.
type AtmosphereSystem struct {
	Teff    float64
	Gravity float64
	Mu      float64
}

// Layer is the physical state at one optical depth.
type Layer struct {
	Tau     float64
	T       float64
	Pg      float64
	Pr      float64
	Density float64
	Kappa   float64
	Geff    float64
}

// Temperature follows the Eddington grey relation with a Hopf-like q(tau).
func (a *AtmosphereSystem) Temperature(tau float64) float64 {
	q := 0.7104 - 0.1331*math.Exp(-3.4488*tau)
	return a.Teff * math.Pow(0.75*(tau+q), 0.25)
}

// Absorption is the Kramers opacity.
func Absorption(t, d float64) float64 {
	return 1.984e24 * d / math.Pow(t, 3.5)
}

func (a *AtmosphereSystem) Layer(tau, pg float64) Layer {
	t := a.Temperature(tau)
	d := pg * a.Mu / t / GasConstant
	k := Absorption(t, d)
	return Layer{
		Tau:     tau,
		T:       t,
		Pg:      pg,
		Pr:      Radiation / 3 * math.Pow(t, 4),
		Density: d,
		Kappa:   k,
		Geff:    a.Gravity - k*Radiation*math.Pow(a.Teff, 4)/4*(1+0.459*math.Exp(-3.4488*tau)),
	}
}

func (a *AtmosphereSystem) StateDim() int { return 1 }

func (a *AtmosphereSystem) Derive(s dynamo.State, tau float64) (dynamo.State, error) {
	if s[0] <= 0 {
		return nil, dynamo.Violation("gas pressure", s[0])
	}
	l := a.Layer(tau, s[0])
	return dynamo.State{l.Geff / l.Kappa}, nil
}

func (a *AtmosphereSystem) Admissible(s dynamo.State, _ float64) error {
	if s[0] <= 0 {
		return dynamo.Violation("gas pressure", s[0])
	}
	return nil
}

// Thickness is the geometric depth h/(kappa rho) of a step, with kappa and
// rho taken at the half step.
func (a *AtmosphereSystem) Thickness(tau, pg, h float64) float64 {
	d, err := a.Derive(dynamo.State{pg}, tau)
	if err != nil {
		return math.NaN()
	}
	half := a.Layer(tau+0.5*h, pg+0.5*h*d[0])
	return h / half.Kappa / half.Density
}

func (c Atmosphere) Run(ctx context.Context, in Input, out report.Emitter) error {
	if err := checkArity(c, in); err != nil {
		return err
	}
	teff, logg, mu := in.Values[0], in.Values[1], in.Values[2]
	if teff <= 0 || mu <= 0 {
		return badValue("effective temperature and mu must be positive")
	}
	sys := &AtmosphereSystem{Teff: teff, Gravity: math.Pow(10, logg), Mu: mu}

	if !out.Table(report.Table{
		Title: "Atmosphere layers",
		Columns: []report.Column{
			report.Index("i", 3),
			report.Col("tau", 9, 5),
			report.Col("T", 9, 1),
			report.Col("Pg", 10, 2),
			report.Col("Pr", 10, 2),
			report.Col("d*1e11", 10, 3),
			report.Col("k", 10, 5),
			report.Col("ge", 10, 2),
			report.Col("z(km)", 10, 1),
		},
		Prompt: report.PromptStop,
	}) {
		return nil
	}

	row := func(i int, l Layer, z float64) bool {
		return out.Row(float64(i), l.Tau, l.T, l.Pg, l.Pr, l.Density*1e11, l.Kappa, l.Geff, z/1e5)
	}

	pg0 := GasConstant * 1e-13 * sys.Temperature(0) / mu
	if !row(0, sys.Layer(0, pg0), 0) {
		return nil
	}

	prev := dynamo.Sample{X: dynamo.State{pg0}}
	z := 0.0
	cfg := in.config(0.001, 0)
	cfg.MaxSteps = atmosphereLayers
	sim := dynamo.New(sys, in.integrator(integrators.NewMidpoint()), dynamo.Proportional{Fraction: 0.25})
	outcome, err := sim.RunWithCallback(ctx, prev.X, cfg, func(sm dynamo.Sample) bool {
		z += sys.Thickness(prev.T, prev.X[0], sm.H)
		prev = sm
		if !row(sm.Step, sys.Layer(sm.T, sm.X[0]), z) {
			return false
		}
		if sm.Step == atmospherePauseAt {
			return out.Pause()
		}
		return true
	})
	if err != nil {
		return err
	}
	if outcome.Reason == dynamo.StopLimit {
		out.Note("Model complete.")
		return nil
	}
	domainNote(out, outcome)
	return nil
}
