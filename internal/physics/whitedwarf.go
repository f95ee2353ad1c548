package physics

import (
	"context"
	"math"

	"github.com/san-kum/astropc/internal/dynamo"
	"github.com/san-kum/astropc/internal/integrators"
	"github.com/san-kum/astropc/internal/numeric"
	"github.com/san-kum/astropc/internal/report"
)

const (
	// degeneracyPressure is the constant A of the Chandrasekhar equation
	// of state P = A f(x).
	degeneracyPressure = 6.01e22
	// degeneracyDensity converts x^3 to mass density.
	degeneracyDensity = 1.964e6

	// whiteDwarfPauseEvery pauses after layers 10, 20, ...
	whiteDwarfPauseEvery = 10
)

// WhiteDwarf integrates a star supported by a fully degenerate electron
// gas from the centre outward.
type WhiteDwarf struct{}

func (WhiteDwarf) Name() string  { return "whitedwarf" }
func (WhiteDwarf) Title() string { return "White dwarf structure" }

func (WhiteDwarf) Params() []Param {
	return []Param{
		{Key: "logrho", Label: "Log10 of the central density"},
		{Key: "dr", Label: "Step size (km)"},
	}
}

// ElectronGas is f(x) of the degenerate equation of state.
func ElectronGas(x float64) float64 {
	s := math.Sqrt(1 + x*x)
	return x*(2*x*x-3)*s + 3*math.Log(x+s)
}

func ElectronGasDerivative(x float64) float64 {
	x2 := x * x
	return 8 * x2 * x2 / math.Sqrt(1+x2)
}

// WhiteDwarfSystem has state (P, M) with radius as the independent
// variable. Densities are recovered from P by Newton inversion, warm
// started from the last solution.
type WhiteDwarfSystem struct {
	guess  float64
	solver numeric.Newton
}

func NewWhiteDwarfSystem(x0 float64) *WhiteDwarfSystem {
	return &WhiteDwarfSystem{
		guess:  x0,
		solver: numeric.Newton{F: ElectronGas, DF: ElectronGasDerivative},
	}
}

// Density returns rho and x for pressure p.
func (w *WhiteDwarfSystem) Density(p float64) (rho, x float64, err error) {
	x, err = w.solver.Solve(p/degeneracyPressure, w.guess)
	if err != nil {
		return 0, 0, err
	}
	w.guess = x
	return degeneracyDensity * x * x * x, x, nil
}

func (w *WhiteDwarfSystem) StateDim() int { return 2 }

func (w *WhiteDwarfSystem) Derive(s dynamo.State, r float64) (dynamo.State, error) {
	p, m := s[0], s[1]
	if p <= 0 {
		return nil, dynamo.Violation("pressure", p)
	}
	if r <= 0 {
		return nil, dynamo.Violation("radius", r)
	}
	rho, _, err := w.Density(p)
	if err != nil {
		return nil, err
	}
	return dynamo.State{-Gravitation * m * rho / (r * r), 4 * math.Pi * rho * r * r}, nil
}

func (w *WhiteDwarfSystem) Admissible(s dynamo.State, _ float64) error {
	if s[0] <= 0 {
		return dynamo.Violation("pressure", s[0])
	}
	return nil
}

func (c WhiteDwarf) Run(ctx context.Context, in Input, out report.Emitter) error {
	if err := checkArity(c, in); err != nil {
		return err
	}
	rhoc := math.Pow(10, in.Values[0])
	dr := 1e5 * in.Values[1]
	if dr <= 0 {
		return badValue("step size must be positive")
	}

	xc := math.Cbrt(rhoc / degeneracyDensity)
	pc := degeneracyPressure * ElectronGas(xc)
	sys := NewWhiteDwarfSystem(xc)

	if !out.Table(report.Table{
		Title: "White dwarf layers",
		Columns: []report.Column{
			report.Index("i", 4),
			report.Col("r/R0", 11, 7),
			report.Col("Mr/M0", 11, 7),
			report.Col("log P", 11, 7),
			report.Col("log rho", 11, 7),
			report.Col("x", 11, 7),
		},
		Prompt: report.PromptStop,
	}) {
		return nil
	}
	if !out.Row(0, 0, 0, math.Log10(pc), math.Log10(rhoc), xc) {
		return nil
	}

	p1 := pc - 2.0/3.0*Gravitation*math.Pi*(rhoc*dr)*(rhoc*dr)
	m1 := 4.0 / 3.0 * math.Pi * rhoc * dr * dr * dr
	if p1 <= 0 {
		out.Note("Surface reached within the first step; total mass %.4f", m1/SolarMass)
		return nil
	}
	rho1, x1, err := sys.Density(p1)
	if err != nil {
		return err
	}
	if !out.Row(1, dr/SolarRadius, m1/SolarMass, math.Log10(p1), math.Log10(rho1), x1) {
		return nil
	}

	last := dynamo.State{p1, m1}
	sim := dynamo.New(sys, in.integrator(integrators.NewMidpoint()), nil)
	outcome, err := sim.RunWithCallback(ctx, last, in.config(dr, dr), func(sm dynamo.Sample) bool {
		last = sm.X
		rho, x, err := sys.Density(sm.X[0])
		if err != nil {
			rho, x = math.NaN(), math.NaN()
		}
		layer := sm.Step + 1
		if !out.Row(float64(layer), sm.T/SolarRadius, sm.X[1]/SolarMass, math.Log10(sm.X[0]), log10(rho), x) {
			return false
		}
		if layer%whiteDwarfPauseEvery == 0 {
			return out.Pause()
		}
		return true
	})
	if err != nil {
		return err
	}
	if outcome.Reason != dynamo.StopDomain {
		domainNote(out, outcome)
	}
	out.Note("Total mass: %.4f solar masses", last[1]/SolarMass)
	return nil
}
