package physics

import (
	"context"
	"math"

	"github.com/san-kum/astropc/internal/dynamo"
	"github.com/san-kum/astropc/internal/integrators"
	"github.com/san-kum/astropc/internal/report"
)

// Polytrope integrates the Lane-Emden equation and scales the solution to
// a star of given mass and radius.
type Polytrope struct{}

func (Polytrope) Name() string  { return "polytrope" }
func (Polytrope) Title() string { return "Polytropic gas spheres" }

func (Polytrope) Params() []Param {
	return []Param{
		{Key: "n", Label: "Polytropic index n"},
		{Key: "dx", Label: "Step in x"},
		{Key: "mass", Label: "Mass (solar units)"},
		{Key: "radius", Label: "Radius (solar units)"},
	}
}

// LaneEmden has state (f, h = df/dx) with x as the independent variable.
type LaneEmden struct {
	N float64
}

func (l *LaneEmden) StateDim() int { return 2 }

func (l *LaneEmden) Derive(s dynamo.State, x float64) (dynamo.State, error) {
	if s[0] <= 0 {
		return nil, dynamo.Violation("f", s[0])
	}
	if x == 0 {
		return nil, dynamo.Violation("x", x)
	}
	return dynamo.State{s[1], -math.Pow(s[0], l.N) - 2*s[1]/x}, nil
}

func (l *LaneEmden) Admissible(s dynamo.State, _ float64) error {
	if s[0] <= 0 {
		return dynamo.Violation("f", s[0])
	}
	return nil
}

// Series is the power series solution near the centre.
func (l *LaneEmden) Series(x float64) (f, h float64) {
	x2 := x * x
	f = 1 - x2/6 + l.N*x2*x2/120
	h = -x/3 + l.N*x2*x/30
	return f, h
}

// Surface extrapolates the last point (x, f, h) linearly to f = 0 and
// returns the surface x and the gradient there.
func (l *LaneEmden) Surface(x, f, h float64) (xs, hs float64) {
	xs = x - f/h
	hs = h + (xs-x)*(-math.Pow(f, l.N)-2*h/x)
	return xs, hs
}

// PolytropeModel holds the physical scaling of a Lane-Emden solution.
type PolytropeModel struct {
	XSurface        float64
	HSurface        float64
	CentralPressure float64
	MeanDensity     float64
	CentralDensity  float64
	MassParameter   float64
	LengthUnit      float64
}

// Scale maps the dimensionless surface to a star of mass and radius in
// solar units.
func (l *LaneEmden) Scale(xs, hs, mass, radius float64) PolytropeModel {
	mean := 1.42 * mass / (radius * radius * radius)
	return PolytropeModel{
		XSurface:        xs,
		HSurface:        hs,
		CentralPressure: 9.048e14 * mass * mass / (l.N + 1) / (hs * hs) / math.Pow(radius, 4),
		MeanDensity:     mean,
		CentralDensity:  -mean * xs / 3 / hs,
		MassParameter:   -xs * xs * hs / mass,
		LengthUnit:      radius / xs,
	}
}

func (c Polytrope) Run(ctx context.Context, in Input, out report.Emitter) error {
	if err := checkArity(c, in); err != nil {
		return err
	}
	n, dx, mass, radius := in.Values[0], in.Values[1], in.Values[2], in.Values[3]
	if dx <= 0 || mass <= 0 || radius <= 0 {
		return badValue("step, mass and radius must be positive")
	}
	if n < 0 {
		return badValue("polytropic index must not be negative")
	}

	sys := &LaneEmden{N: n}
	row := func(i int, x float64, s dynamo.State) bool {
		f, h := s[0], s[1]
		return out.Row(float64(i), x, f, h, log10(math.Pow(f, n+1)), log10(math.Pow(f, n)), -x*x*h)
	}

	if !out.Table(report.Table{
		Title: "Lane-Emden solution",
		Columns: []report.Column{
			report.Index("i", 4),
			report.Col("x", 9, 4),
			report.Col("f", 11, 5),
			report.Col("h", 11, 5),
			report.Col("log P/Pc", 11, 4),
			report.Col("log d/dc", 11, 4),
			report.Col("m", 11, 4),
		},
		PauseEvery: 10,
	}) {
		return nil
	}
	if !row(0, 0, dynamo.State{1, 0}) {
		return nil
	}
	f1, h1 := sys.Series(dx)
	if !row(1, dx, dynamo.State{f1, h1}) {
		return nil
	}

	last := dynamo.Sample{Step: 0, T: dx, X: dynamo.State{f1, h1}}
	sim := dynamo.New(sys, in.integrator(integrators.NewMidpoint()), nil)
	outcome, err := sim.RunWithCallback(ctx, last.X, in.config(dx, dx), func(sm dynamo.Sample) bool {
		return row(sm.Step+1, sm.T, sm.X)
	})
	if err != nil {
		return err
	}
	if outcome.Reason != dynamo.StopDomain {
		domainNote(out, outcome)
		return nil
	}

	last = outcome.Last
	xs, hs := sys.Surface(last.T, last.X[0], last.X[1])
	m := sys.Scale(xs, hs, mass, radius)

	if !out.Break("Surface reached") {
		return nil
	}
	out.Note("Surface x = %.5f  gradient = %.5f", m.XSurface, m.HSurface)
	out.Note("Central pressure = %.4e dyn/cm^2", m.CentralPressure)
	out.Note("Mean density = %.4f g/cm^3", m.MeanDensity)
	out.Note("Central density = %.4f g/cm^3", m.CentralDensity)
	out.Note("Mass parameter = %.5f", m.MassParameter)
	out.Note("Unit of length = %.5f solar radii", m.LengthUnit)
	return nil
}
