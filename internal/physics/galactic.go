package physics

import (
	"context"
	"math"

	"github.com/san-kum/astropc/internal/dynamo"
	"github.com/san-kum/astropc/internal/integrators"
	"github.com/san-kum/astropc/internal/numeric"
	"github.com/san-kum/astropc/internal/report"
)

// GalacticOrbit follows a star in the meridional plane of an
// axisymmetric galaxy made of oblate spheroidal shells.
type GalacticOrbit struct{}

func (GalacticOrbit) Name() string  { return "galactic-orbit" }
func (GalacticOrbit) Title() string { return "Individual stellar orbits in a galaxy" }

func (GalacticOrbit) Params() []Param {
	return []Param{
		{Key: "r", Label: "Initial r"},
		{Key: "z", Label: "Initial z"},
		{Key: "u", Label: "Initial radial velocity u"},
		{Key: "v", Label: "Initial vertical velocity v"},
		{Key: "vt", Label: "Initial tangential velocity vt"},
	}
}

// GalaxyModel is the mass model used for the force integrals.
type GalaxyModel struct {
	Eccentricity float64
	Density      float64
	ScaleLength  float64
	// Upper is the upper bound of the integration angle.
	Upper float64
	// Intervals is the Simpson subinterval count.
	Intervals int
}

func DefaultGalaxy() GalaxyModel {
	return GalaxyModel{
		Eccentricity: 0.99,
		Density:      11613.5,
		ScaleLength:  2.8,
		Upper:        1.4292567,
		Intervals:    20,
	}
}

// Forces returns the radial and vertical accelerations at (r, z).
func (g GalaxyModel) Forces(r, z float64) (kr, kz float64, err error) {
	e := g.Eccentricity
	i1, i2, err := numeric.SimpsonPair(func(b float64) (float64, float64) {
		sb, tb := math.Sin(b), math.Tan(b)
		a := math.Hypot(r*sb, z*tb) / e
		w := math.Exp(-a / g.ScaleLength)
		return w * sb * sb, w * tb * tb
	}, 0, g.Upper, g.Intervals)
	if err != nil {
		return 0, 0, err
	}
	c := -4 * math.Pi * math.Sqrt(1-e*e) / (e * e * e) * g.Density
	return c * r * i1, c * z * i2, nil
}

// GalacticSystem has state (r, z, u, v) and conserves the angular
// momentum H about the symmetry axis.
type GalacticSystem struct {
	Model GalaxyModel
	H     float64
}

func (s *GalacticSystem) StateDim() int { return 4 }

func (s *GalacticSystem) Derive(x dynamo.State, _ float64) (dynamo.State, error) {
	r := x[0]
	if r <= 0 {
		return nil, dynamo.Violation("r", r)
	}
	kr, kz, err := s.Model.Forces(r, x[1])
	if err != nil {
		return nil, err
	}
	return dynamo.State{x[2], x[3], kr + s.H*s.H/(r*r*r), kz}, nil
}

func (s *GalacticSystem) Admissible(x dynamo.State, _ float64) error {
	if x[0] <= 0 {
		return dynamo.Violation("r", x[0])
	}
	return nil
}

func (c GalacticOrbit) Run(ctx context.Context, in Input, out report.Emitter) error {
	if err := checkArity(c, in); err != nil {
		return err
	}
	v := in.Values
	if v[0] <= 0 {
		return badValue("r must be positive")
	}
	sys := &GalacticSystem{Model: DefaultGalaxy(), H: v[0] * v[4]}

	if !out.Table(report.Table{
		Title: "Orbit in the meridional plane",
		Columns: []report.Column{
			report.Index("i", 5),
			report.Col("t", 9, 4),
			report.Col("r", 9, 4),
			report.Col("z", 9, 4),
			report.Col("u", 9, 4),
			report.Col("v", 9, 4),
		},
		PauseEvery: 15,
	}) {
		return nil
	}

	sim := dynamo.New(sys, in.integrator(integrators.NewMidpoint()), nil)
	outcome, err := sim.RunWithCallback(ctx, dynamo.State{v[0], v[1], v[2], v[3]}, in.config(0.001, 0), func(sm dynamo.Sample) bool {
		x := sm.X
		return out.Row(float64(sm.Step), sm.T, x[0], x[1], x[2], x[3])
	})
	if err != nil {
		return err
	}
	domainNote(out, outcome)
	return nil
}
