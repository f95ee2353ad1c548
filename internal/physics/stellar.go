package physics

import (
	"context"
	"math"

	"github.com/san-kum/astropc/internal/dynamo"
	"github.com/san-kum/astropc/internal/integrators"
	"github.com/san-kum/astropc/internal/report"
)

// Composition of the stellar model.
const (
	hydrogenFraction = 0.7
	cnoFraction      = 0.02
	meanMolecular    = 0.618238
)

// StellarModel builds a main-sequence star from a convective polytropic
// core fitted to a radiative n=3 envelope.
type StellarModel struct{}

func (StellarModel) Name() string  { return "stellar-model" }
func (StellarModel) Title() string { return "A main-sequence stellar model" }

func (StellarModel) Params() []Param {
	return []Param{{Key: "mass", Label: "Mass of the star (solar units)"}}
}

// EnergyRate is the nuclear energy generation per gram from the pp chain
// and the CNO cycle at density d and temperature t.
func EnergyRate(d, t float64) float64 {
	tt := math.Cbrt(t / 1e9)
	p1 := 1 + tt*(0.133+tt*(1.09+tt*0.938))
	p2 := 1 + tt*(0.027+tt*(-0.788+tt*(-0.149+tt*(0.261+tt*0.127))))
	tt2 := tt * tt
	e1 := 23760 / tt2 * p1 * math.Exp(-3.38/tt)
	e2 := 8.6665e25 / tt2 * p2 * math.Exp(-15.228/tt-math.Pow(tt, 6)/9.5481)
	return d * (hydrogenFraction*hydrogenFraction*e1 + cnoFraction*hydrogenFraction*e2)
}

// Temperature solves p = R d T / mu + a T^4 / 3 for T by ten rounds of
// fixed-point iteration started from the ideal gas value.
func Temperature(mu, p, d float64) float64 {
	tt := mu * p / GasConstant / d
	for i := 0; i < 10; i++ {
		tt = mu / GasConstant / d * (p - Radiation*math.Pow(tt, 4)/3)
	}
	return tt
}

// CentralConditions are the empirical centre of a star of given mass.
type CentralConditions struct {
	Temperature float64
	Density     float64
	Pressure    float64
	Beta        float64
	// Fb is the radiative gradient factor of the core.
	Fb float64
	N  float64
	// Rn is the Lane-Emden length unit in cm.
	Rn float64
	// Fit is the value of f assigned to the radiative envelope at the
	// core boundary.
	Fit float64
}

func Centre(mass float64) CentralConditions {
	w := math.Log10(mass)
	tc := math.Pow(10, 7.23937+0.2724354*w-0.0401771*w*w)
	dc := math.Pow(10, 2.27899-1.658707*w+0.29329095*w*w)

	pgc := GasConstant * dc * tc / meanMolecular
	prc := Radiation * math.Pow(tc, 4) / 3
	ptc := pgc + prc
	betac := pgc / ptc
	beta := 1 - 2.0/3.0*(1-betac)
	fb := (8 - 6*beta) / (32 - 24*beta - 3*beta*beta)
	n := (1 - fb) / fb

	fit := 2.0
	switch {
	case mass < 4:
		fit = 9
	case mass < 10:
		fit = 19.58794 - 17.58794*w
	}

	return CentralConditions{
		Temperature: tc,
		Density:     dc,
		Pressure:    ptc,
		Beta:        beta,
		Fb:          fb,
		N:           n,
		Rn:          math.Sqrt((n + 1) * ptc / (4 * math.Pi * Gravitation * dc * dc)),
		Fit:         fit,
	}
}

// StellarZone is one polytropic zone with state (f, h, l): the Lane-Emden
// variable, its gradient and the luminosity in erg/s.
type StellarZone struct {
	N, Pc, Dc, Rn float64
	Fb            float64
	Convective    bool
}

func (z *StellarZone) StateDim() int { return 3 }

// StellarPoint is the physical state at one Lane-Emden coordinate.
type StellarPoint struct {
	P, D, T, M, R, E, L float64
}

// Point maps a zone state at coordinate x to physical quantities.
func (z *StellarZone) Point(s dynamo.State, x float64) StellarPoint {
	f, h := s[0], s[1]
	p := z.Pc * math.Pow(f, z.N+1)
	d := z.Dc * math.Pow(f, z.N)
	t := Temperature(meanMolecular, p, d)
	return StellarPoint{
		P: p,
		D: d,
		T: t,
		M: -4 * math.Pi * z.Dc * z.Rn * z.Rn * z.Rn * x * x * h,
		R: z.Rn * x,
		E: EnergyRate(d, t),
		L: s[2],
	}
}

func (z *StellarZone) Derive(s dynamo.State, x float64) (dynamo.State, error) {
	f, h := s[0], s[1]
	if f <= 0 {
		return nil, dynamo.Violation("f", f)
	}
	if x == 0 {
		return nil, dynamo.Violation("x", x)
	}
	dl := 0.0
	if z.Convective {
		p := z.Pc * math.Pow(f, z.N+1)
		d := z.Dc * math.Pow(f, z.N)
		t := Temperature(meanMolecular, p, d)
		if t <= 0 || math.IsNaN(t) {
			return nil, dynamo.Violation("temperature", t)
		}
		dl = 4 * math.Pi * d * EnergyRate(d, t) * z.Rn * z.Rn * z.Rn * x * x
	}
	return dynamo.State{h, -math.Pow(f, z.N) - 2*h/x, dl}, nil
}

func (z *StellarZone) Admissible(s dynamo.State, _ float64) error {
	if s[0] <= 0 {
		return dynamo.Violation("f", s[0])
	}
	return nil
}

// Terminal marks the edge of the convective core, where the radiative
// gradient drops below the adiabatic one.
func (z *StellarZone) Terminal(s dynamo.State, x float64) bool {
	if !z.Convective {
		return false
	}
	pt := z.Point(s, x)
	if pt.M <= 0 || pt.T <= 0 {
		return false
	}
	return 1.339944e9*pt.P/pt.M*pt.L/math.Pow(pt.T, 4)/z.Fb < 1
}

// FitEnvelope returns the n=3 radiative zone that continues the core at
// point pt, and its initial state and coordinate.
func FitEnvelope(pt StellarPoint, fit, fb float64) (*StellarZone, dynamo.State, float64) {
	ptc := pt.P / math.Pow(fit, 4)
	dc := pt.D / (fit * fit * fit)
	rn := math.Sqrt(ptc / (math.Pi * Gravitation * dc * dc))
	x := pt.R / rn
	h := -pt.M / (4 * math.Pi * dc * rn * rn * rn * x * x)
	zone := &StellarZone{N: 3, Pc: ptc, Dc: dc, Rn: rn, Fb: fb}
	return zone, dynamo.State{fit, h, pt.L}, x
}

// StellarSurface is the outer boundary extrapolated from the last point.
type StellarSurface struct {
	Mass        float64
	Radius      float64
	Luminosity  float64
	LogTeff     float64
	XSurface    float64
	LastDensity float64
}

func (z *StellarZone) Surface(s dynamo.State, x float64) StellarSurface {
	pt := z.Point(s, x)
	xs := x - s[0]/s[1]
	rad := pt.R + z.Rn*(xs-x)
	logL := log10(pt.L / SolarLuminosity)
	return StellarSurface{
		Mass:        pt.M + 0.5*math.Pi*pt.D*z.Rn*z.Rn*z.Rn*(x+xs)*(x+xs),
		Radius:      rad,
		Luminosity:  pt.L,
		LogTeff:     3.7613 + 0.25*logL - 0.5*math.Log10(rad/SolarRadius),
		XSurface:    xs,
		LastDensity: pt.D,
	}
}

func (c StellarModel) Run(ctx context.Context, in Input, out report.Emitter) error {
	if err := checkArity(c, in); err != nil {
		return err
	}
	mass := in.Values[0]
	if mass <= 0 {
		return badValue("mass must be positive")
	}
	cc := Centre(mass)
	core := &StellarZone{N: cc.N, Pc: cc.Pressure, Dc: cc.Density, Rn: cc.Rn, Fb: cc.Fb, Convective: true}

	out.Note("Central temperature = %.4e K  central density = %.4f g/cm^3", cc.Temperature, cc.Density)
	out.Note("Polytropic index of the core n = %.4f  beta = %.5f", cc.N, cc.Beta)

	if !out.Table(report.Table{
		Title: "Convective core",
		Columns: []report.Column{
			report.Index("i", 4),
			report.Col("Mr/M0", 8, 4),
			report.Col("log p", 7, 3),
			report.Col("log T", 7, 3),
			report.Col("log d", 7, 3),
			report.Col("r/R0", 8, 4),
			report.Col("log E", 7, 3),
			report.Col("log L", 7, 3),
			report.Col("x", 8, 4),
			report.Col("f", 8, 4),
			report.Col("h", 9, 4),
		},
		PauseEvery: 10,
	}) {
		return nil
	}

	step := 0
	row := func(z *StellarZone, s dynamo.State, x float64) bool {
		pt := z.Point(s, x)
		r := out.Row(float64(step), pt.M/SolarMass, log10(pt.P), log10(pt.T), log10(pt.D),
			pt.R/SolarRadius, log10(pt.E), log10(pt.L/SolarLuminosity), x, s[0], s[1])
		step++
		return r
	}

	if !row(core, dynamo.State{1, 0, 0}, 0) {
		return nil
	}

	const dx = 0.1
	f, h := (&LaneEmden{N: cc.N}).Series(dx)
	dr := dx * cc.Rn
	x0 := dynamo.State{f, h, 4.0 / 3.0 * math.Pi * cc.Density * EnergyRate(cc.Density, cc.Temperature) * dr * dr * dr}
	if !row(core, x0, dx) {
		return nil
	}

	integ := in.integrator(integrators.NewMidpoint())
	coreSim := dynamo.New(core, integ, nil)
	outcome, err := coreSim.RunWithCallback(ctx, x0, in.config(dx, dx), func(sm dynamo.Sample) bool {
		return row(core, sm.X, sm.T)
	})
	if err != nil {
		return err
	}

	zone := core
	switch outcome.Reason {
	case dynamo.StopTerminal:
		if !out.Break("Boundary of convective core is reached") {
			return nil
		}
		pt := core.Point(outcome.Last.X, outcome.Last.T)
		env, s0, xe := FitEnvelope(pt, cc.Fit, cc.Fb)
		out.Note("Envelope fit: f = %.4f  x = %.5f  h = %.5f  unit of length = %.4e cm", cc.Fit, xe, s0[1], env.Rn)

		if !out.Table(report.Table{
			Title:      "Radiative envelope",
			Columns:    []report.Column{report.Index("i", 4), report.Col("Mr/M0", 8, 4), report.Col("log p", 7, 3), report.Col("log T", 7, 3), report.Col("log d", 7, 3), report.Col("r/R0", 8, 4), report.Col("log E", 7, 3), report.Col("log L", 7, 3), report.Col("x", 8, 4), report.Col("f", 8, 4), report.Col("h", 9, 4)},
			PauseEvery: 10,
		}) {
			return nil
		}
		envSim := dynamo.New(env, integ, dynamo.Growth{Factor: 1.1})
		outcome, err = envSim.RunWithCallback(ctx, s0, in.config(0.04, xe), func(sm dynamo.Sample) bool {
			return row(env, sm.X, sm.T)
		})
		if err != nil {
			return err
		}
		zone = env
	case dynamo.StopDomain:
		out.Note("Surface reached inside the convective zone")
	}
	if outcome.Reason != dynamo.StopDomain {
		domainNote(out, outcome)
		return nil
	}

	sf := zone.Surface(outcome.Last.X, outcome.Last.T)
	if !out.Break("Surface reached") {
		return nil
	}
	out.Note("Total mass = %.4f solar masses", sf.Mass/SolarMass)
	out.Note("Radius = %.4f solar radii", sf.Radius/SolarRadius)
	out.Note("log L/L0 = %.4f", log10(sf.Luminosity/SolarLuminosity))
	out.Note("log Teff = %.4f", sf.LogTeff)
	return nil
}
