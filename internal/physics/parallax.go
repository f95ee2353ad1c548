package physics

import (
	"context"
	"math"

	"github.com/san-kum/astropc/internal/report"
)

const (
	parallaxTolerance = 0.01
	parallaxMaxIter   = 15
)

// Parallax derives the distance of a visual binary from its orbit and
// the mass-luminosity relation.
type Parallax struct{}

func (Parallax) Name() string  { return "parallax" }
func (Parallax) Title() string { return "Dynamical parallax of a visual binary" }

func (Parallax) Params() []Param {
	return []Param{
		{Key: "period", Label: "Orbital period (years)"},
		{Key: "separation", Label: "Apparent semi-major axis (arcsec)"},
		{Key: "mv1", Label: "Apparent magnitude of first component"},
		{Key: "mv2", Label: "Apparent magnitude of second component"},
		{Key: "bc1", Label: "Bolometric correction of first component"},
		{Key: "bc2", Label: "Bolometric correction of second component"},
	}
}

type Binary struct {
	Period     float64
	Separation float64
	Mv1, Mv2   float64
	Bc1, Bc2   float64
}

// ParallaxIteration is one pass of the mass-distance iteration.
type ParallaxIteration struct {
	Index    int
	M1, M2   float64
	Parallax float64
	Distance float64
	Mb1, Mb2 float64
	// Next1 and Next2 are the masses the pass produced.
	Next1, Next2 float64
}

// Step runs one pass from the current masses.
func (b Binary) Step(m1, m2 float64) ParallaxIteration {
	par := b.Separation / math.Pow(b.Period, 2.0/3.0) / math.Cbrt(m1+m2)
	mb1 := b.Mv1 + 5 + 5*math.Log10(par) - b.Bc1
	mb2 := b.Mv2 + 5 + 5*math.Log10(par) - b.Bc2
	return ParallaxIteration{
		M1:       m1,
		M2:       m2,
		Parallax: par,
		Distance: 3.26 / par,
		Mb1:      mb1,
		Mb2:      mb2,
		Next1:    math.Pow(10, 0.58-0.112*mb1),
		Next2:    math.Pow(10, 0.58-0.112*mb2),
	}
}

// Solve iterates from unit masses until both masses change by less than
// the tolerance. visit sees every pass and may stop the iteration.
func (b Binary) Solve(visit func(ParallaxIteration) bool) (last ParallaxIteration, converged bool) {
	m1, m2 := 1.0, 1.0
	for i := 1; i <= parallaxMaxIter; i++ {
		it := b.Step(m1, m2)
		it.Index = i
		last = it
		if visit != nil && !visit(it) {
			return last, false
		}
		if math.Abs(it.M1-it.Next1) < parallaxTolerance && math.Abs(it.M2-it.Next2) < parallaxTolerance {
			return last, true
		}
		m1, m2 = it.Next1, it.Next2
	}
	return last, false
}

func (c Parallax) Run(ctx context.Context, in Input, out report.Emitter) error {
	if err := checkArity(c, in); err != nil {
		return err
	}
	v := in.Values
	if v[0] <= 0 || v[1] <= 0 {
		return badValue("period and separation must be positive")
	}
	b := Binary{Period: v[0], Separation: v[1], Mv1: v[2], Mv2: v[3], Bc1: v[4], Bc2: v[5]}

	if !out.Table(report.Table{
		Title: "Dynamical parallax iteration",
		Columns: []report.Column{
			report.Index("i", 3),
			report.Col("m1", 9, 2),
			report.Col("m2", 9, 2),
			report.Col("par", 9, 3),
			report.Col("dist", 9, 2),
			report.Col("Mb1", 9, 2),
			report.Col("Mb2", 9, 2),
		},
	}) {
		return nil
	}

	stopped := false
	last, converged := b.Solve(func(it ParallaxIteration) bool {
		if ctx.Err() != nil || !out.Row(float64(it.Index), it.M1, it.M2, it.Parallax, it.Distance, it.Mb1, it.Mb2) {
			stopped = true
			return false
		}
		return true
	})
	if err := ctx.Err(); err != nil {
		return err
	}
	if stopped {
		return nil
	}
	if !converged {
		out.Note("Method does not converge for your input")
		return nil
	}
	out.Note("Mass of first component: %.2f", last.Next1)
	out.Note("Mass of second component: %.2f", last.Next2)
	out.Note("Distance in light years: %.2f", last.Distance)
	return nil
}
