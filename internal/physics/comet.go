package physics

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/astropc/internal/report"
)

// Comet computes syndynames of a comet tail: the loci of dust grains
// released with zero relative velocity at one orbital position, for a
// range of radiation-pressure parameters.
type Comet struct{}

func (Comet) Name() string  { return "comet" }
func (Comet) Title() string { return "Syndynames of a comet tail" }

func (Comet) Params() []Param {
	return []Param{
		{Key: "perihelion", Label: "Perihelion distance (AU)"},
		{Key: "eccentricity", Label: "Eccentricity"},
		{Key: "mu", Label: "Attraction parameter mu"},
		{Key: "outflow", Label: "Outflow parameter g"},
	}
}

type CometParams struct {
	Perihelion   float64
	Eccentricity float64
	Mu           float64
	Outflow      float64
}

// SemiLatus is the semi-latus rectum q(1+e).
func (p CometParams) SemiLatus() float64 {
	return p.Perihelion * (1 + p.Eccentricity)
}

type CometPosition struct {
	Index      int
	Anomaly    float64
	R, X, Y    float64
	A1, A2, A3 float64
}

// Position returns the nucleus at true anomaly i/2 radians, i in [-4, 4].
func (p CometParams) Position(i int) CometPosition {
	sp := p.SemiLatus()
	nu := 0.5 * float64(i)
	r := sp / (1 + p.Eccentricity*math.Cos(nu))
	return CometPosition{
		Index:   i + 5,
		Anomaly: nu,
		R:       r,
		X:       r * math.Cos(nu),
		Y:       r * math.Sin(nu),
		A1:      math.Sqrt2 / math.Sqrt(p.Mu) * r,
		A2:      4 * p.Eccentricity * r * math.Sin(nu) / (3 * p.Mu * math.Sqrt(sp)),
		A3:      2 * math.Sqrt(2*sp) / (3 * r * math.Sqrt(p.Mu)),
	}
}

type SyndynePoint struct {
	S, T float64
	X, Y float64
}

// Syndyname returns the nine points s = 0.05..0.45 for outflow angle g
// (radians) at the given nucleus position.
func (p CometParams) Syndyname(pos CometPosition, g float64) []SyndynePoint {
	pts := make([]SyndynePoint, 0, 9)
	for k := 1; k <= 9; k++ {
		s := 0.05 * float64(k)
		t := p.Outflow*math.Sin(g)*(pos.A1*math.Sqrt(s)-pos.A2*s) + pos.A3*s*math.Sqrt(s)
		pts = append(pts, SyndynePoint{
			S: s,
			T: t,
			X: (s*pos.X + t*pos.Y + pos.R*pos.X) / pos.R,
			Y: (s*pos.Y - t*pos.X + pos.R*pos.Y) / pos.R,
		})
	}
	return pts
}

func (c Comet) Run(ctx context.Context, in Input, out report.Emitter) error {
	if err := checkArity(c, in); err != nil {
		return err
	}
	p := CometParams{
		Perihelion:   in.Values[0],
		Eccentricity: in.Values[1],
		Mu:           in.Values[2],
		Outflow:      in.Values[3],
	}
	if p.Mu <= 0 || p.Perihelion <= 0 {
		return badValue("perihelion and mu must be positive")
	}

	for i := -4; i <= 4; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		pos := p.Position(i)
		out.Note("Position %d: true anomaly %.3f  r = %.6f  x = %.7f  y = %.7f",
			pos.Index, pos.Anomaly, pos.R, pos.X, pos.Y)
		out.Note("a1 = %.6f  a2 = %.6f  a3 = %.6f", pos.A1, pos.A2, pos.A3)

		for j := -1; j <= 1; j++ {
			deg := 90 * float64(j)
			if !out.Table(report.Table{
				Title:   fmt.Sprintf("Syndyname for G = %.0f deg", deg),
				Columns: []report.Column{report.Col("s", 6, 2), report.Col("t", 12, 7), report.Col("x", 12, 7), report.Col("y", 12, 7)},
			}) {
				return nil
			}
			for _, pt := range p.Syndyname(pos, deg*math.Pi/180) {
				if !out.Row(pt.S, pt.T, pt.X, pt.Y) {
					return nil
				}
			}
		}
		if !out.Break("") {
			return nil
		}
	}
	return nil
}
