package physics

import (
	"context"
	"math"

	"github.com/san-kum/astropc/internal/dynamo"
	"github.com/san-kum/astropc/internal/integrators"
	"github.com/san-kum/astropc/internal/report"
)

// Equipotential traces a curve of constant effective potential in the
// rotating frame of two primaries.
type Equipotential struct{}

func (Equipotential) Name() string  { return "equipotential" }
func (Equipotential) Title() string { return "Equipotential curves" }

func (Equipotential) Params() []Param {
	return []Param{
		{Key: "mu", Label: "Mass parameter mu"},
		{Key: "x", Label: "Initial x"},
		{Key: "y", Label: "Initial y"},
		{Key: "direction", Label: "1 to trace y(x), 2 to trace x(y)"},
		{Key: "step", Label: "Step size"},
	}
}

// Potential is the effective potential V(x, y) of the rotating frame.
func Potential(mu, x, y float64) float64 {
	r1 := math.Hypot(x-mu, y)
	r2 := math.Hypot(x+1-mu, y)
	return (1-mu)/r1 + mu/r2 + (x*x+y*y)/2
}

// PotentialGradient returns dV/dx and dV/dy.
func PotentialGradient(mu, x, y float64) (vx, vy float64) {
	r1 := math.Hypot(x-mu, y)
	r2 := math.Hypot(x+1-mu, y)
	r13, r23 := r1*r1*r1, r2*r2*r2
	vx = -(1-mu)*(x-mu)/r13 - mu*(x+1-mu)/r23 + x
	vy = -(1-mu)*y/r13 - mu*y/r23 + y
	return vx, vy
}

// EquipotentialCurve follows V = K along one coordinate. With AlongX the
// state is y and x is the independent variable; otherwise the roles swap.
type EquipotentialCurve struct {
	Mu     float64
	K      float64
	AlongX bool
}

func (c *EquipotentialCurve) point(s dynamo.State, t float64) (x, y float64) {
	if c.AlongX {
		return t, s[0]
	}
	return s[0], t
}

// state splits a point into the dependent state and independent variable.
func (c *EquipotentialCurve) state(x, y float64) (dynamo.State, float64) {
	if c.AlongX {
		return dynamo.State{y}, x
	}
	return dynamo.State{x}, y
}

func (c *EquipotentialCurve) direction() string {
	if c.AlongX {
		return "y(x)"
	}
	return "x(y)"
}

func (c *EquipotentialCurve) StateDim() int { return 1 }

func (c *EquipotentialCurve) Derive(s dynamo.State, t float64) (dynamo.State, error) {
	x, y := c.point(s, t)
	vx, vy := PotentialGradient(c.Mu, x, y)
	if c.AlongX {
		if vy == 0 {
			return nil, dynamo.Violation("dV/dy", vy)
		}
		return dynamo.State{-vx / vy}, nil
	}
	if vx == 0 {
		return nil, dynamo.Violation("dV/dx", vx)
	}
	return dynamo.State{-vy / vx}, nil
}

// Correct applies one Newton correction pulling the point back onto V = K
// along the dependent coordinate.
func (c *EquipotentialCurve) Correct(s dynamo.State, t float64) (dynamo.State, error) {
	x, y := c.point(s, t)
	vx, vy := PotentialGradient(c.Mu, x, y)
	d := vy
	if !c.AlongX {
		d = vx
	}
	if d == 0 {
		return nil, dynamo.Violation("potential gradient", d)
	}
	return dynamo.State{s[0] - (Potential(c.Mu, x, y)-c.K)/d}, nil
}

// equipotentialPauseEvery is the number of rows between pauses. An answer
// of "c [step]" at a pause swaps between y(x) and x(y).
const equipotentialPauseEvery = 10

func (c Equipotential) Run(ctx context.Context, in Input, out report.Emitter) error {
	if err := checkArity(c, in); err != nil {
		return err
	}
	v := in.Values
	mu, x, y, step := v[0], v[1], v[2], v[4]
	if step == 0 {
		return badValue("step size must not be zero")
	}
	var curve *EquipotentialCurve
	switch v[3] {
	case 1:
		curve = &EquipotentialCurve{Mu: mu, AlongX: true}
	case 2:
		curve = &EquipotentialCurve{Mu: mu}
	default:
		return badValue("direction must be 1 or 2, got %g", v[3])
	}
	curve.K = Potential(mu, x, y)
	out.Note("Potential constant K = %.7f", curve.K)

	if !out.Table(report.Table{
		Title: "Equipotential curve",
		Columns: []report.Column{
			report.Index("i", 5),
			report.Col("x", 12, 7),
			report.Col("y", 12, 7),
			report.Sci("V-K", 12, 3),
		},
		Prompt: report.PromptSwitch,
	}) {
		return nil
	}

	s, t := curve.state(x, y)
	integ := in.integrator(integrators.NewMidpoint())
	for i := 1; i <= in.maxSteps(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		next, err := integ.Step(curve, s, t, step)
		if err == nil {
			next, err = curve.Correct(next, t+step)
		}
		if err == nil {
			err = dynamo.Admit(curve, next, t+step)
		}
		if err != nil {
			out.Note("Curve stopped: %v", err)
			return nil
		}
		s, t = next, t+step
		px, py := curve.point(s, t)
		if !out.Row(float64(i), px, py, Potential(mu, px, py)-curve.K) {
			return nil
		}
		if i%equipotentialPauseEvery != 0 {
			continue
		}
		var answer string
		if !out.Ask(&answer) {
			return nil
		}
		switched, newStep, err := report.Switch(answer)
		if err != nil {
			return badValue("%v", err)
		}
		if !switched {
			continue
		}
		curve.AlongX = !curve.AlongX
		if newStep != 0 {
			step = newStep
		}
		s, t = curve.state(px, py)
		out.Note("Tracing %s with step %g", curve.direction(), step)
	}
	out.Note("Step limit reached after %d steps", in.maxSteps())
	return nil
}
