package integrators

import "github.com/san-kum/astropc/internal/dynamo"

// Midpoint is the two-stage Cauchy scheme: a half step with f(x) predicts
// the midpoint, the full step uses the derivative there.
type Midpoint struct{}

func NewMidpoint() *Midpoint {
	return &Midpoint{}
}

func (m *Midpoint) Step(sys dynamo.System, x dynamo.State, t, h float64) (dynamo.State, error) {
	k1, err := sys.Derive(x, t)
	if err != nil {
		return nil, err
	}

	half := x.AddScaled(0.5*h, k1)
	if err := dynamo.Admit(sys, half, t+0.5*h); err != nil {
		return nil, err
	}

	k2, err := sys.Derive(half, t+0.5*h)
	if err != nil {
		return nil, err
	}

	next := x.AddScaled(h, k2)
	if err := dynamo.Admit(sys, next, t+h); err != nil {
		return nil, err
	}
	return next, nil
}
