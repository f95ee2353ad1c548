package integrators

import "github.com/san-kum/astropc/internal/dynamo"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, t float64, dt float64) (dynamo.State, error) {
	dx, err := sys.Derive(x, t)
	if err != nil {
		return nil, err
	}
	result := x.AddScaled(dt, dx)
	if err := dynamo.Admit(sys, result, t+dt); err != nil {
		return nil, err
	}
	return result, nil
}
