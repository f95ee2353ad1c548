package integrators

import "github.com/san-kum/astropc/internal/dynamo"

// RK4 is the classical fourth-order scheme. It has no place in the
// textbook chapters and is kept to measure their second-order error.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) stage(sys dynamo.System, dst dynamo.State, x dynamo.State, t float64) error {
	if err := dynamo.Admit(sys, x, t); err != nil {
		return err
	}
	k, err := sys.Derive(x, t)
	if err != nil {
		return err
	}
	copy(dst, k)
	return nil
}

func (r *RK4) Step(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	n := len(x)
	r.ensureScratch(n)

	if err := r.stage(sys, r.k1, x, t); err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k1[i]
	}
	if err := r.stage(sys, r.k2, r.scratch, t+dt*0.5); err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	if err := r.stage(sys, r.k3, r.scratch, t+dt*0.5); err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	if err := r.stage(sys, r.k4, r.scratch, t+dt); err != nil {
		return nil, err
	}

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	if err := dynamo.Admit(sys, result, t+dt); err != nil {
		return nil, err
	}
	return result, nil
}
