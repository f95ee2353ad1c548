package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/astropc/internal/dynamo"
)

// ramp carries time in x[0] so that f is linear in the state while the
// solution x[1] = x0 + a t + b t^2/2 is quadratic.
type ramp struct{ a, b float64 }

func (r *ramp) Derive(x dynamo.State, _ float64) (dynamo.State, error) {
	return dynamo.State{1, r.a + r.b*x[0]}, nil
}

func (r *ramp) StateDim() int { return 2 }

type oscillator struct{}

func (s *oscillator) Derive(x dynamo.State, _ float64) (dynamo.State, error) {
	return dynamo.State{x[1], -x[0]}, nil
}

func (s *oscillator) StateDim() int { return 2 }

type decay struct{}

func (d *decay) Derive(x dynamo.State, _ float64) (dynamo.State, error) {
	return dynamo.State{-x[0]}, nil
}

func (d *decay) StateDim() int { return 1 }

func integrate(t *testing.T, integ dynamo.Integrator, sys dynamo.System, x dynamo.State, h float64, steps int) dynamo.State {
	t.Helper()
	time := 0.0
	for i := 0; i < steps; i++ {
		var err error
		x, err = integ.Step(sys, x, time, h)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		time += h
	}
	return x
}

func TestSecondOrderSchemesExactOnLinearProblems(t *testing.T) {
	schemes := map[string]dynamo.Integrator{
		"midpoint": NewMidpoint(),
		"heun":     NewHeun(),
	}
	sys := &ramp{a: 0.7, b: -2.3}

	for name, integ := range schemes {
		for _, h := range []float64{0.001, 0.1, 0.5, 2.0} {
			steps := 8
			x := integrate(t, integ, sys, dynamo.State{0, 1.5}, h, steps)

			T := h * float64(steps)
			want := 1.5 + sys.a*T + 0.5*sys.b*T*T
			if math.Abs(x[1]-want) > 1e-12*math.Max(1, math.Abs(want)) {
				t.Errorf("%s h=%v: got %.15f, want %.15f", name, h, x[1], want)
			}
		}
	}
}

func TestConvergenceOrder(t *testing.T) {
	tests := []struct {
		name  string
		integ func() dynamo.Integrator
		order float64
	}{
		{"euler", func() dynamo.Integrator { return NewEuler() }, 1},
		{"midpoint", func() dynamo.Integrator { return NewMidpoint() }, 2},
		{"heun", func() dynamo.Integrator { return NewHeun() }, 2},
		{"rk4", func() dynamo.Integrator { return NewRK4() }, 4},
	}

	errAt := func(integ dynamo.Integrator, h float64) float64 {
		steps := int(math.Round(1 / h))
		x := integrate(t, integ, &decay{}, dynamo.State{1}, h, steps)
		return math.Abs(x[0] - math.Exp(-1))
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e1 := errAt(tt.integ(), 0.05)
			e2 := errAt(tt.integ(), 0.025)
			observed := math.Log2(e1 / e2)
			if math.Abs(observed-tt.order) > 0.2 {
				t.Errorf("observed order %.3f, want %.0f", observed, tt.order)
			}
		})
	}
}

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()
	dt := 0.01
	steps := 100

	x := integrate(t, integ, &oscillator{}, dynamo.State{1.0, 0.0}, dt, steps)

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

// positive rejects any state with x[0] <= 0 and counts derivative calls.
type positive struct {
	decay
	rate  float64
	calls int
}

func (p *positive) Derive(x dynamo.State, _ float64) (dynamo.State, error) {
	p.calls++
	return dynamo.State{-p.rate}, nil
}

func (p *positive) Admissible(x dynamo.State, _ float64) error {
	if x[0] <= 0 {
		return dynamo.Violation("x", x[0])
	}
	return nil
}

func TestMidpointStopsOnPredictedViolation(t *testing.T) {
	sys := &positive{rate: 3}
	_, err := NewMidpoint().Step(sys, dynamo.State{1}, 0, 1)
	if !errors.Is(err, dynamo.ErrDomain) {
		t.Fatalf("expected ErrDomain, got %v", err)
	}
	if sys.calls != 1 {
		t.Errorf("derivative evaluated %d times after a rejected half step", sys.calls)
	}
}

func TestMidpointStopsOnCorrectedViolation(t *testing.T) {
	sys := &positive{rate: 1.5}
	_, err := NewMidpoint().Step(sys, dynamo.State{1}, 0, 1)
	if !errors.Is(err, dynamo.ErrDomain) {
		t.Fatalf("expected ErrDomain, got %v", err)
	}
}

func TestHeunStopsOnPredictedViolation(t *testing.T) {
	sys := &positive{rate: 2}
	_, err := NewHeun().Step(sys, dynamo.State{1}, 0, 1)
	if !errors.Is(err, dynamo.ErrDomain) {
		t.Fatalf("expected ErrDomain, got %v", err)
	}
	if sys.calls != 1 {
		t.Errorf("derivative evaluated %d times after a rejected prediction", sys.calls)
	}
}

type nanSystem struct{ decay }

func (n *nanSystem) Derive(x dynamo.State, _ float64) (dynamo.State, error) {
	return dynamo.State{math.Sqrt(x[0] - 2)}, nil
}

func TestNonFiniteStatesAreRejected(t *testing.T) {
	for _, name := range Names() {
		integ, err := ByName(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := integ.Step(&nanSystem{}, dynamo.State{1}, 0, 0.1); !errors.Is(err, dynamo.ErrDomain) {
			t.Errorf("%s: expected ErrDomain for NaN derivative, got %v", name, err)
		}
	}
}

func TestHeunPredict(t *testing.T) {
	pred, k1, k2, err := NewHeun().Predict(&decay{}, dynamo.State{2}, 0, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if pred[0] != 1 || k1[0] != -2 || k2[0] != -1 {
		t.Errorf("unexpected prediction: pred=%v k1=%v k2=%v", pred, k1, k2)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"midpoint", "cauchy", "heun", "euler", "rk4"} {
		if _, err := ByName(name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if _, err := ByName("verlet"); err == nil {
		t.Error("expected error for unknown integrator")
	}
	a, _ := ByName("rk4")
	b, _ := ByName("rk4")
	if a == b {
		t.Error("ByName must return fresh instances")
	}
}
