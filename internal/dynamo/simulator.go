package dynamo

import (
	"context"
	"errors"
	"fmt"
	"math"
)

type Simulator struct {
	sys        System
	integrator Integrator
	policy     StepPolicy
}

// New builds a simulator. A nil policy keeps the step fixed.
func New(sys System, integrator Integrator, policy StepPolicy) *Simulator {
	if policy == nil {
		policy = Fixed{}
	}
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		policy:     policy,
	}
}

// RunWithCallback streams every accepted sample to callback. The first
// step uses cfg.Dt, later steps use the policy. The loop ends when a
// guard rejects the next state, the system reports a terminal state, the
// callback returns false, or cfg.MaxSteps is reached.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, cfg Config, callback func(Sample) bool) (Outcome, error) {
	last := Sample{T: cfg.T0, X: x0.Clone()}
	if err := s.validate(x0, cfg); err != nil {
		return Outcome{Last: last}, err
	}

	x := x0.Clone()
	t := cfg.T0
	h := cfg.Dt

	for step := 1; ; step++ {
		select {
		case <-ctx.Done():
			return Outcome{Last: last}, ctx.Err()
		default:
		}

		if cfg.MaxSteps > 0 && step > cfg.MaxSteps {
			return Outcome{Last: last, Reason: StopLimit}, nil
		}

		if step > 1 {
			h = s.policy.Next(x, t, h)
		}

		next, err := s.integrator.Step(s.sys, x, t, h)
		if err == nil && cfg.ValidateState && !next.IsValid() {
			err = Violation("state", math.NaN())
		}
		if err != nil {
			if errors.Is(err, ErrDomain) {
				return Outcome{Last: last, Reason: StopDomain, Cause: err}, nil
			}
			return Outcome{Last: last}, &SimulationError{Step: step, Time: t, State: x.Clone(), Wrapped: err}
		}

		x = next
		t += h
		last = Sample{Step: step, T: t, H: h, X: x.Clone()}

		if !callback(last) {
			return Outcome{Last: last, Reason: StopCallback}, nil
		}
		if term, ok := s.sys.(Terminator); ok && term.Terminal(x, t) {
			return Outcome{Last: last, Reason: StopTerminal}, nil
		}
	}
}

func (s *Simulator) validate(x0 State, cfg Config) error {
	if cfg.Dt == 0 || math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be finite and non-zero, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.MaxSteps < 0 {
		return fmt.Errorf("%w: max steps must not be negative, got %d", ErrInvalidConfig, cfg.MaxSteps)
	}
	if dim := s.sys.StateDim(); len(x0) != dim {
		return fmt.Errorf("%w: state has %d components, system expects %d", ErrDimensionMismatch, len(x0), dim)
	}
	return nil
}
