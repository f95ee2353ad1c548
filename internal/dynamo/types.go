package dynamo

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// AddScaled returns s + h*d without touching either operand.
func (s State) AddScaled(h float64, d State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(d) {
			result[i] = s[i] + h*d[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is the derivative evaluator of one chapter. Derive returns an
// error wrapping ErrDomain when x cannot be evaluated.
type System interface {
	Derive(x State, t float64) (State, error)
	StateDim() int
}

// Constrained systems reject predicted or corrected states before they are
// used. Integrators call Admissible on every intermediate state.
type Constrained interface {
	Admissible(x State, t float64) error
}

// Terminator systems end the loop after an accepted, reported state.
type Terminator interface {
	Terminal(x State, t float64) bool
}

type Integrator interface {
	Step(sys System, x State, t, h float64) (State, error)
}

// StepPolicy chooses the next step from the current state and the
// previous step. It is a deterministic function of its arguments.
type StepPolicy interface {
	Next(x State, t, h float64) float64
}

// Admit runs the domain guards on x: finite components first, then the
// system's own constraint when it has one.
func Admit(sys System, x State, t float64) error {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Violation(fmt.Sprintf("x[%d]", i), v)
		}
	}
	if c, ok := sys.(Constrained); ok {
		return c.Admissible(x, t)
	}
	return nil
}

type Config struct {
	Dt            float64
	T0            float64
	MaxSteps      int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		MaxSteps:      5000,
		ValidateState: true,
	}
}

// Sample is one accepted state.
type Sample struct {
	Step int
	T    float64
	H    float64
	X    State
}

type StopReason int

const (
	StopDomain StopReason = iota
	StopTerminal
	StopCallback
	StopLimit
)

func (r StopReason) String() string {
	switch r {
	case StopDomain:
		return "domain"
	case StopTerminal:
		return "terminal"
	case StopCallback:
		return "callback"
	case StopLimit:
		return "limit"
	default:
		return "unknown"
	}
}

// Outcome describes how a run ended. Last is always a valid state.
type Outcome struct {
	Last   Sample
	Reason StopReason
	Cause  error
}
