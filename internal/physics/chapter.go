package physics

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/astropc/internal/dynamo"
	"github.com/san-kum/astropc/internal/report"
)

// Physical constants in cgs units.
const (
	Gravitation = 6.673e-8
	Radiation   = 7.56464e-15
	GasConstant = 8.314e7

	SolarMass       = 2e33
	SolarRadius     = 6.96e10
	SolarLuminosity = 3.83e33
)

const defaultMaxSteps = 5000

// ErrBadInput reports a parameter set a chapter cannot run with.
var ErrBadInput = errors.New("invalid chapter input")

// Param describes one numeric input of a chapter.
type Param struct {
	Key   string
	Label string
}

// Input carries the values of a run in Params order. A nil Integrator
// selects the chapter's own scheme and a zero MaxSteps the default cap.
type Input struct {
	Values     []float64
	Integrator dynamo.Integrator
	MaxSteps   int
}

func (in Input) integrator(def dynamo.Integrator) dynamo.Integrator {
	if in.Integrator != nil {
		return in.Integrator
	}
	return def
}

func (in Input) maxSteps() int {
	if in.MaxSteps > 0 {
		return in.MaxSteps
	}
	return defaultMaxSteps
}

func (in Input) config(dt, t0 float64) dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.Dt = dt
	cfg.T0 = t0
	cfg.MaxSteps = in.maxSteps()
	return cfg
}

// Chapter is one of the book programs. Run streams its tables to out and
// returns early, without error, when out asks to stop.
type Chapter interface {
	Name() string
	Title() string
	Params() []Param
	Run(ctx context.Context, in Input, out report.Emitter) error
}

func checkArity(c Chapter, in Input) error {
	if want := len(c.Params()); len(in.Values) != want {
		return fmt.Errorf("%w: %s expects %d values, got %d", ErrBadInput, c.Name(), want, len(in.Values))
	}
	for i, v := range in.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrBadInput, c.Params()[i].Key)
		}
	}
	return nil
}

// log10 returns NaN for non-positive arguments so that tables show n/a.
func log10(v float64) float64 {
	if v <= 0 {
		return math.NaN()
	}
	return math.Log10(v)
}

func domainNote(out report.Emitter, o dynamo.Outcome) {
	switch o.Reason {
	case dynamo.StopLimit:
		out.Note("Step limit reached after %d steps", o.Last.Step)
	case dynamo.StopDomain:
		out.Note("Integration stopped: %v", o.Cause)
	}
}

// All returns every chapter in book order.
func All() []Chapter {
	return []Chapter{
		Comet{},
		Meteor{},
		Polytrope{},
		StellarModel{},
		Atmosphere{},
		WhiteDwarf{},
		GalacticOrbit{},
		ThreeBody{},
		Equipotential{},
		Parallax{},
		StarFormation{},
		Universe{},
	}
}

func badValue(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrBadInput}, args...)...)
}
