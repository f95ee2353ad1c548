package dynamo

import "math"

// Fixed keeps the step unchanged.
type Fixed struct{}

func (Fixed) Next(_ State, _ float64, h float64) float64 { return h }

// Bracket maps "value strictly above Above*Ref" to Step.
type Bracket struct {
	Above float64
	Step  float64
}

// Thresholds picks a step from a table keyed on x[Index]. Brackets are
// scanned in order; the first with x[Index] > Above*Ref wins, otherwise
// Floor is used. A value equal to a bound falls into the finer bracket.
type Thresholds struct {
	Index    int
	Ref      float64
	Brackets []Bracket
	Floor    float64
}

func (p Thresholds) Next(x State, _ float64, _ float64) float64 {
	return p.For(x[p.Index])
}

// For returns the step for a value of the keyed component.
func (p Thresholds) For(v float64) float64 {
	for _, b := range p.Brackets {
		if v > b.Above*p.Ref {
			return b.Step
		}
	}
	return p.Floor
}

// Proportional makes the next step a fixed fraction of the independent
// variable accumulated so far (t - Origin).
type Proportional struct {
	Fraction float64
	Origin   float64
}

func (p Proportional) Next(_ State, t, h float64) float64 {
	next := p.Fraction * (t - p.Origin)
	if next == 0 {
		return h
	}
	return next
}

// Growth multiplies the previous step by Factor.
type Growth struct {
	Factor float64
}

func (g Growth) Next(_ State, _ float64, h float64) float64 { return g.Factor * h }

// Throttle shrinks the step magnitude to Step once |x[Index]| exceeds
// Limit. The sign of the previous step is kept, and since the policy sees
// the previous step the reduction is sticky.
type Throttle struct {
	Index int
	Limit float64
	Step  float64
}

func (p Throttle) Next(x State, _ float64, h float64) float64 {
	if math.Abs(x[p.Index]) > p.Limit {
		return math.Copysign(p.Step, h)
	}
	return h
}
