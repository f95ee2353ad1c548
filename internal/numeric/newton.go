// Package numeric holds the two non-stepping numerical tools used by the
// chapters: a bounded Newton-Raphson inversion and composite Simpson
// quadrature.
package numeric

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoConvergence is returned when an iteration fails to settle.
var ErrNoConvergence = errors.New("numeric: iteration did not converge")

const (
	DefaultTolerance = 1e-6
	DefaultMaxIter   = 100
)

// Newton solves F(x) = k for x by Newton-Raphson iteration.
type Newton struct {
	F  func(float64) float64
	DF func(float64) float64

	// Tol bounds |x(n+1) - x(n)| at convergence. Zero means DefaultTolerance.
	Tol float64
	// MaxIter bounds the iteration count. Zero means DefaultMaxIter.
	MaxIter int
	// OnIterate, when set, observes every new iterate.
	OnIterate func(i int, x float64)
}

// Solve iterates x <- x - (F(x)-k)/F'(x) from x0.
func (n Newton) Solve(k, x0 float64) (float64, error) {
	tol := n.Tol
	if tol <= 0 {
		tol = DefaultTolerance
	}
	maxIter := n.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}

	x := x0
	for i := 1; i <= maxIter; i++ {
		d := n.DF(x)
		if d == 0 || math.IsNaN(d) {
			return x, fmt.Errorf("%w: zero derivative at x=%g", ErrNoConvergence, x)
		}
		next := x - (n.F(x)-k)/d
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return x, fmt.Errorf("%w: iterate diverged from x=%g", ErrNoConvergence, x)
		}
		if n.OnIterate != nil {
			n.OnIterate(i, next)
		}
		if math.Abs(next-x) < tol {
			return next, nil
		}
		x = next
	}
	return x, fmt.Errorf("%w: %d iterations, target %g", ErrNoConvergence, maxIter, k)
}
