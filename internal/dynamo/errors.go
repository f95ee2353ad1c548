package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrDomain indicates a state outside the physical domain of the formulas.
	ErrDomain = errors.New("dynamo: state outside physical domain")

	// ErrInvalidConfig indicates an unusable run configuration.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// DomainError records which quantity left the domain.
type DomainError struct {
	Quantity string
	Value    float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("dynamo: %s = %g outside physical domain", e.Quantity, e.Value)
}

func (e *DomainError) Unwrap() error { return ErrDomain }

// Violation builds a *DomainError for the named quantity.
func Violation(quantity string, value float64) error {
	return &DomainError{Quantity: quantity, Value: value}
}

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
