// Package dynamo provides the stepping core shared by the chapters.
//
// The package defines the primitives every integration loop is built from:
//
//   - [State]: vector of scalar physical quantities
//   - [System]: derivative evaluator (dX/dt = f(X, t))
//   - [Integrator]: one explicit step of a fixed-form scheme
//   - [StepPolicy]: deterministic step-size rule driven by the current state
//   - [Simulator]: runs a system until a guard, a terminal condition,
//     the consumer or a step limit ends the loop
//
// # Example
//
//	sys := physics.NewUniverseSystem(0.35, 0.35)
//	s := dynamo.New(sys, integrators.NewMidpoint(), dynamo.Throttle{Index: 1, Limit: 2, Step: 0.01})
//	out, err := s.RunWithCallback(ctx, dynamo.State{1, 1}, cfg, func(sm dynamo.Sample) bool {
//	    fmt.Println(sm.T, sm.X)
//	    return true
//	})
//
// # Domain guards
//
// A state that leaves the physical domain of the formulas (negative
// pressure, non-positive mass, NaN) is never admitted. Systems report such
// states with an error wrapping [ErrDomain], either from Derive or from the
// optional [Constrained] interface, and the simulator stops with
// [StopDomain] keeping the last valid sample.
//
// # Thread Safety
//
// Simulator and integrator instances are NOT thread-safe. Every run owns
// its own simulator.
package dynamo
