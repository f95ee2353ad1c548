// Package physics holds the book chapters: each one a small astrophysical
// model with its own equations, step rules and table layout.
//
// Every chapter implements [Chapter]. Integrating chapters define a
// [dynamo.System] for their equations and drive it with a
// [dynamo.Simulator]:
//
//   - [Meteor]: drag and ablation, Heun with a mass-keyed step table
//   - [Polytrope], [StellarModel], [WhiteDwarf]: stellar structure from
//     the centre outward until the pressure or f vanishes
//   - [Atmosphere]: hydrostatic equilibrium in optical depth
//   - [GalacticOrbit], [ThreeBody], [StarFormation], [Universe]: orbits
//     and evolution equations
//
// [Comet], [Equipotential] and [Parallax] are closed-form or iterative
// and do not use the simulator loop.
//
// # Output
//
// Chapters never print. They emit tables, rows and notes through a
// [report.Emitter] and return as soon as the emitter asks them to stop:
//
//	rec := &report.Recorder{}
//	err := physics.Polytrope{}.Run(ctx, physics.Input{Values: []float64{1.5, 0.05, 2, 3}}, rec.Emitter())
package physics
