// Package dynamo provides the primitives shared by every sandbox domain.
//
// The package defines the small set of interfaces the solvers and the
// controller agree on:
//
//   - [Solver]: anything advanced once per frame with Step(dt)
//   - [Configurable]: named parameters driven by UI sliders
//   - [Sampler]: per-frame metric readings
//   - [System] and [Integrator]: explicit state-vector dynamics, used for
//     the parts of the sandbox that are not delegated to the rigid-body engine
//
// # Thread Safety
//
// Nothing in the sandbox is thread-safe. All solver mutation happens on the
// single frame loop between render calls.
package dynamo
