// Package dynamo provides the core types shared by the gravitational N-body
// engine.
//
//   - [State]: masses, positions, velocities and accelerations of N bodies
//   - [ForceLaw]: computes the net force on every body
//   - [Potential]: potential energy of a configuration
//   - [Integrator]: advances a state by one time step
//   - [Sink]: receives trajectory and energy snapshots
//
// # Example
//
//	s := dynamo.NewState(2)
//	law := physics.NewGravity(s.G)
//	drv, _ := sim.New(s, law, sink)
//	res, _ := drv.Run()
//
// # Thread Safety
//
// None of the types are safe for concurrent use. A State is mutated in
// place by exactly one integrator on behalf of one driver.
package dynamo
