// Package physics provides the force laws and energy functions of the
// N-body engine.
//
// [Gravity] implements [dynamo.ForceLaw] and [dynamo.Potential] for the
// Newtonian pair potential -G m_i m_j / r. Every unordered pair is visited
// once and its force is applied to both bodies with opposite signs.
//
// # Energy Conservation
//
// Use [Energies] to sample the kinetic, potential and total energy of a
// state; velocity Verlet keeps the total bounded for conservative systems:
//
//	law := physics.NewGravity(s.G)
//	e := physics.Energies(law, s)
//	fmt.Println(e.Total)
package physics
