package physics

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/geom"
)

// Gravity is the Newtonian gravitational force law with constant G.
type Gravity struct {
	G float64
}

func NewGravity(g float64) *Gravity {
	return &Gravity{G: g}
}

// Forces writes the net gravitational force on every body into out.
// Coincident bodies divide by zero; callers must rule them out beforehand.
func (g *Gravity) Forces(positions, masses, out []float64) {
	for i := range out[:len(masses)*dynamo.Dim] {
		out[i] = 0
	}

	var f [dynamo.Dim]float64
	n := len(masses)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			g.PairForce(i, j, positions, masses, f[:])
			oi, oj := out[i*dynamo.Dim:], out[j*dynamo.Dim:]
			for k := 0; k < dynamo.Dim; k++ {
				oi[k] += f[k]
				oj[k] -= f[k]
			}
		}
	}
}

// PairForce stores in dst the force body j exerts on body i:
// -G m_i m_j (p_i - p_j) / |p_i - p_j|^3. The force on j is its negation.
func (g *Gravity) PairForce(i, j int, positions, masses, dst []float64) {
	pi := positions[i*dynamo.Dim:]
	pj := positions[j*dynamo.Dim:]

	geom.Difference(dst, pi, pj, dynamo.Dim)
	r := geom.Distance(pi, pj, dynamo.Dim)

	scale := -g.G * (masses[i] * masses[j]) / (r * r * r)
	for k := 0; k < dynamo.Dim; k++ {
		dst[k] *= scale
	}
}

// PotentialEnergy sums -G m_i m_j / r over every unordered pair.
func (g *Gravity) PotentialEnergy(positions, masses []float64) float64 {
	pe := 0.0
	n := len(masses)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := geom.Distance(positions[j*dynamo.Dim:], positions[i*dynamo.Dim:], dynamo.Dim)
			pe -= g.G * masses[i] * masses[j] / r
		}
	}
	return pe
}
