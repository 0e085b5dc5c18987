package physics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/geom"
)

// KineticEnergy sums 0.5 m_i |v_i|^2.
func KineticEnergy(velocities, masses []float64) float64 {
	ke := 0.0
	for i, m := range masses {
		v := velocities[i*dynamo.Dim:]
		ke += 0.5 * m * geom.Dot(v, v, dynamo.Dim)
	}
	return ke
}

// Energies samples the kinetic, potential and total energy of s.
func Energies(p dynamo.Potential, s *dynamo.State) dynamo.EnergyRecord {
	ke := KineticEnergy(s.Velocities, s.Masses)
	pe := p.PotentialEnergy(s.Positions, s.Masses)
	return dynamo.EnergyRecord{Kinetic: ke, Potential: pe, Total: ke + pe}
}

func vec(v []float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// Momentum returns the total linear momentum Σ m_i v_i.
func Momentum(velocities, masses []float64) r3.Vec {
	var p r3.Vec
	for i, m := range masses {
		p = r3.Add(p, r3.Scale(m, vec(velocities[i*dynamo.Dim:])))
	}
	return p
}

// AngularMomentum returns Σ m_i (x_i × v_i) about the origin.
func AngularMomentum(positions, velocities, masses []float64) r3.Vec {
	var l r3.Vec
	for i, m := range masses {
		x := vec(positions[i*dynamo.Dim:])
		v := vec(velocities[i*dynamo.Dim:])
		l = r3.Add(l, r3.Scale(m, r3.Cross(x, v)))
	}
	return l
}

// CentreOfMassVelocity returns the barycentre velocity.
func CentreOfMassVelocity(velocities, masses []float64) r3.Vec {
	total := 0.0
	for _, m := range masses {
		total += m
	}
	if total == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/total, Momentum(velocities, masses))
}
