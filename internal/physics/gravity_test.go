package physics

import (
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
)

func TestGravity_TwoBodyForce(t *testing.T) {
	g := NewGravity(1.0)
	pos := []float64{-1, 0, 0, 1, 0, 0}
	masses := []float64{1, 1}
	out := make([]float64, 6)

	g.Forces(pos, masses, out)

	// r = 2, |F| = 1/4, attractive.
	expected := []float64{0.25, 0, 0, -0.25, 0, 0}
	for i := range expected {
		if math.Abs(out[i]-expected[i]) > 1e-15 {
			t.Fatalf("Forces = %v, want %v", out, expected)
		}
	}
}

func TestGravity_PairAntisymmetry(t *testing.T) {
	g := NewGravity(6.674e-11)
	pos := []float64{
		0.1, -2.0, 3.5,
		1.7, 0.2, -0.4,
		-3.3, 1.1, 0.9,
		2.2, 2.2, 2.2,
	}
	masses := []float64{5.97e24, 7.35e22, 1.0e3, 2.5e10}

	fij := make([]float64, 3)
	fji := make([]float64, 3)
	for i := range masses {
		for j := range masses {
			if i == j {
				continue
			}
			g.PairForce(i, j, pos, masses, fij)
			g.PairForce(j, i, pos, masses, fji)
			for k := 0; k < 3; k++ {
				if fij[k] != -fji[k] {
					t.Errorf("pair (%d,%d) axis %d: %g vs %g", i, j, k, fij[k], fji[k])
				}
			}
		}
	}
}

func TestGravity_NetForceVanishes(t *testing.T) {
	g := NewGravity(1.0)
	pos := []float64{
		0, 0, 0,
		1, 0, 0,
		0, 2, 0,
		0, 0, 3,
		-1, -1, -1,
	}
	masses := []float64{1, 2, 3, 4, 5}
	out := make([]float64, len(pos))
	g.Forces(pos, masses, out)

	for k := 0; k < 3; k++ {
		sum := 0.0
		for i := range masses {
			sum += out[i*3+k]
		}
		if math.Abs(sum) > 1e-12 {
			t.Errorf("net force along axis %d = %g, want 0", k, sum)
		}
	}
}

func TestGravity_SingleBodyHasNoForce(t *testing.T) {
	g := NewGravity(1.0)
	out := []float64{7, 7, 7}
	g.Forces([]float64{3, -2, 1}, []float64{10}, out)
	for k, v := range out {
		if v != 0 {
			t.Errorf("axis %d: force %g, want 0", k, v)
		}
	}
}

func TestGravity_ForcesOverwriteOutput(t *testing.T) {
	g := NewGravity(1.0)
	pos := []float64{-1, 0, 0, 1, 0, 0}
	masses := []float64{1, 1}
	out := []float64{100, 100, 100, 100, 100, 100}
	g.Forces(pos, masses, out)
	if out[1] != 0 || out[0] != 0.25 {
		t.Errorf("stale accumulator values leaked: %v", out)
	}
}

func TestPotentialEnergy(t *testing.T) {
	tests := []struct {
		name     string
		g        float64
		pos      []float64
		masses   []float64
		expected float64
	}{
		{"single body", 1, []float64{1, 2, 3}, []float64{4}, 0},
		{"two bodies", 1, []float64{-1, 0, 0, 1, 0, 0}, []float64{1, 1}, -0.5},
		{"scaled G", 2, []float64{0, 0, 0, 0, 0, 4}, []float64{3, 2}, -3},
		{"three bodies", 1, []float64{0, 0, 0, 1, 0, 0, 0, 1, 0}, []float64{1, 1, 1}, -(1 + 1 + 1/math.Sqrt2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewGravity(tt.g).PotentialEnergy(tt.pos, tt.masses)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("PotentialEnergy = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEnergies(t *testing.T) {
	s := dynamo.NewState(2)
	s.G = 1
	copy(s.Masses, []float64{1, 3})
	copy(s.Positions, []float64{-1, 0, 0, 1, 0, 0})
	copy(s.Velocities, []float64{0, 2, 0, 0, -1, 0})

	e := Energies(NewGravity(s.G), s)

	if math.Abs(e.Kinetic-3.5) > 1e-12 {
		t.Errorf("kinetic = %v, want 3.5", e.Kinetic)
	}
	if math.Abs(e.Potential+1.5) > 1e-12 {
		t.Errorf("potential = %v, want -1.5", e.Potential)
	}
	if e.Total != e.Kinetic+e.Potential {
		t.Errorf("total %v != kinetic + potential", e.Total)
	}
}

func TestMomentum(t *testing.T) {
	vel := []float64{1, 0, 0, -0.5, 2, 0}
	masses := []float64{2, 4}
	p := Momentum(vel, masses)
	if p.X != 0 || p.Y != 8 || p.Z != 0 {
		t.Errorf("Momentum = %+v, want {0 8 0}", p)
	}

	cm := CentreOfMassVelocity(vel, masses)
	if math.Abs(cm.Y-8.0/6.0) > 1e-15 {
		t.Errorf("centre of mass velocity = %+v", cm)
	}
}

func TestAngularMomentum(t *testing.T) {
	// Circular motion in the xy plane: L points along +z.
	pos := []float64{1, 0, 0}
	vel := []float64{0, 2, 0}
	l := AngularMomentum(pos, vel, []float64{3})
	if l.X != 0 || l.Y != 0 || l.Z != 6 {
		t.Errorf("AngularMomentum = %+v, want {0 0 6}", l)
	}
}
