package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
)

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()

	for _, total := range []float64{-2.0, -2.1, -1.95, -2.0} {
		m.Observe(nil, dynamo.EnergyRecord{Total: total})
	}

	if math.Abs(m.Value()-0.05) > 1e-12 {
		t.Errorf("expected drift 0.05, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestEnergyDrift_ZeroInitialEnergy(t *testing.T) {
	m := NewEnergyDrift()
	m.Observe(nil, dynamo.EnergyRecord{Total: 0})
	m.Observe(nil, dynamo.EnergyRecord{Total: 1e-3})

	if math.Abs(m.Value()-1e-3) > 1e-15 {
		t.Errorf("expected absolute drift 1e-3, got %g", m.Value())
	}
}

func TestMomentumDrift(t *testing.T) {
	s := dynamo.NewState(2)
	copy(s.Masses, []float64{1, 2})
	copy(s.Velocities, []float64{1, 0, 0, -0.5, 0, 0})

	m := NewMomentumDrift()
	m.Observe(s, dynamo.EnergyRecord{})
	if m.Value() != 0 {
		t.Fatalf("first sample drift = %g, want 0", m.Value())
	}

	s.Velocities[4] = 1.5 // P gains 3 along y
	m.Observe(s, dynamo.EnergyRecord{})
	if math.Abs(m.Value()-3) > 1e-15 {
		t.Errorf("drift = %g, want 3", m.Value())
	}
}

func TestAngularMomentumDrift(t *testing.T) {
	s := dynamo.NewState(1)
	s.Masses[0] = 1
	copy(s.Positions, []float64{1, 0, 0})
	copy(s.Velocities, []float64{0, 1, 0})

	a := NewAngularMomentumDrift()
	a.Observe(s, dynamo.EnergyRecord{})
	s.Velocities[1] = 2
	a.Observe(s, dynamo.EnergyRecord{})

	if a.Value() != 1 {
		t.Errorf("drift = %g, want 1", a.Value())
	}
	a.Reset()
	if a.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestDefault(t *testing.T) {
	names := map[string]bool{}
	for _, m := range Default() {
		names[m.Name()] = true
	}
	for _, want := range []string{"energy_drift", "momentum_drift", "angular_momentum_drift"} {
		if !names[want] {
			t.Errorf("missing default metric %s", want)
		}
	}
}
