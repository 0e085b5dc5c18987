package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// MomentumDrift tracks the largest norm of P - P0, where P is the total
// linear momentum and P0 its first sample.
type MomentumDrift struct {
	name     string
	initial  r3.Vec
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(s *dynamo.State, _ dynamo.EnergyRecord) {
	p := physics.Momentum(s.Velocities, s.Masses)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, r3.Norm(r3.Sub(p, m.initial)))
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = r3.Vec{}
	m.maxDrift = 0
	m.samples = 0
}

// AngularMomentumDrift is the angular counterpart of MomentumDrift.
type AngularMomentumDrift struct {
	initial  r3.Vec
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift() *AngularMomentumDrift {
	return &AngularMomentumDrift{}
}

func (a *AngularMomentumDrift) Name() string { return "angular_momentum_drift" }

func (a *AngularMomentumDrift) Observe(s *dynamo.State, _ dynamo.EnergyRecord) {
	l := physics.AngularMomentum(s.Positions, s.Velocities, s.Masses)
	if a.samples == 0 {
		a.initial = l
	}
	a.samples++
	a.maxDrift = math.Max(a.maxDrift, r3.Norm(r3.Sub(l, a.initial)))
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() {
	a.initial = r3.Vec{}
	a.maxDrift = 0
	a.samples = 0
}

// Default returns the diagnostics recorded for every run.
func Default() []Metric {
	return []Metric{NewEnergyDrift(), NewMomentumDrift(), NewAngularMomentumDrift()}
}

// Metric mirrors sim.Metric so callers can build metric lists without
// importing the driver.
type Metric interface {
	Name() string
	Observe(s *dynamo.State, e dynamo.EnergyRecord)
	Value() float64
	Reset()
}
