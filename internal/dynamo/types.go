package dynamo

import (
	"fmt"
	"math"
)

// Dim is the number of spatial dimensions of every body.
const Dim = 3

// State is the mutable system of N point masses. Vector fields are laid out
// body-major: the coordinates of body i live at [Dim*i, Dim*i+Dim).
type State struct {
	Bodies       int
	G            float64
	Dt           float64
	DumpInterval int
	TotalSteps   int

	Masses        []float64
	Positions     []float64
	Velocities    []float64
	Accelerations []float64
}

// NewState allocates a zeroed state for n bodies.
func NewState(n int) *State {
	return &State{
		Bodies:        n,
		Masses:        make([]float64, n),
		Positions:     make([]float64, n*Dim),
		Velocities:    make([]float64, n*Dim),
		Accelerations: make([]float64, n*Dim),
	}
}

func (s *State) Clone() *State {
	c := *s
	c.Masses = append([]float64(nil), s.Masses...)
	c.Positions = append([]float64(nil), s.Positions...)
	c.Velocities = append([]float64(nil), s.Velocities...)
	c.Accelerations = append([]float64(nil), s.Accelerations...)
	return &c
}

// Body returns views of the position and velocity of body i.
func (s *State) Body(i int) (pos, vel []float64) {
	return s.Positions[i*Dim : i*Dim+Dim], s.Velocities[i*Dim : i*Dim+Dim]
}

// Cycles is the number of dump cycles a run performs. Steps that do not fill
// a whole cycle are never executed.
func (s *State) Cycles() int {
	if s.DumpInterval <= 0 {
		return 0
	}
	return s.TotalSteps / s.DumpInterval
}

// SkippedSteps is the number of trailing steps dropped by Cycles.
func (s *State) SkippedSteps() int {
	if s.DumpInterval <= 0 {
		return 0
	}
	return s.TotalSteps % s.DumpInterval
}

// Validate checks array lengths and run parameters.
func (s *State) Validate() error {
	if s.Bodies <= 0 {
		return fmt.Errorf("%w: body count %d", ErrParameterBounds, s.Bodies)
	}
	if !(s.G > 0) || math.IsInf(s.G, 0) {
		return fmt.Errorf("%w: G must be positive, got %g", ErrParameterBounds, s.G)
	}
	if !(s.Dt > 0) || math.IsInf(s.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrParameterBounds, s.Dt)
	}
	if s.DumpInterval <= 0 {
		return fmt.Errorf("%w: dump interval must be positive, got %d", ErrParameterBounds, s.DumpInterval)
	}
	if s.TotalSteps <= 0 {
		return fmt.Errorf("%w: total steps must be positive, got %d", ErrParameterBounds, s.TotalSteps)
	}
	if s.DumpInterval > s.TotalSteps {
		return fmt.Errorf("%w: dump interval %d exceeds total steps %d", ErrParameterBounds, s.DumpInterval, s.TotalSteps)
	}

	n := s.Bodies * Dim
	switch {
	case len(s.Masses) != s.Bodies:
		return fmt.Errorf("%w: %d masses for %d bodies", ErrDimensionMismatch, len(s.Masses), s.Bodies)
	case len(s.Positions) != n:
		return fmt.Errorf("%w: %d position components, want %d", ErrDimensionMismatch, len(s.Positions), n)
	case len(s.Velocities) != n:
		return fmt.Errorf("%w: %d velocity components, want %d", ErrDimensionMismatch, len(s.Velocities), n)
	case len(s.Accelerations) != n:
		return fmt.Errorf("%w: %d acceleration components, want %d", ErrDimensionMismatch, len(s.Accelerations), n)
	}
	return nil
}

// CheckPreconditions rejects configurations the numerical kernels do not
// guard against: non-finite values, non-positive masses and coincident bodies.
// It is the input provider's job to call it; the kernels never do.
func (s *State) CheckPreconditions() error {
	if err := s.Validate(); err != nil {
		return err
	}
	for i, m := range s.Masses {
		if !(m > 0) || math.IsInf(m, 0) {
			return fmt.Errorf("%w: body %d has mass %g", ErrParameterBounds, i+1, m)
		}
	}
	if !finite(s.Positions) || !finite(s.Velocities) {
		return ErrInvalidState
	}
	for i := 0; i < s.Bodies; i++ {
		for j := i + 1; j < s.Bodies; j++ {
			if samePoint(s.Positions[i*Dim:i*Dim+Dim], s.Positions[j*Dim:j*Dim+Dim]) {
				return fmt.Errorf("%w: bodies %d and %d", ErrCoincidentBodies, i+1, j+1)
			}
		}
	}
	return nil
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func samePoint(a, b []float64) bool {
	for k := range a {
		if a[k] != b[k] {
			return false
		}
	}
	return true
}

// ForceLaw computes the net force on every body. out has the layout of
// positions and is overwritten.
type ForceLaw interface {
	Forces(positions, masses, out []float64)
}

// Potential is implemented by force laws that derive from a pair potential.
type Potential interface {
	PotentialEnergy(positions, masses []float64) float64
}

// Integrator advances positions and velocities of s by one time step.
type Integrator interface {
	Prime(s *State) error
	Step(s *State) error
	Accelerations(masses, dst []float64) error
	Release()
}

// SystemRecord is one trajectory sample. The slices alias the state arrays
// and are only valid for the duration of the Sink call.
type SystemRecord struct {
	Tick          int
	Positions     []float64
	Velocities    []float64
	Accelerations []float64
}

type EnergyRecord struct {
	Tick      int
	Kinetic   float64
	Potential float64
	Total     float64
}

// Sink receives the snapshots emitted once per dump cycle.
type Sink interface {
	WriteSystem(rec SystemRecord) error
	WriteEnergy(rec EnergyRecord) error
}
