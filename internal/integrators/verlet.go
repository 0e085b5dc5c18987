package integrators

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// MaxBufferLen is the default limit on the number of float64 elements a
// force buffer may hold.
const MaxBufferLen = 1 << 27

type Option func(*Verlet)

// WithBufferLimit bounds the element count of the force cache and the
// working buffer. Priming a larger system fails with dynamo.ErrAllocation.
func WithBufferLimit(n int) Option {
	return func(v *Verlet) { v.limit = n }
}

// Verlet is a velocity Verlet integrator that keeps the force of the
// previous step, so each step evaluates the force law once.
//
// The cache is nil until the first Prime or Step and is owned by the
// integrator; it is only exposed as accelerations.
type Verlet struct {
	law     dynamo.ForceLaw
	limit   int
	force   []float64
	scratch []float64
}

func NewVerlet(law dynamo.ForceLaw, opts ...Option) *Verlet {
	v := &Verlet{law: law, limit: MaxBufferLen}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Verlet) Primed() bool { return v.force != nil }

func (v *Verlet) alloc(n int) ([]float64, error) {
	if n <= 0 || n > v.limit {
		return nil, fmt.Errorf("%w: %d elements (limit %d)", dynamo.ErrAllocation, n, v.limit)
	}
	return make([]float64, n), nil
}

// Prime evaluates the force law at the current positions and stores the
// result as the cached force. It does nothing once the cache exists.
func (v *Verlet) Prime(s *dynamo.State) error {
	if v.force != nil {
		return nil
	}

	n := len(s.Masses) * dynamo.Dim
	force, err := v.alloc(n)
	if err != nil {
		return err
	}
	scratch, err := v.alloc(n)
	if err != nil {
		return err
	}

	v.law.Forces(s.Positions, s.Masses, force)
	v.force, v.scratch = force, scratch
	return nil
}

// Step advances s by s.Dt. Positions of all bodies move first using the
// cached force, then the force is evaluated once at the new positions and
// velocities advance with the average of old and new force.
func (v *Verlet) Step(s *dynamo.State) error {
	if err := v.Prime(s); err != nil {
		return err
	}
	if len(v.force) != len(s.Masses)*dynamo.Dim {
		return fmt.Errorf("%w: cache holds %d components for %d bodies", dynamo.ErrDimensionMismatch, len(v.force), len(s.Masses))
	}

	dt := s.Dt
	dt2 := dt * dt
	pos, vel := s.Positions, s.Velocities

	for i, m := range s.Masses {
		c := dt2 / (2 * m)
		for k := i * dynamo.Dim; k < (i+1)*dynamo.Dim; k++ {
			pos[k] += dt*vel[k] + c*v.force[k]
		}
	}

	v.law.Forces(pos, s.Masses, v.scratch)

	for i, m := range s.Masses {
		c := dt / (2 * m)
		for k := i * dynamo.Dim; k < (i+1)*dynamo.Dim; k++ {
			vel[k] += c * (v.force[k] + v.scratch[k])
		}
	}

	v.force, v.scratch = v.scratch, v.force
	return nil
}

// Accelerations writes F/m of the cached force into dst.
func (v *Verlet) Accelerations(masses, dst []float64) error {
	if v.force == nil {
		return dynamo.ErrNotPrimed
	}
	for i, m := range masses {
		for k := i * dynamo.Dim; k < (i+1)*dynamo.Dim; k++ {
			dst[k] = v.force[k] / m
		}
	}
	return nil
}

// Release drops the cache; the next Step primes again.
func (v *Verlet) Release() {
	v.force = nil
	v.scratch = nil
}
