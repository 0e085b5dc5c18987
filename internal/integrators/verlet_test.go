package integrators_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/physics"
)

var _ dynamo.Integrator = (*integrators.Verlet)(nil)

type countingLaw struct {
	law   dynamo.ForceLaw
	calls int
}

func (c *countingLaw) Forces(positions, masses, out []float64) {
	c.calls++
	c.law.Forces(positions, masses, out)
}

type zeroLaw struct{}

func (zeroLaw) Forces(_, _, out []float64) {
	for i := range out {
		out[i] = 0
	}
}

// constantLaw pushes every body with the same force along +x.
type constantLaw struct{ f float64 }

func (c constantLaw) Forces(_, masses, out []float64) {
	for i := range masses {
		out[i*3], out[i*3+1], out[i*3+2] = c.f, 0, 0
	}
}

func twoBody(dt float64, vel []float64) *dynamo.State {
	s := dynamo.NewState(2)
	s.G, s.Dt = 1, dt
	s.DumpInterval, s.TotalSteps = 1, 1
	copy(s.Masses, []float64{1, 1})
	copy(s.Positions, []float64{-1, 0, 0, 1, 0, 0})
	copy(s.Velocities, vel)
	return s
}

var _ = Describe("Verlet", func() {
	var (
		s     *dynamo.State
		law   *countingLaw
		integ *integrators.Verlet
	)

	BeforeEach(func() {
		s = twoBody(1e-4, []float64{0, 0, 0, 0, 0, 0})
		law = &countingLaw{law: physics.NewGravity(1)}
		integ = integrators.NewVerlet(law)
	})

	Describe("priming", func() {
		It("starts uninitialized", func() {
			Expect(integ.Primed()).To(BeFalse())
			Expect(integ.Accelerations(s.Masses, s.Accelerations)).To(MatchError(dynamo.ErrNotPrimed))
		})

		It("evaluates the force once and only once", func() {
			Expect(integ.Prime(s)).To(Succeed())
			Expect(integ.Prime(s)).To(Succeed())
			Expect(integ.Primed()).To(BeTrue())
			Expect(law.calls).To(Equal(1))
		})

		It("does not move the bodies", func() {
			before := s.Clone()
			Expect(integ.Prime(s)).To(Succeed())
			Expect(s.Positions).To(Equal(before.Positions))
			Expect(s.Velocities).To(Equal(before.Velocities))
		})

		It("exposes the cached force as accelerations", func() {
			s.Masses[1] = 2
			Expect(integ.Prime(s)).To(Succeed())
			Expect(integ.Accelerations(s.Masses, s.Accelerations)).To(Succeed())
			// |F| = G m0 m1 / r^2 = 0.5
			Expect(s.Accelerations[0]).To(BeNumerically("~", 0.5, 1e-15))
			Expect(s.Accelerations[3]).To(BeNumerically("~", -0.25, 1e-15))
		})

		It("primes again after release", func() {
			Expect(integ.Step(s)).To(Succeed())
			integ.Release()
			Expect(integ.Primed()).To(BeFalse())
			Expect(integ.Step(s)).To(Succeed())
			Expect(law.calls).To(Equal(4))
		})
	})

	Describe("force evaluations", func() {
		It("performs n+1 evaluations over n steps", func() {
			for _, n := range []int{1, 2, 10, 137} {
				law.calls = 0
				integ.Release()
				st := twoBody(1e-3, []float64{0, -0.5, 0, 0, 0.5, 0})
				for i := 0; i < n; i++ {
					Expect(integ.Step(st)).To(Succeed())
				}
				Expect(law.calls).To(Equal(n+1), "steps=%d", n)
			}
		})
	})

	Describe("allocation failure", func() {
		It("reports the error without mutating the state", func() {
			integ = integrators.NewVerlet(law, integrators.WithBufferLimit(3))
			s.Velocities[1] = 0.5
			before := s.Clone()

			err := integ.Step(s)
			Expect(err).To(MatchError(dynamo.ErrAllocation))
			Expect(integ.Primed()).To(BeFalse())
			Expect(law.calls).To(BeZero())
			Expect(s.Positions).To(Equal(before.Positions))
			Expect(s.Velocities).To(Equal(before.Velocities))
		})
	})

	Describe("with a zero force law", func() {
		It("moves bodies in straight lines", func() {
			integ = integrators.NewVerlet(zeroLaw{})
			s = twoBody(0.5, []float64{1, 2, 3, -1, 0, 0.25})
			for i := 0; i < 4; i++ {
				Expect(integ.Step(s)).To(Succeed())
			}
			Expect(s.Positions).To(Equal([]float64{1, 4, 6, -1, 0, 0.5}))
			Expect(s.Velocities).To(Equal([]float64{1, 2, 3, -1, 0, 0.25}))
		})
	})

	Describe("with a constant force law", func() {
		It("reproduces uniformly accelerated motion", func() {
			integ = integrators.NewVerlet(constantLaw{f: 2})
			s = twoBody(0.1, make([]float64, 6))
			s.Masses[1] = 4
			for i := 0; i < 10; i++ {
				Expect(integ.Step(s)).To(Succeed())
			}
			// x = x0 + a t^2 / 2, v = a t with t = 1
			Expect(s.Positions[0]).To(BeNumerically("~", -1+1.0, 1e-12))
			Expect(s.Velocities[0]).To(BeNumerically("~", 2.0, 1e-12))
			Expect(s.Positions[3]).To(BeNumerically("~", 1+0.25, 1e-12))
			Expect(s.Velocities[3]).To(BeNumerically("~", 0.5, 1e-12))
		})
	})

	Describe("two bodies released from rest", func() {
		It("pulls them toward each other along x after one step", func() {
			Expect(integ.Step(s)).To(Succeed())

			Expect(s.Positions[0]).To(BeNumerically(">", -1))
			Expect(s.Positions[3]).To(BeNumerically("<", 1))
			Expect(s.Positions[1]).To(BeZero())
			Expect(s.Positions[2]).To(BeZero())
			Expect(s.Positions[4]).To(BeZero())
			Expect(s.Positions[5]).To(BeZero())
			Expect(physics.KineticEnergy(s.Velocities, s.Masses)).To(BeNumerically(">", 0))
		})
	})

	Describe("a single body", func() {
		It("never moves", func() {
			one := dynamo.NewState(1)
			one.G, one.Dt = 1, 0.01
			one.Masses[0] = 3
			copy(one.Positions, []float64{1, 2, 3})
			integ = integrators.NewVerlet(physics.NewGravity(1))

			for i := 0; i < 1000; i++ {
				Expect(integ.Step(one)).To(Succeed())
			}
			Expect(integ.Accelerations(one.Masses, one.Accelerations)).To(Succeed())
			Expect(one.Positions).To(Equal([]float64{1, 2, 3}))
			Expect(one.Velocities).To(Equal([]float64{0, 0, 0}))
			Expect(one.Accelerations).To(Equal([]float64{0, 0, 0}))
			Expect(physics.Energies(physics.NewGravity(1), one).Total).To(BeZero())
		})
	})

	Describe("conservation", func() {
		It("keeps the momentum of a symmetric pair", func() {
			s = twoBody(1e-3, []float64{0.1, -0.3, 0.05, -0.1, 0.3, -0.05})
			p0 := physics.Momentum(s.Velocities, s.Masses)
			for i := 0; i < 5000; i++ {
				Expect(integ.Step(s)).To(Succeed())
			}
			p := physics.Momentum(s.Velocities, s.Masses)
			Expect(p.X).To(BeNumerically("~", p0.X, 1e-12))
			Expect(p.Y).To(BeNumerically("~", p0.Y, 1e-12))
			Expect(p.Z).To(BeNumerically("~", p0.Z, 1e-12))
		})

		It("bounds the energy drift of a circular orbit by dt^2 per step", func() {
			const (
				dt    = 1e-4
				steps = 10000
			)
			g := physics.NewGravity(1)
			s = twoBody(dt, []float64{0, -0.5, 0, 0, 0.5, 0})
			integ = integrators.NewVerlet(g)
			e0 := physics.Energies(g, s).Total
			Expect(e0).To(BeNumerically("~", -0.25, 1e-15))

			maxDrift := 0.0
			for i := 0; i < steps; i++ {
				Expect(integ.Step(s)).To(Succeed())
				maxDrift = math.Max(maxDrift, math.Abs(physics.Energies(g, s).Total-e0))
			}
			Expect(maxDrift).To(BeNumerically("<", dt*dt*steps))
		})

		It("keeps an eccentric orbit bounded over many periods", func() {
			g := physics.NewGravity(1)
			s = twoBody(1e-3, []float64{0, -0.3, 0, 0, 0.3, 0})
			integ = integrators.NewVerlet(g)
			e0 := physics.Energies(g, s).Total
			for i := 0; i < 50000; i++ {
				Expect(integ.Step(s)).To(Succeed())
			}
			Expect(math.Abs((physics.Energies(g, s).Total - e0) / e0)).To(BeNumerically("<", 1e-3))
		})
	})
})
