package sim_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/output"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

type countingGravity struct {
	*physics.Gravity
	calls int
}

func (c *countingGravity) Forces(positions, masses, out []float64) {
	c.calls++
	c.Gravity.Forces(positions, masses, out)
}

type forceOnly struct{}

func (forceOnly) Forces(_, _, out []float64) {}

type failingSink struct {
	after int
	err   error
	n     int
}

func (f *failingSink) WriteSystem(dynamo.SystemRecord) error {
	f.n++
	if f.n > f.after {
		return f.err
	}
	return nil
}

func (f *failingSink) WriteEnergy(dynamo.EnergyRecord) error { return nil }

func binary(tdump, total int) *dynamo.State {
	s := dynamo.NewState(2)
	s.G, s.Dt = 1, 1e-3
	s.DumpInterval, s.TotalSteps = tdump, total
	copy(s.Masses, []float64{1, 1})
	copy(s.Positions, []float64{-1, 0, 0, 1, 0, 0})
	copy(s.Velocities, []float64{0, -0.5, 0, 0, 0.5, 0})
	return s
}

var _ = Describe("Driver", func() {
	var (
		rec *output.Recorder
		law *countingGravity
	)

	BeforeEach(func() {
		rec = output.NewRecorder(0)
		law = &countingGravity{Gravity: physics.NewGravity(1)}
	})

	It("rejects an invalid state", func() {
		s := binary(10, 5)
		_, err := sim.New(s, law, rec)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})

	It("requires a force law with a potential", func() {
		_, err := sim.New(binary(1, 1), forceOnly{}, rec)
		Expect(err).To(MatchError(dynamo.ErrNoPotential))
	})

	It("emits one snapshot per cycle and advances tdump steps per cycle", func() {
		d, err := sim.New(binary(10, 100), law, rec)
		Expect(err).NotTo(HaveOccurred())

		res, err := d.Run()
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Cycles).To(Equal(10))
		Expect(res.StepsTaken).To(Equal(100))
		Expect(res.SkippedSteps).To(BeZero())
		Expect(rec.Systems).To(HaveLen(10))
		Expect(rec.Energies).To(HaveLen(10))
		Expect(d.Tick()).To(Equal(10))
		Expect(d.Done()).To(BeTrue())

		for i, s := range rec.Systems {
			Expect(s.Tick).To(Equal(i))
			Expect(rec.Energies[i].Tick).To(Equal(i))
		}
	})

	It("evaluates the force once per step plus once to prime", func() {
		d, err := sim.New(binary(7, 70), law, rec)
		Expect(err).NotTo(HaveOccurred())
		_, err = d.Run()
		Expect(err).NotTo(HaveOccurred())
		Expect(law.calls).To(Equal(71))
	})

	It("truncates steps that do not fill a whole cycle", func() {
		s := binary(4, 10)
		d, err := sim.New(s, law, rec)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Cycles()).To(Equal(2))

		res, err := d.Run()
		Expect(err).NotTo(HaveOccurred())
		Expect(res.StepsTaken).To(Equal(8))
		Expect(res.SkippedSteps).To(Equal(2))
		Expect(rec.Systems).To(HaveLen(2))
	})

	It("reports accelerations of the initial configuration in the first snapshot", func() {
		s := binary(5, 10)
		s.Masses[1] = 2
		copy(s.Accelerations, []float64{9, 9, 9, 9, 9, 9})
		d, err := sim.New(s, law, rec)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Cycle()).To(Succeed())

		first := rec.Systems[0]
		Expect(first.Positions).To(Equal([]float64{-1, 0, 0, 1, 0, 0}))
		Expect(first.Accelerations[0]).To(BeNumerically("~", 0.5, 1e-15))
		Expect(first.Accelerations[1]).To(BeZero())
		Expect(first.Accelerations[3]).To(BeNumerically("~", -0.25, 1e-15))
	})

	It("derives later accelerations from the cached force", func() {
		s := binary(3, 9)
		d, err := sim.New(s, law, rec)
		Expect(err).NotTo(HaveOccurred())
		_, err = d.Run()
		Expect(err).NotTo(HaveOccurred())

		last := rec.Systems[len(rec.Systems)-1]
		f := make([]float64, 6)
		physics.NewGravity(1).Forces(last.Positions, s.Masses, f)
		for k := range f {
			Expect(last.Accelerations[k]).To(BeNumerically("~", f[k]/s.Masses[k/3], 1e-12))
		}
	})

	It("samples energies of the emitted configuration", func() {
		d, err := sim.New(binary(1, 1), law, rec)
		Expect(err).NotTo(HaveOccurred())
		_, err = d.Run()
		Expect(err).NotTo(HaveOccurred())

		e := rec.Energies[0]
		Expect(e.Kinetic).To(BeNumerically("~", 0.25, 1e-15))
		Expect(e.Potential).To(BeNumerically("~", -0.5, 1e-15))
		Expect(e.Total).To(BeNumerically("~", -0.25, 1e-15))
	})

	It("keeps logical time per driver", func() {
		a, err := sim.New(binary(1, 5), law, rec)
		Expect(err).NotTo(HaveOccurred())
		b, err := sim.New(binary(1, 3), physics.NewGravity(1), output.NewRecorder(0))
		Expect(err).NotTo(HaveOccurred())

		Expect(a.Cycle()).To(Succeed())
		Expect(a.Cycle()).To(Succeed())
		Expect(b.Cycle()).To(Succeed())

		Expect(a.Tick()).To(Equal(2))
		Expect(b.Tick()).To(Equal(1))
	})

	It("does nothing once every cycle ran", func() {
		d, err := sim.New(binary(2, 2), law, rec)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Cycle()).To(Succeed())
		Expect(d.Cycle()).To(Succeed())
		Expect(rec.Systems).To(HaveLen(1))
	})

	It("aborts on a sink error and stops emitting", func() {
		boom := errors.New("disk full")
		sink := &failingSink{after: 2, err: boom}
		d, err := sim.New(binary(2, 20), law, sink)
		Expect(err).NotTo(HaveOccurred())

		res, err := d.Run()
		Expect(err).To(MatchError(boom))
		var simErr *dynamo.SimulationError
		Expect(errors.As(err, &simErr)).To(BeTrue())
		Expect(simErr.Cycle).To(Equal(2))
		Expect(res.Cycles).To(Equal(2))
		Expect(res.StepsTaken).To(Equal(4))

		Expect(d.Done()).To(BeTrue())
		Expect(d.Cycle()).To(MatchError(boom))
		_, err = d.Run()
		Expect(err).To(MatchError(boom))
		Expect(sink.n).To(Equal(3))
	})

	It("aborts when the force cache cannot be allocated", func() {
		s := binary(1, 4)
		before := s.Clone()
		integ := integrators.NewVerlet(law, integrators.WithBufferLimit(2))
		d, err := sim.New(s, law, rec, sim.WithIntegrator(integ))
		Expect(err).NotTo(HaveOccurred())

		_, err = d.Run()
		Expect(err).To(MatchError(dynamo.ErrAllocation))
		Expect(rec.Systems).To(BeEmpty())
		Expect(s.Positions).To(Equal(before.Positions))
		Expect(d.Tick()).To(BeZero())
	})

	It("releases the force cache when the run ends", func() {
		s := binary(2, 4)
		integ := integrators.NewVerlet(law)
		d, err := sim.New(s, law, rec, sim.WithIntegrator(integ))
		Expect(err).NotTo(HaveOccurred())
		_, err = d.Run()
		Expect(err).NotTo(HaveOccurred())
		Expect(integ.Primed()).To(BeFalse())
	})

	It("reports metrics", func() {
		d, err := sim.New(binary(10, 1000), law, rec,
			sim.WithMetrics(metrics.NewEnergyDrift(), metrics.NewMomentumDrift()))
		Expect(err).NotTo(HaveOccurred())

		res, err := d.Run()
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Metrics).To(HaveKey("energy_drift"))
		Expect(res.Metrics).To(HaveKey("momentum_drift"))
		Expect(res.Metrics["energy_drift"]).To(BeNumerically("<", 1e-5))
		Expect(res.Metrics["momentum_drift"]).To(BeNumerically("<", 1e-12))
		Expect(res.FinalEnergy.Total).To(BeNumerically("~", -0.25, 1e-6))
	})
})
