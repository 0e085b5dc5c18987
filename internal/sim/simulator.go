package sim

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/physics"
)

// Driver owns a state and its integrator and runs the dump cycles of a
// simulation: emit a snapshot, then advance DumpInterval steps.
//
// The state passed to New belongs to the driver from then on; it is
// mutated in place.
type Driver struct {
	state   *dynamo.State
	law     dynamo.ForceLaw
	pot     dynamo.Potential
	integ   dynamo.Integrator
	sink    dynamo.Sink
	metrics []Metric
	logger  *log.Logger

	tick   int
	cycle  int
	steps  int
	failed error
}

func New(state *dynamo.State, law dynamo.ForceLaw, sink dynamo.Sink, opts ...Option) (*Driver, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}
	pot, ok := law.(dynamo.Potential)
	if !ok {
		return nil, dynamo.ErrNoPotential
	}

	d := &Driver{
		state:   state,
		law:     law,
		pot:     pot,
		sink:    sink,
		metrics: make([]Metric, 0),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.integ == nil {
		d.integ = integrators.NewVerlet(law)
	}
	if d.logger == nil {
		d.logger = log.New(io.Discard)
	}
	return d, nil
}

func (d *Driver) State() *dynamo.State { return d.state }

// Tick is the logical time: the number of snapshots emitted so far.
func (d *Driver) Tick() int { return d.tick }

func (d *Driver) Cycles() int { return d.state.Cycles() }

func (d *Driver) Done() bool { return d.failed != nil || d.cycle >= d.state.Cycles() }

// Cycle performs one dump cycle. It is a no-op once every cycle has run and
// keeps returning the original error after an abort.
func (d *Driver) Cycle() error {
	if d.failed != nil {
		return d.failed
	}
	if d.cycle >= d.state.Cycles() {
		return nil
	}

	s := d.state

	// The first cycle primes the cache, which doubles as the initial force
	// evaluation the first snapshot's accelerations come from.
	if err := d.integ.Prime(s); err != nil {
		return d.abort(err)
	}
	if err := d.integ.Accelerations(s.Masses, s.Accelerations); err != nil {
		return d.abort(err)
	}

	energy := physics.Energies(d.pot, s)
	energy.Tick = d.tick

	if err := d.sink.WriteSystem(dynamo.SystemRecord{
		Tick:          d.tick,
		Positions:     s.Positions,
		Velocities:    s.Velocities,
		Accelerations: s.Accelerations,
	}); err != nil {
		return d.abort(err)
	}
	if err := d.sink.WriteEnergy(energy); err != nil {
		return d.abort(err)
	}
	for _, m := range d.metrics {
		m.Observe(s, energy)
	}
	d.tick++

	for j := 0; j < s.DumpInterval; j++ {
		if err := d.integ.Step(s); err != nil {
			return d.abort(err)
		}
		d.steps++
	}
	d.cycle++

	d.logger.Debug("cycle", "n", d.cycle, "tick", d.tick, "energy", energy.Total)
	return nil
}

func (d *Driver) abort(err error) error {
	d.integ.Release()
	d.failed = &dynamo.SimulationError{Cycle: d.cycle, Tick: d.tick, Wrapped: err}
	d.logger.Error("run aborted", "cycle", d.cycle, "tick", d.tick, "err", err)
	return d.failed
}

// Run executes every remaining dump cycle. TotalSteps/DumpInterval is
// truncated: steps that do not fill a whole cycle are never executed.
func (d *Driver) Run() (*Result, error) {
	if d.failed != nil {
		return d.result(), d.failed
	}
	s := d.state
	if d.cycle == 0 {
		for _, m := range d.metrics {
			m.Reset()
		}
	}
	if skipped := s.SkippedSteps(); skipped > 0 {
		d.logger.Warn("trailing steps will not be executed",
			"skipped", skipped, "total_steps", s.TotalSteps, "dump_interval", s.DumpInterval)
	}
	d.logger.Info("starting run", "bodies", s.Bodies, "cycles", s.Cycles(), "dt", s.Dt)

	for !d.Done() {
		if err := d.Cycle(); err != nil {
			return d.result(), err
		}
	}
	d.integ.Release()

	res := d.result()
	d.logger.Info("run complete", "snapshots", d.tick, "steps", d.steps, "energy", res.FinalEnergy.Total)
	return res, nil
}

func (d *Driver) result() *Result {
	final := physics.Energies(d.pot, d.state)
	final.Tick = d.tick

	res := &Result{
		Cycles:       d.cycle,
		StepsTaken:   d.steps,
		SkippedSteps: d.state.SkippedSteps(),
		FinalEnergy:  final,
		Metrics:      make(map[string]float64, len(d.metrics)),
	}
	for _, m := range d.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res
}

// Close releases the force cache.
func (d *Driver) Close() {
	d.integ.Release()
}
