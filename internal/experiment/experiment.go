// Package experiment runs families of simulations that differ in one
// numerical parameter and compares their conservation diagnostics.
package experiment

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

// Config describes one experiment: the initial state is integrated with
// step Dt over Duration time units, emitting a snapshot every Samples-th
// of the run.
type Config struct {
	Dt       float64
	Duration float64
	Samples  int
}

type Experiment struct {
	cfg    Config
	base   *dynamo.State
	logger *log.Logger
}

func New(base *dynamo.State, cfg Config, logger *log.Logger) *Experiment {
	return &Experiment{cfg: cfg, base: base, logger: logger}
}

// State returns a copy of the base state with the experiment's step and
// run length. TotalSteps is rounded down to a whole number of snapshots.
func (e *Experiment) State() (*dynamo.State, error) {
	if !(e.cfg.Dt > 0) || !(e.cfg.Duration > 0) || e.cfg.Samples <= 0 {
		return nil, fmt.Errorf("%w: experiment %+v", dynamo.ErrParameterBounds, e.cfg)
	}
	steps := int(math.Round(e.cfg.Duration / e.cfg.Dt))
	interval := steps / e.cfg.Samples
	if interval == 0 {
		return nil, fmt.Errorf("%w: %d steps for %d samples", dynamo.ErrParameterBounds, steps, e.cfg.Samples)
	}

	s := e.base.Clone()
	s.Dt = e.cfg.Dt
	s.DumpInterval = interval
	s.TotalSteps = interval * e.cfg.Samples
	return s, s.Validate()
}

func (e *Experiment) Run() (*sim.Result, error) {
	s, err := e.State()
	if err != nil {
		return nil, err
	}
	opts := []sim.Option{sim.WithMetrics(metrics.Default()...)}
	if e.logger != nil {
		opts = append(opts, sim.WithLogger(e.logger))
	}
	drv, err := sim.New(s, physics.NewGravity(s.G), discard{}, opts...)
	if err != nil {
		return nil, err
	}
	defer drv.Close()
	return drv.Run()
}

type discard struct{}

func (discard) WriteSystem(dynamo.SystemRecord) error { return nil }
func (discard) WriteEnergy(dynamo.EnergyRecord) error { return nil }

var ErrTooFewPoints = errors.New("experiment: need at least two usable points")
