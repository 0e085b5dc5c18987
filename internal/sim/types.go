package sim

import (
	"github.com/charmbracelet/log"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/metrics"
)

// Metric accumulates a diagnostic over the snapshots of a run.
type Metric = metrics.Metric

type Option func(*Driver)

// WithIntegrator replaces the default cached-force Verlet integrator.
func WithIntegrator(integ dynamo.Integrator) Option {
	return func(d *Driver) { d.integ = integ }
}

func WithLogger(l *log.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

func WithMetrics(metrics ...Metric) Option {
	return func(d *Driver) { d.metrics = append(d.metrics, metrics...) }
}

type Result struct {
	Cycles       int
	StepsTaken   int
	SkippedSteps int
	FinalEnergy  dynamo.EnergyRecord
	Metrics      map[string]float64
}
