package experiment

import (
	"math"
	"sort"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Point is the outcome of one run of a sweep.
type Point struct {
	Dt            float64
	Steps         int
	EnergyDrift   float64
	MomentumDrift float64
}

// Sweep runs base once per step size in dts, each over the same duration
// and number of snapshots. Points are returned in decreasing dt order.
func Sweep(base *dynamo.State, duration float64, samples int, dts []float64, logger *log.Logger) ([]Point, error) {
	sorted := append([]float64(nil), dts...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	points := make([]Point, 0, len(sorted))
	for _, dt := range sorted {
		exp := New(base, Config{Dt: dt, Duration: duration, Samples: samples}, logger)
		res, err := exp.Run()
		if err != nil {
			return points, err
		}
		p := Point{
			Dt:            dt,
			Steps:         res.StepsTaken,
			EnergyDrift:   res.Metrics["energy_drift"],
			MomentumDrift: res.Metrics["momentum_drift"],
		}
		if logger != nil {
			logger.Debug("sweep point", "dt", dt, "steps", p.Steps, "energy_drift", p.EnergyDrift)
		}
		points = append(points, p)
	}
	return points, nil
}

// ConvergenceOrder fits log(drift) = a + k log(dt) by least squares and
// returns k. Points with zero drift are skipped.
func ConvergenceOrder(points []Point) (float64, error) {
	var xs, ys []float64
	for _, p := range points {
		if p.EnergyDrift > 0 && p.Dt > 0 {
			xs = append(xs, math.Log(p.Dt))
			ys = append(ys, math.Log(p.EnergyDrift))
		}
	}
	if len(xs) < 2 {
		return 0, ErrTooFewPoints
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return slope, nil
}
