package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
)

// LyapunovExponent estimates the largest Lyapunov exponent of s by
// integrating it alongside a copy whose first coordinate is displaced by
// perturbation. After every step the separation in phase space is measured
// and the copy pulled back to distance perturbation along the same
// direction; the exponent is the mean log growth rate.
//
// s itself is not modified.
func LyapunovExponent(s *dynamo.State, law dynamo.ForceLaw, perturbation float64, steps int) (float64, error) {
	if !(perturbation > 0) || steps <= 0 {
		return 0, dynamo.ErrParameterBounds
	}

	x := s.Clone()
	xp := s.Clone()
	xp.Positions[0] += perturbation

	a := integrators.NewVerlet(law)
	b := integrators.NewVerlet(law)
	defer a.Release()
	defer b.Release()

	sumLog := 0.0
	for i := 0; i < steps; i++ {
		if err := a.Step(x); err != nil {
			return 0, err
		}
		if err := b.Step(xp); err != nil {
			return 0, err
		}

		sep := separation(x, xp)
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			return 0, errors.New("analysis: trajectories collapsed or diverged")
		}
		sumLog += math.Log(sep / perturbation)

		// Rescaled positions invalidate the cached force of xp.
		scale := perturbation / sep
		rescale(xp.Positions, x.Positions, scale)
		rescale(xp.Velocities, x.Velocities, scale)
		b.Release()
	}

	return sumLog / (float64(steps) * s.Dt), nil
}

func separation(x, xp *dynamo.State) float64 {
	sum := 0.0
	for i := range x.Positions {
		dp := xp.Positions[i] - x.Positions[i]
		dv := xp.Velocities[i] - x.Velocities[i]
		sum += dp*dp + dv*dv
	}
	return math.Sqrt(sum)
}

func rescale(dst, ref []float64, scale float64) {
	for i := range dst {
		dst[i] = ref[i] + (dst[i]-ref[i])*scale
	}
}
