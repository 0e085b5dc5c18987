package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/gravsim/internal/dynamo"
)

var ErrShortSignal = errors.New("analysis: signal too short")

// PowerSpectrum returns |X_k|^2 / N for k = 0..N/2 of the real signal x
// after removing its mean.
func PowerSpectrum(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	centred := make([]float64, n)
	for i, v := range x {
		centred[i] = v - mean
	}

	coeffs := fft.FFTReal(centred)
	ps := make([]float64, n/2+1)
	for k := range ps {
		a := cmplx.Abs(coeffs[k])
		ps[k] = a * a / float64(n)
	}
	return ps
}

// DominantPeriod returns the period of the strongest non-zero frequency of
// x, sampled every interval time units.
func DominantPeriod(x []float64, interval float64) (float64, error) {
	if len(x) < 4 {
		return 0, ErrShortSignal
	}
	ps := PowerSpectrum(x)

	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[best] || best == 0 {
			best = k
		}
	}
	if ps[best] == 0 {
		return 0, errors.New("analysis: signal is constant")
	}
	return float64(len(x)) * interval / float64(best), nil
}

// Coordinate extracts one position component of body over a trajectory.
func Coordinate(traj []dynamo.SystemRecord, body, axis int) []float64 {
	out := make([]float64, len(traj))
	for i, rec := range traj {
		out[i] = rec.Positions[body*dynamo.Dim+axis]
	}
	return out
}
