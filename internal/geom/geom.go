// Package geom holds the fixed-dimension vector kernels used by the force
// and energy models. All arithmetic is float64; the slices are truncated to
// the declared dimension and must be at least that long.
package geom

import "gonum.org/v1/gonum/floats"

// Difference stores a-b in dst.
func Difference(dst, a, b []float64, dim int) {
	floats.SubTo(dst[:dim], a[:dim], b[:dim])
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b []float64, dim int) float64 {
	return floats.Distance(a[:dim], b[:dim], 2)
}

// Dot returns the scalar product of a and b.
func Dot(a, b []float64, dim int) float64 {
	return floats.Dot(a[:dim], b[:dim])
}
