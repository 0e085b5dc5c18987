// Package analysis provides post-run analysis of simulated orbits.
//
//   - [PowerSpectrum]: one-sided power spectrum of a sampled signal
//   - [DominantPeriod]: period of the strongest spectral line
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//
// # Orbital Periods
//
// Sample one coordinate of a body once per snapshot and pass the time
// between snapshots:
//
//	x := analysis.Coordinate(traj, body, 0)
//	period, err := analysis.DominantPeriod(x, s.Dt*float64(s.DumpInterval))
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda, err := analysis.LyapunovExponent(s, law, 1e-8, 10000)
package analysis
