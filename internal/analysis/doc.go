// Package analysis characterizes integrated orbits.
//
// The package reads trajectories produced by the model and reduces
// them to the quantities an orbit modeller looks at first:
//
//   - [RadialExtremes]: pericentre and apocentre passages
//   - [DominantFrequency]: strongest spectral line of the radius series
//   - [EnergySeries]: specific orbital energy along a trajectory
//   - [LyapunovExponent]: chaos indicator via trajectory separation
//   - [Summarize]: one-call orbit summary
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates a chaotic orbit:
//
//	lambda := analysis.LyapunovExponent(m.System(), integ, x0, t0, dt, duration, 1e-8)
//	if lambda > 0 {
//	    // Orbit is chaotic
//	}
package analysis
