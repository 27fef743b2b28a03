package analysis

import (
	"math"

	"github.com/sophialilleengen/mwlmc/internal/phase"
)

// LyapunovExponent estimates the largest Lyapunov exponent of an orbit
// by the trajectory separation method. A positive value indicates
// chaos.
//
// Algorithm:
//  1. Run two nearby trajectories from t0
//  2. Renormalize their separation back to d0 after every step
//  3. lambda = mean of ln(separation growth) per unit time
func LyapunovExponent(
	sys phase.System,
	integ phase.Integrator,
	x0 phase.State,
	t0, dt, duration float64,
	perturbation float64,
) float64 {
	if len(x0) == 0 || perturbation <= 0 {
		return 0
	}
	xp := x0.Clone()
	xp[0] += perturbation
	return lyapunovForPerturbation(sys, integ, x0, xp, t0, dt, duration, perturbation)
}

// LyapunovSpectrum estimates one exponent per state dimension by
// perturbing each dimension independently.
func LyapunovSpectrum(
	sys phase.System,
	integ phase.Integrator,
	x0 phase.State,
	t0, dt, duration float64,
	perturbation float64,
) []float64 {
	spectrum := make([]float64, len(x0))
	for i := range x0 {
		xp := x0.Clone()
		xp[i] += perturbation
		spectrum[i] = lyapunovForPerturbation(sys, integ, x0, xp, t0, dt, duration, perturbation)
	}
	return spectrum
}

func lyapunovForPerturbation(
	sys phase.System,
	integ phase.Integrator,
	x0, x0p phase.State,
	t0, dt, duration, d0 float64,
) float64 {
	if dt <= 0 || duration <= 0 || d0 <= 0 {
		return 0
	}

	x := x0.Clone()
	xp := x0p.Clone()

	steps := int(duration / dt)
	sumLog := 0.0
	count := 0

	for i := 0; i < steps; i++ {
		t := t0 + float64(i)*dt
		x = integ.Step(sys, x, t, dt)
		xp = integ.Step(sys, xp, t, dt)

		sep := 0.0
		for j := range x {
			diff := xp[j] - x[j]
			sep += diff * diff
		}
		sep = math.Sqrt(sep)

		if sep <= 0 || !x.IsValid() || !xp.IsValid() {
			break
		}

		sumLog += math.Log(sep / d0)
		count++

		// Pull the companion back to distance d0 along the current
		// separation vector so the growth stays linearizable.
		scale := d0 / sep
		for j := range xp {
			xp[j] = x[j] + (xp[j]-x[j])*scale
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}
