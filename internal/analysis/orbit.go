package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sophialilleengen/mwlmc/internal/field"
	"github.com/sophialilleengen/mwlmc/internal/model"
)

var (
	// ErrTooShort indicates a series with too few samples to analyze.
	ErrTooShort = errors.New("analysis: series too short")

	// ErrBadStep indicates a non-positive sample spacing.
	ErrBadStep = errors.New("analysis: sample spacing must be positive")
)

// Extremes holds the sample indices of radial turning points.
type Extremes struct {
	Peri []int
	Apo  []int
}

// RadialExtremes scans a radius series for local minima (pericentres)
// and maxima (apocentres). A turning point must clear both neighbours
// by a relative noise floor, so rounding jitter on a constant-radius
// orbit does not register as oscillation.
func RadialExtremes(r []float64) Extremes {
	var ex Extremes
	if len(r) < 3 {
		return ex
	}
	tol := 1e-12 * math.Max(math.Abs(floats.Max(r)), math.Abs(floats.Min(r)))
	for i := 1; i < len(r)-1; i++ {
		switch {
		case r[i] < r[i-1]-tol && r[i] < r[i+1]-tol:
			ex.Peri = append(ex.Peri, i)
		case r[i] > r[i-1]+tol && r[i] > r[i+1]+tol:
			ex.Apo = append(ex.Apo, i)
		}
	}
	return ex
}

// DominantFrequency returns the frequency of the strongest spectral
// line of a uniformly sampled series, in cycles per unit of dt. The
// mean is removed first so the zero-frequency bin never wins.
func DominantFrequency(series []float64, dt float64) (float64, error) {
	n := len(series)
	if n < 8 {
		return 0, ErrTooShort
	}
	if dt <= 0 {
		return 0, ErrBadStep
	}

	mean := floats.Sum(series) / float64(n)
	demeaned := make([]float64, n)
	for i, v := range series {
		demeaned[i] = v - mean
	}

	spectrum := fft.FFTReal(demeaned)

	best, bestPower := 0, 0.0
	for k := 1; k <= n/2; k++ {
		if p := cmplx.Abs(spectrum[k]); p > bestPower {
			best, bestPower = k, p
		}
	}
	if best == 0 {
		return 0, nil
	}

	return float64(best) / (float64(n) * dt), nil
}

// FieldSource answers summed field queries in physical units. The
// model handle satisfies it.
type FieldSource interface {
	AllFields(t float64, pos r3.Vec) (field.Sample, error)
}

// EnergySeries returns the specific orbital energy v^2/2 + phi at
// every trajectory sample, in (km/s)^2.
func EnergySeries(src FieldSource, tr *model.Trajectory) ([]float64, error) {
	out := make([]float64, tr.Len())
	for i := range out {
		t, pos, vel := tr.At(i)
		s, err := src.AllFields(t, pos)
		if err != nil {
			return nil, err
		}
		out[i] = 0.5*r3.Dot(vel, vel) + s.Potential
	}
	return out, nil
}

// Summary condenses one orbit.
type Summary struct {
	RMin        float64 // kpc
	RMax        float64 // kpc
	Pericentres int
	Apocentres  int
	RadialFreq  float64 // cycles per Gyr, 0 when undetermined
	EnergyDrift float64 // relative to the first sample
}

// Summarize computes the orbit summary for a trajectory against the
// field source it was integrated in.
func Summarize(src FieldSource, tr *model.Trajectory) (Summary, error) {
	if tr == nil || tr.Len() < 2 {
		return Summary{}, ErrTooShort
	}

	r := tr.Radius()
	ex := RadialExtremes(r)
	sum := Summary{
		RMin:        floats.Min(r),
		RMax:        floats.Max(r),
		Pericentres: len(ex.Peri),
		Apocentres:  len(ex.Apo),
	}

	// Rewound trajectories run newest first, so take the spacing as a
	// magnitude.
	dt := math.Abs(tr.T[1] - tr.T[0])
	if f, err := DominantFrequency(r, dt); err == nil {
		sum.RadialFreq = f
	}

	e, err := EnergySeries(src, tr)
	if err != nil {
		return Summary{}, err
	}
	sum.EnergyDrift = relativeDrift(e)

	return sum, nil
}

func relativeDrift(e []float64) float64 {
	if len(e) == 0 || e[0] == 0 {
		return 0
	}
	maxDev := 0.0
	for _, v := range e {
		maxDev = math.Max(maxDev, math.Abs(v-e[0]))
	}
	return maxDev / math.Abs(e[0])
}
