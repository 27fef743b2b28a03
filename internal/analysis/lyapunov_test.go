package analysis

import (
	"math"
	"testing"

	"github.com/sophialilleengen/mwlmc/internal/integrators"
	"github.com/sophialilleengen/mwlmc/internal/phase"
)

// oscillator is a regular system: separations rotate but do not grow.
type oscillator struct{}

func (oscillator) Dim() int { return 2 }
func (oscillator) Derive(x phase.State, t float64) phase.State {
	return phase.State{x[1], -x[0]}
}

// saddle diverges along e^t, so its largest exponent is exactly 1.
type saddle struct{}

func (saddle) Dim() int { return 2 }
func (saddle) Derive(x phase.State, t float64) phase.State {
	return phase.State{x[1], x[0]}
}

func TestLyapunovRegular(t *testing.T) {
	lambda := LyapunovExponent(oscillator{}, integrators.NewRK4(),
		phase.State{1, 0}, 0, 0.01, 100, 1e-8)

	if math.Abs(lambda) > 1e-3 {
		t.Errorf("oscillator exponent = %v, want about 0", lambda)
	}
}

func TestLyapunovDiverging(t *testing.T) {
	lambda := LyapunovExponent(saddle{}, integrators.NewRK4(),
		phase.State{1, 0}, 0, 0.01, 20, 1e-8)

	if lambda < 0.9 || lambda > 1.05 {
		t.Errorf("saddle exponent = %v, want about 1", lambda)
	}
}

func TestLyapunovDegenerate(t *testing.T) {
	if l := LyapunovExponent(oscillator{}, integrators.NewRK4(), phase.State{}, 0, 0.01, 1, 1e-8); l != 0 {
		t.Errorf("empty state should give 0, got %v", l)
	}
	if l := LyapunovExponent(oscillator{}, integrators.NewRK4(), phase.State{1, 0}, 0, -0.01, 1, 1e-8); l != 0 {
		t.Errorf("negative dt should give 0, got %v", l)
	}
	if l := LyapunovExponent(oscillator{}, integrators.NewRK4(), phase.State{1, 0}, 0, 0.01, 1, 0); l != 0 {
		t.Errorf("zero perturbation should give 0, got %v", l)
	}
}

func TestLyapunovSpectrum(t *testing.T) {
	spectrum := LyapunovSpectrum(saddle{}, integrators.NewRK4(),
		phase.State{1, 0}, 0, 0.01, 20, 1e-8)

	if len(spectrum) != 2 {
		t.Fatalf("expected 2 exponents, got %d", len(spectrum))
	}
	for i, l := range spectrum {
		if l < 0.8 || l > 1.1 {
			t.Errorf("exponent %d = %v, want about 1", i, l)
		}
	}
}
