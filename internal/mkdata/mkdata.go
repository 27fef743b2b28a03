// Package mkdata generates a self-consistent synthetic data directory:
// coefficient tables for the halo and the LMC, centre tracks for both,
// and the model.yaml tying them together. The LMC track comes from
// rewinding its present-day phase-space coordinates through the static
// halo and disc; the halo track is the linear reflex to that infall.
package mkdata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sophialilleengen/mwlmc/internal/coefs"
	"github.com/sophialilleengen/mwlmc/internal/config"
	"github.com/sophialilleengen/mwlmc/internal/field"
	"github.com/sophialilleengen/mwlmc/internal/integrators"
	"github.com/sophialilleengen/mwlmc/internal/orient"
	"github.com/sophialilleengen/mwlmc/internal/phase"
	"github.com/sophialilleengen/mwlmc/internal/units"
)

var ErrBadParams = errors.New("mkdata: invalid generation parameters")

// Params controls dataset generation. The LMC coordinates are its
// present-day values in physical units.
type Params struct {
	Snapshots int
	TBegin    float64 // earliest virial time covered by the tables
	HaloMass  float64 // virial
	LMCMass   float64 // virial
	LMCPos    r3.Vec  // kpc
	LMCVel    r3.Vec  // km/s
}

func DefaultParams() Params {
	return Params{
		Snapshots: 49,
		TBegin:    -3.0,
		HaloMass:  1.0,
		LMCMass:   0.1,
		LMCPos:    r3.Vec{X: -0.57, Y: -41.3, Z: -27.1},
		LMCVel:    r3.Vec{X: -63, Y: -213, Z: 207},
	}
}

// haloResponse is the fraction of the rigid two-body reflex the halo
// centre picks up relative to the disc frame. The inner halo co-moves
// with the disc, so the apparent slosh stays well below m_lmc/m_halo.
const haloResponse = 0.05

func (p Params) validate() error {
	if p.Snapshots < 2 {
		return fmt.Errorf("%w: need at least 2 snapshots, got %d", ErrBadParams, p.Snapshots)
	}
	if p.TBegin >= 0 {
		return fmt.Errorf("%w: tbegin %g must lie in the past", ErrBadParams, p.TBegin)
	}
	if p.HaloMass <= 0 || p.LMCMass <= 0 {
		return fmt.Errorf("%w: component masses must be positive", ErrBadParams)
	}
	return nil
}

// Generate writes a complete data directory, overwriting existing
// files.
func Generate(dataDir string, p Params, log zerolog.Logger) error {
	if err := p.validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("mkdata: %w", err)
	}

	cfg := config.DefaultConfig()

	times := make([]float64, p.Snapshots)
	floats.Span(times, p.TBegin, 0)

	haloTab := monopoleTable(times, p.HaloMass)
	lmcTab := monopoleTable(times, p.LMCMass)

	track := rewindLMC(cfg, haloTab, p, times)

	// Halo slosh relative to the disc frame: a damped linear response
	// to the LMC displacement, anchored so the halo sits at the origin
	// today. Coordinates are disc-centric, which is why the present-day
	// centre vanishes instead of carrying the full barycentric reflex.
	today := track[len(track)-1]
	gain := -haloResponse * p.LMCMass / p.HaloMass
	reflex := make([]orient.Sample, len(track))
	for i, s := range track {
		reflex[i] = orient.Sample{
			T:   s.T,
			Pos: r3.Scale(gain, r3.Sub(s.Pos, today.Pos)),
			Vel: r3.Scale(gain, r3.Sub(s.Vel, today.Vel)),
		}
	}

	artifacts := []struct {
		name  string
		write func(string) error
	}{
		{cfg.Halo.Coefficients, haloTab.Save},
		{cfg.LMC.Coefficients, lmcTab.Save},
		{cfg.LMC.Centres, func(path string) error { return orient.Save(path, track) }},
		{cfg.Halo.Centres, func(path string) error { return orient.Save(path, reflex) }},
		{config.ModelFile, func(path string) error { return config.Save(path, cfg) }},
	}

	for _, a := range artifacts {
		path := filepath.Join(dataDir, a.name)
		if err := a.write(path); err != nil {
			return fmt.Errorf("mkdata: %w", err)
		}
		log.Debug().Str("path", path).Msg("wrote artifact")
	}

	log.Info().
		Str("dir", dataDir).
		Int("snapshots", p.Snapshots).
		Float64("tbegin", p.TBegin).
		Msg("dataset generated")

	return nil
}

func monopoleTable(times []float64, mass float64) *coefs.Table {
	tab := coefs.New(0, 1, times)
	for tt := 0; tt < tab.Len(); tt++ {
		tab.SetCoef(tt, 0, 0, mass)
	}
	return tab
}

// trackSystem integrates a test particle through fixed evaluators.
type trackSystem struct {
	comps []field.Evaluator
}

func (s trackSystem) Dim() int { return 6 }

func (s trackSystem) Derive(x phase.State, t float64) phase.State {
	pos := x.Pos()
	var acc r3.Vec
	for _, c := range s.comps {
		acc = r3.Add(acc, c.Sample(t, pos).Force)
	}
	return phase.State{x[3], x[4], x[5], acc.X, acc.Y, acc.Z}
}

// rewindLMC integrates the LMC backward from today through the static
// halo and disc, sampling its state at every snapshot time.
func rewindLMC(cfg *config.Config, haloTab *coefs.Table, p Params, times []float64) []orient.Sample {
	sc := units.Scaling{Rvir: cfg.Rvir, Mvir: cfg.Mvir}

	halo := field.NewSphExpansion(cfg.Halo.Scale, haloTab, orient.Inertial())
	disc := field.NewMiyamotoNagai(cfg.Disc.Mass, cfg.Disc.A, cfg.Disc.B, orient.Inertial())
	sys := trackSystem{comps: []field.Evaluator{halo, disc}}

	x := phase.NewState(sc.PositionToVirial(p.LMCPos), sc.VelocityVecToVirial(p.LMCVel))

	const substeps = 25
	snapDt := -p.TBegin / float64(len(times)-1)
	dt := -snapDt / substeps

	integ := integrators.NewLeapfrog()

	samples := make([]orient.Sample, len(times))
	samples[len(times)-1] = orient.Sample{T: 0, Pos: x.Pos(), Vel: x.Vel()}

	step := 0
	for si := len(times) - 2; si >= 0; si-- {
		for k := 0; k < substeps; k++ {
			t := float64(step) * dt
			x = integ.Step(sys, x, t, dt)
			step++
		}
		samples[si] = orient.Sample{T: times[si], Pos: x.Pos(), Vel: x.Vel()}
	}

	return samples
}
