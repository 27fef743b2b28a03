package model

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sophialilleengen/mwlmc/internal/field"
	"github.com/sophialilleengen/mwlmc/internal/phase"
)

// particleSystem exposes the summed component force field as a
// phase-space system in virial units.
type particleSystem struct {
	comps []field.Evaluator
}

func (p *particleSystem) Dim() int { return 6 }

func (p *particleSystem) Derive(x phase.State, t float64) phase.State {
	pos := x.Pos()
	var acc r3.Vec
	for _, c := range p.comps {
		acc = r3.Add(acc, c.Sample(t, pos).Force)
	}
	return phase.State{x[3], x[4], x[5], acc.X, acc.Y, acc.Z}
}

// Energy returns the specific energy v^2/2 + phi at virial time t.
func (p *particleSystem) Energy(x phase.State) float64 {
	return p.EnergyAt(x, 0)
}

func (p *particleSystem) EnergyAt(x phase.State, t float64) float64 {
	pos, vel := x.Pos(), x.Vel()
	pot := 0.0
	for _, c := range p.comps {
		pot += c.Sample(t, pos).Potential
	}
	return 0.5*r3.Dot(vel, vel) + pot
}

// System returns the model's phase-space system in virial units, for
// callers that drive their own integration loop.
func (m *MWLMC) System() phase.System {
	return &particleSystem{comps: m.evaluators()}
}

func (m *MWLMC) evaluators() []field.Evaluator {
	evs := make([]field.Evaluator, 0, len(field.Components))
	for _, comp := range field.Components {
		evs = append(evs, m.comps[comp])
	}
	return evs
}
