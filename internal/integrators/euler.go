package integrators

import "github.com/sophialilleengen/mwlmc/internal/phase"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys phase.System, x phase.State, t, dt float64) phase.State {
	dx := sys.Derive(x, t)
	result := make(phase.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
