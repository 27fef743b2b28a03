// Package phase holds the phase-space state of a test particle and the
// interfaces the orbit integrators step over.
package phase

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// State is a flat phase-space vector, positions first, velocities second.
type State []float64

// NewState packs a position/velocity pair into a six-dimensional state.
func NewState(pos, vel r3.Vec) State {
	return State{pos.X, pos.Y, pos.Z, vel.X, vel.Y, vel.Z}
}

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every element is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Pos returns the position half of a six-dimensional state.
func (s State) Pos() r3.Vec {
	return r3.Vec{X: s[0], Y: s[1], Z: s[2]}
}

// Vel returns the velocity half of a six-dimensional state.
func (s State) Vel() r3.Vec {
	return r3.Vec{X: s[3], Y: s[4], Z: s[5]}
}

// System yields phase-space derivatives for an orbiting body.
type System interface {
	Derive(x State, t float64) State
	Dim() int
}

// Integrator advances one state by one timestep.
type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}
