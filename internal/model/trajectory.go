package model

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Trajectory is an integrated test-particle orbit in physical units:
// times in Gyr, positions in kpc, velocities in km/s. The seven column
// slices always have equal length.
type Trajectory struct {
	T []float64
	X []float64
	Y []float64
	Z []float64
	U []float64
	V []float64
	W []float64
}

func newTrajectory(capacity int) *Trajectory {
	return &Trajectory{
		T: make([]float64, 0, capacity),
		X: make([]float64, 0, capacity),
		Y: make([]float64, 0, capacity),
		Z: make([]float64, 0, capacity),
		U: make([]float64, 0, capacity),
		V: make([]float64, 0, capacity),
		W: make([]float64, 0, capacity),
	}
}

func (tr *Trajectory) append(t float64, pos, vel r3.Vec) {
	tr.T = append(tr.T, t)
	tr.X = append(tr.X, pos.X)
	tr.Y = append(tr.Y, pos.Y)
	tr.Z = append(tr.Z, pos.Z)
	tr.U = append(tr.U, vel.X)
	tr.V = append(tr.V, vel.Y)
	tr.W = append(tr.W, vel.Z)
}

func (tr *Trajectory) Len() int { return len(tr.T) }

// Axis returns one phase-space column: 0..2 are x, y, z and 3..5 are
// u, v, w. Unknown axes return nil.
func (tr *Trajectory) Axis(i int) []float64 {
	switch i {
	case 0:
		return tr.X
	case 1:
		return tr.Y
	case 2:
		return tr.Z
	case 3:
		return tr.U
	case 4:
		return tr.V
	case 5:
		return tr.W
	default:
		return nil
	}
}

// At returns sample i.
func (tr *Trajectory) At(i int) (t float64, pos, vel r3.Vec) {
	return tr.T[i],
		r3.Vec{X: tr.X[i], Y: tr.Y[i], Z: tr.Z[i]},
		r3.Vec{X: tr.U[i], Y: tr.V[i], Z: tr.W[i]}
}

// Radius returns the galactocentric distance at every sample.
func (tr *Trajectory) Radius() []float64 {
	out := make([]float64, tr.Len())
	for i := range out {
		out[i] = math.Sqrt(tr.X[i]*tr.X[i] + tr.Y[i]*tr.Y[i] + tr.Z[i]*tr.Z[i])
	}
	return out
}

// WriteTo prints the orbit as whitespace-separated t x y z u v w rows.
func (tr *Trajectory) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i := range tr.T {
		n, err := fmt.Fprintf(w, "%g %g %g %g %g %g %g\n",
			tr.T[i], tr.X[i], tr.Y[i], tr.Z[i], tr.U[i], tr.V[i], tr.W[i])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
