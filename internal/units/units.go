package units

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Astrophysical constants in the kpc, km/s, Msun system.
const (
	// G is the gravitational constant in kpc (km/s)^2 / Msun.
	G = 4.30091e-6

	// KpcKmsToGyr converts one kpc/(km/s) into Gyr.
	KpcKmsToGyr = 0.9777922216731284
)

// Scaling maps model-native virial units onto physical units. In virial
// units the virial mass, the virial radius and G are all unity, so the
// velocity and time units follow from Rvir and Mvir alone.
type Scaling struct {
	Rvir float64 // virial radius in kpc
	Mvir float64 // virial mass in Msun
}

// MilkyWay is the scaling the shipped model data is calibrated to.
func MilkyWay() Scaling {
	return Scaling{Rvir: 282.0, Mvir: 1.57e12}
}

// Velocity returns the virial velocity unit in km/s.
func (s Scaling) Velocity() float64 {
	return math.Sqrt(G * s.Mvir / s.Rvir)
}

// Time returns the virial time unit in Gyr.
func (s Scaling) Time() float64 {
	return s.Rvir / s.Velocity() * KpcKmsToGyr
}

func (s Scaling) LengthToVirial(kpc float64) float64    { return kpc / s.Rvir }
func (s Scaling) LengthToPhysical(x float64) float64    { return x * s.Rvir }
func (s Scaling) VelocityToVirial(kms float64) float64  { return kms / s.Velocity() }
func (s Scaling) VelocityToPhysical(v float64) float64  { return v * s.Velocity() }
func (s Scaling) TimeToVirial(gyr float64) float64      { return gyr / s.Time() }
func (s Scaling) TimeToPhysical(t float64) float64      { return t * s.Time() }

// ForceToPhysical converts a virial acceleration into (km/s)^2 / kpc.
func (s Scaling) ForceToPhysical(f float64) float64 {
	v := s.Velocity()
	return f * v * v / s.Rvir
}

// DensityToPhysical converts a virial density into Msun / kpc^3.
func (s Scaling) DensityToPhysical(d float64) float64 {
	return d * s.Mvir / (s.Rvir * s.Rvir * s.Rvir)
}

// PotentialToPhysical converts a virial potential into (km/s)^2.
func (s Scaling) PotentialToPhysical(p float64) float64 {
	v := s.Velocity()
	return p * v * v
}

// Vector conversions for positions, velocities and forces.

func (s Scaling) PositionToVirial(p r3.Vec) r3.Vec   { return r3.Scale(1/s.Rvir, p) }
func (s Scaling) PositionToPhysical(p r3.Vec) r3.Vec { return r3.Scale(s.Rvir, p) }

func (s Scaling) VelocityVecToVirial(v r3.Vec) r3.Vec   { return r3.Scale(1/s.Velocity(), v) }
func (s Scaling) VelocityVecToPhysical(v r3.Vec) r3.Vec { return r3.Scale(s.Velocity(), v) }

func (s Scaling) ForceVecToPhysical(f r3.Vec) r3.Vec {
	v := s.Velocity()
	return r3.Scale(v*v/s.Rvir, f)
}
