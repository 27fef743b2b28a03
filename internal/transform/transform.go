// Package transform converts between cartesian, cylindrical and spherical
// coordinates and rotates field gradients between those frames. The tiny
// epsilon offsets keep the transforms finite on the coordinate axes, where
// atan2 and the radial divisions are otherwise ill-conditioned.
package transform

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	eps  = 1e-12 // floor for radii appearing in denominators
	reps = 1e-10 // radius below which the polar angle degenerates
)

// CartesianToSpherical returns (r, phi, theta) with theta measured from the
// +z axis. The radius is floored at eps; at vanishing radius theta snaps to
// the pole matching the sign of z.
func CartesianToSpherical(v r3.Vec) (r, phi, theta float64) {
	r = math.Max(r3.Norm(v), eps)
	phi = math.Atan2(v.Y+eps, v.X+eps)

	if r < reps {
		if v.Z < 0 {
			theta = -math.Pi / 2
		} else {
			theta = math.Pi / 2
		}
	} else {
		theta = math.Acos(v.Z / r)
	}
	return r, phi, theta
}

// SphericalToCartesian is the inverse of CartesianToSpherical away from the
// guarded edge cases.
func SphericalToCartesian(r, phi, theta float64) r3.Vec {
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(phi)
	return r3.Vec{
		X: r * st * cp,
		Y: r * st * sp,
		Z: r * ct,
	}
}

// SphericalGradToCartesianForce rotates the spherical gradient of a potential
// into a cartesian force vector. dr is the radial derivative and dcostheta
// the derivative with respect to cos(theta). dphi follows the expansion's
// accumulator convention, the negative of the true azimuthal derivative;
// axisymmetric fields pass zero. The negation from gradient to force happens
// here. Non-finite radial input yields a zero force.
func SphericalGradToCartesianForce(r, phi, theta, dr, dphi, dcostheta float64) r3.Vec {
	rr := math.Max(r, eps)
	v := SphericalToCartesian(rr, phi, theta)
	r2 := math.Max(math.Sqrt(v.X*v.X+v.Y*v.Y+eps), eps)

	if math.IsNaN(dr) {
		return r3.Vec{}
	}

	r3cube := rr * rr * rr
	return r3.Vec{
		X: -((dr*(v.X/rr) - dcostheta*(v.X*v.Z/r3cube)) + dphi*(v.Y/(r2*r2))),
		Y: -((dr*(v.Y/rr) - dcostheta*(v.Y*v.Z/r3cube)) - dphi*(v.X/(r2*r2))),
		Z: -(dr*(v.Z/rr) + dcostheta*((r2*r2)/r3cube)),
	}
}

// CartesianToCylindrical returns the in-plane radius and azimuth.
func CartesianToCylindrical(x, y float64) (r, phi float64) {
	return math.Sqrt(x*x + y*y), math.Atan2(y, x)
}

// CylindricalToCartesian maps (r, phi) back onto the plane.
func CylindricalToCartesian(r, phi float64) (x, y float64) {
	s, c := math.Sincos(phi)
	return r * c, r * s
}

// CylindricalForcesToCartesian rotates in-plane force components (fr, fp)
// into (fx, fy). Unlike the spherical rotation the inputs here are already
// forces, not gradients. Non-finite inputs yield zeros.
func CylindricalForcesToCartesian(r, phi, fr, fp float64) (fx, fy float64) {
	x, y := CylindricalToCartesian(r, phi)

	if math.IsNaN(fr) || math.IsNaN(fp) {
		return 0, 0
	}
	fx = (x*fr - y*fp) / r
	fy = (y*fr + x*fp) / r
	return fx, fy
}
