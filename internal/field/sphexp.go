package field

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sophialilleengen/mwlmc/internal/basis"
	"github.com/sophialilleengen/mwlmc/internal/coefs"
	"github.com/sophialilleengen/mwlmc/internal/orient"
	"github.com/sophialilleengen/mwlmc/internal/transform"
)

// SphExpansion evaluates a basis-function expansion about a moving centre.
// The coefficient table supplies the time dependence, the centre table the
// motion of the expansion frame.
type SphExpansion struct {
	basis   basis.CluttonBrock
	coefs   *coefs.Table
	centres *orient.Centres
}

// NewSphExpansion builds an expansion whose basis dimensions follow the
// coefficient table.
func NewSphExpansion(scale float64, tab *coefs.Table, cen *orient.Centres) *SphExpansion {
	return &SphExpansion{
		basis:   basis.NewCluttonBrock(scale, tab.LMax, tab.NMax),
		coefs:   tab,
		centres: cen,
	}
}

// Centre returns the expansion centre at time t.
func (e *SphExpansion) Centre(t float64) r3.Vec {
	return e.centres.At(t)
}

// Centres exposes the full centre track.
func (e *SphExpansion) Centres() *orient.Centres {
	return e.centres
}

// Span returns the time range covered by the coefficient table.
func (e *SphExpansion) Span() (tmin, tmax float64) {
	return e.coefs.Span()
}

// Sample evaluates the expansion at time t and position pos. The position
// is shifted into the expansion frame, the coefficients are interpolated to
// t, and the (l, m, n) sums accumulate the potential, its gradient and the
// density before the gradient rotates back to a cartesian force.
func (e *SphExpansion) Sample(t float64, pos r3.Vec) Sample {
	rel := r3.Sub(pos, e.centres.At(t))
	r, phi, theta := transform.CartesianToSpherical(rel)
	cosTheta := math.Cos(theta)

	lmax, nmax := e.coefs.LMax, e.coefs.NMax
	c := e.coefs.Interpolate(t)

	pot := basis.Grids(lmax, nmax)
	dpot := basis.Grids(lmax, nmax)
	dens := basis.Grids(lmax, nmax)
	e.basis.Eval(r, pot, dpot, dens)

	plm := basis.Grids(lmax, lmax+1)
	dplm := basis.Grids(lmax, lmax+1)
	basis.AssocLegendre(lmax, cosTheta, plm)
	basis.AssocLegendreDeriv(lmax, cosTheta, plm, dplm)

	var potSum, densSum, dr, dphi, dcos float64

	// Coefficient rows per l: m=0, then cos/sin pairs for m=1..l.
	for l := 0; l <= lmax; l++ {
		base := l * l

		radial := func(row int, ang, dang, fpTerm float64) {
			for n := 0; n < nmax; n++ {
				cf := c[row*nmax+n]
				if cf == 0 {
					continue
				}
				potSum += cf * pot[l][n] * ang
				dr += cf * dpot[l][n] * ang
				dcos += cf * pot[l][n] * dang
				dphi += cf * pot[l][n] * fpTerm
				densSum += cf * dens[l][n] * ang
			}
		}

		radial(base, plm[l][0], dplm[l][0], 0)

		for m := 1; m <= l; m++ {
			fm := float64(m)
			sinM, cosM := math.Sincos(fm * phi)

			// The dphi accumulator carries the negated azimuthal
			// derivative, matching the force rotation's convention.
			radial(base+2*m-1, plm[l][m]*cosM, dplm[l][m]*cosM, fm*plm[l][m]*sinM)
			radial(base+2*m, plm[l][m]*sinM, dplm[l][m]*sinM, -fm*plm[l][m]*cosM)
		}
	}

	return Sample{
		Force:     transform.SphericalGradToCartesianForce(r, phi, theta, dr, dphi, dcos),
		Density:   densSum,
		Potential: potSum,
	}
}
