// Package basis evaluates the biorthogonal Clutton-Brock sphere basis used
// by the halo and LMC expansions, together with the associated Legendre
// machinery for the angular part.
//
// The radial basis pair, in scale-free coordinates x = r/scale with
// s^2 = 1/(1+x^2) and xi = (x^2-1)/(x^2+1), is
//
//	pot_nl(x)  = -x^l s^(2l+1) C_n(xi)
//	dens_nl(x) = K_nl/(4pi) x^l s^(2l+5) C_n(xi)
//	K_nl       = (2(n+l)+1)(2(n+l)+3)
//
// where C_n is the ultraspherical polynomial of order l+1. Each pair
// satisfies the Poisson equation for its multipole, so a monopole n=0
// expansion with coefficient M is exactly a Plummer sphere of mass M.
// Coefficients absorb all remaining normalization: the angular factors are
// unnormalized P_lm(cos theta) cos/sin(m phi).
package basis

import "math"

// Gegenbauer fills out with the ultraspherical polynomials
// C_0^alpha(xi) .. C_{len(out)-1}^alpha(xi) by upward recursion.
func Gegenbauer(alpha, xi float64, out []float64) {
	if len(out) == 0 {
		return
	}
	out[0] = 1
	if len(out) > 1 {
		out[1] = 2 * alpha * xi
	}
	for n := 2; n < len(out); n++ {
		nn := float64(n)
		out[n] = (2*(nn+alpha-1)*xi*out[n-1] - (nn+2*alpha-2)*out[n-2]) / nn
	}
}

// AssocLegendre fills p[l][m] with the unnormalized associated Legendre
// values P_lm(x) for 0 <= m <= l <= lmax.
func AssocLegendre(lmax int, x float64, p [][]float64) {
	somx2 := math.Sqrt(math.Max(0, 1-x*x))

	p[0][0] = 1
	for m := 1; m <= lmax; m++ {
		p[m][m] = -p[m-1][m-1] * float64(2*m-1) * somx2
	}
	for m := 0; m < lmax; m++ {
		p[m+1][m] = x * float64(2*m+1) * p[m][m]
	}
	for l := 2; l <= lmax; l++ {
		for m := 0; m <= l-2; m++ {
			p[l][m] = (float64(2*l-1)*x*p[l-1][m] - float64(l+m-1)*p[l-2][m]) / float64(l-m)
		}
	}
}

// AssocLegendreDeriv fills dp[l][m] with dP_lm/dx given the values in p.
// The poles are guarded by flooring 1-x^2.
func AssocLegendreDeriv(lmax int, x float64, p, dp [][]float64) {
	den := x*x - 1
	if math.Abs(den) < 1e-12 {
		if den < 0 {
			den = -1e-12
		} else {
			den = 1e-12
		}
	}

	dp[0][0] = 0
	for l := 1; l <= lmax; l++ {
		for m := 0; m <= l; m++ {
			prev := 0.0
			if m <= l-1 {
				prev = p[l-1][m]
			}
			dp[l][m] = (float64(l)*x*p[l][m] - float64(l+m)*prev) / den
		}
	}
}

// CluttonBrock evaluates the radial basis for all orders at one radius.
// The value is immutable configuration, safe to share across goroutines.
type CluttonBrock struct {
	Scale float64
	LMax  int
	NMax  int
}

func NewCluttonBrock(scale float64, lmax, nmax int) CluttonBrock {
	return CluttonBrock{Scale: scale, LMax: lmax, NMax: nmax}
}

// Eval fills pot[l][n], dpot[l][n] and dens[l][n] with the potential basis
// function, its radial derivative and the density basis function at radius
// r, in the length unit the scale is expressed in. The slices must be sized
// [LMax+1][NMax].
func (b CluttonBrock) Eval(r float64, pot, dpot, dens [][]float64) {
	x := r / b.Scale
	s2 := 1 / (1 + x*x)
	s := math.Sqrt(s2)
	xi := 1 - 2*s2

	// Unit folding: potentials carry 1/scale, radial derivatives 1/scale^2,
	// densities 1/scale^3, so callers multiply by coefficients only.
	ip := 1 / b.Scale
	id := ip * ip
	ir := id * ip

	xiPrime := 4 * x * s2 * s2

	ultra := make([]float64, b.NMax)
	ultraD := make([]float64, b.NMax)

	for l := 0; l <= b.LMax; l++ {
		alpha := float64(l + 1)
		Gegenbauer(alpha, xi, ultra)
		Gegenbauer(alpha+1, xi, ultraD)

		xl := math.Pow(x, float64(l))
		spow := math.Pow(s, float64(2*l+1)) // s^(2l+1)
		sd := spow * s2 * s2                // s^(2l+5)

		// A = x^l s^(2l+1); A' split into two explicit terms so l=0 stays
		// finite at the origin.
		aVal := xl * spow
		aPrime := -float64(2*l+1) * xl * x * s2 * spow
		if l > 0 {
			aPrime += float64(l) * math.Pow(x, float64(l-1)) * spow
		}

		for n := 0; n < b.NMax; n++ {
			c := ultra[n]
			dc := 0.0
			if n > 0 {
				dc = 2 * alpha * ultraD[n-1]
			}

			pot[l][n] = -aVal * c * ip
			dpot[l][n] = -(aPrime*c + aVal*dc*xiPrime) * id

			k := float64((2*(n+l) + 1) * (2*(n+l) + 3))
			dens[l][n] = k / (4 * math.Pi) * xl * sd * c * ir
		}
	}
}

// Grids allocates an [lmax+1][nmax] table, the shape Eval expects.
func Grids(lmax, nmax int) [][]float64 {
	g := make([][]float64, lmax+1)
	for l := range g {
		g[l] = make([]float64, nmax)
	}
	return g
}
