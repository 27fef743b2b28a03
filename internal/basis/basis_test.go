package basis

import (
	"math"
	"testing"
)

func TestGegenbauerMatchesChebyshev(t *testing.T) {
	// Order alpha=1 ultraspherical polynomials are Chebyshev U_n.
	xi := 0.3
	got := make([]float64, 4)
	Gegenbauer(1, xi, got)

	want := []float64{
		1,
		2 * xi,
		4*xi*xi - 1,
		8*xi*xi*xi - 4*xi,
	}
	for n := range want {
		if math.Abs(got[n]-want[n]) > 1e-12 {
			t.Errorf("C_%d^1(%v) = %v, want %v", n, xi, got[n], want[n])
		}
	}
}

func TestMonopoleIsPlummer(t *testing.T) {
	scale := 2.5
	cb := NewCluttonBrock(scale, 0, 1)
	pot := Grids(0, 1)
	dpot := Grids(0, 1)
	dens := Grids(0, 1)

	for _, r := range []float64{0.01, 0.5, 1.0, 2.5, 10.0} {
		cb.Eval(r, pot, dpot, dens)

		wantPot := -1 / math.Sqrt(r*r+scale*scale)
		wantDPot := r / math.Pow(r*r+scale*scale, 1.5)
		wantDens := 3 / (4 * math.Pi) * scale * scale / math.Pow(r*r+scale*scale, 2.5)

		if math.Abs(pot[0][0]-wantPot) > 1e-12*math.Abs(wantPot) {
			t.Errorf("pot(%v) = %v, want %v", r, pot[0][0], wantPot)
		}
		if math.Abs(dpot[0][0]-wantDPot) > 1e-12*math.Abs(wantDPot) {
			t.Errorf("dpot(%v) = %v, want %v", r, dpot[0][0], wantDPot)
		}
		if math.Abs(dens[0][0]-wantDens) > 1e-12*math.Abs(wantDens) {
			t.Errorf("dens(%v) = %v, want %v", r, dens[0][0], wantDens)
		}
	}
}

func TestRadialDerivative(t *testing.T) {
	cb := NewCluttonBrock(1.0, 3, 5)
	lo := Grids(3, 5)
	hi := Grids(3, 5)
	pot := Grids(3, 5)
	dpot := Grids(3, 5)
	dens := Grids(3, 5)

	h := 1e-6
	for _, r := range []float64{0.3, 1.0, 2.7} {
		cb.Eval(r-h, lo, dpot, dens)
		cb.Eval(r+h, hi, dpot, dens)
		cb.Eval(r, pot, dpot, dens)

		for l := 0; l <= 3; l++ {
			for n := 0; n < 5; n++ {
				fd := (hi[l][n] - lo[l][n]) / (2 * h)
				if math.Abs(dpot[l][n]-fd) > 1e-5*(math.Abs(fd)+1e-8) {
					t.Errorf("dpot[%d][%d](%v) = %v, finite difference %v", l, n, r, dpot[l][n], fd)
				}
			}
		}
	}
}

// The basis pair must satisfy the multipole Poisson equation
// pot'' + 2 pot'/r - l(l+1) pot/r^2 = 4 pi dens for every order.
func TestPoissonPairing(t *testing.T) {
	cb := NewCluttonBrock(1.3, 2, 4)
	pot := Grids(2, 4)
	dpot := Grids(2, 4)
	dens := Grids(2, 4)
	dlo := Grids(2, 4)
	dhi := Grids(2, 4)

	h := 1e-5
	for _, r := range []float64{0.4, 1.1, 3.2} {
		cb.Eval(r, pot, dpot, dens)
		cb.Eval(r-h, Grids(2, 4), dlo, Grids(2, 4))
		cb.Eval(r+h, Grids(2, 4), dhi, Grids(2, 4))

		for l := 0; l <= 2; l++ {
			for n := 0; n < 4; n++ {
				d2 := (dhi[l][n] - dlo[l][n]) / (2 * h)
				lap := d2 + 2/r*dpot[l][n] - float64(l*(l+1))/(r*r)*pot[l][n]
				want := 4 * math.Pi * dens[l][n]

				if math.Abs(lap-want) > 1e-4*(math.Abs(want)+1e-6) {
					t.Errorf("Poisson residual at l=%d n=%d r=%v: laplacian %v, 4 pi dens %v", l, n, r, lap, want)
				}
			}
		}
	}
}

func TestAssocLegendreLowOrders(t *testing.T) {
	x := 0.4
	somx2 := math.Sqrt(1 - x*x)
	p := Grids(2, 3)
	AssocLegendre(2, x, p)

	cases := []struct {
		l, m int
		want float64
	}{
		{0, 0, 1},
		{1, 0, x},
		{1, 1, -somx2},
		{2, 0, 0.5 * (3*x*x - 1)},
		{2, 1, -3 * x * somx2},
		{2, 2, 3 * (1 - x*x)},
	}
	for _, tc := range cases {
		if math.Abs(p[tc.l][tc.m]-tc.want) > 1e-12 {
			t.Errorf("P_%d%d(%v) = %v, want %v", tc.l, tc.m, x, p[tc.l][tc.m], tc.want)
		}
	}
}

func TestAssocLegendreDeriv(t *testing.T) {
	x := -0.25
	h := 1e-7

	p := Grids(3, 4)
	dp := Grids(3, 4)
	plo := Grids(3, 4)
	phi := Grids(3, 4)

	AssocLegendre(3, x, p)
	AssocLegendreDeriv(3, x, p, dp)
	AssocLegendre(3, x-h, plo)
	AssocLegendre(3, x+h, phi)

	for l := 0; l <= 3; l++ {
		for m := 0; m <= l; m++ {
			fd := (phi[l][m] - plo[l][m]) / (2 * h)
			if math.Abs(dp[l][m]-fd) > 1e-5*(math.Abs(fd)+1e-6) {
				t.Errorf("dP_%d%d(%v) = %v, finite difference %v", l, m, x, dp[l][m], fd)
			}
		}
	}
}
