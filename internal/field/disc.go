package field

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sophialilleengen/mwlmc/internal/orient"
	"github.com/sophialilleengen/mwlmc/internal/transform"
)

// MiyamotoNagai is the analytic stellar disc, pinned to the centre of the
// component it orbits inside (the halo). Parameters are in model units.
type MiyamotoNagai struct {
	Mass float64 // disc mass
	A    float64 // radial scale length
	B    float64 // vertical scale height

	centres *orient.Centres
}

// NewMiyamotoNagai builds the disc about the given centre track.
func NewMiyamotoNagai(mass, a, b float64, cen *orient.Centres) *MiyamotoNagai {
	return &MiyamotoNagai{Mass: mass, A: a, B: b, centres: cen}
}

// Centre returns the disc centre at time t.
func (d *MiyamotoNagai) Centre(t float64) r3.Vec {
	return d.centres.At(t)
}

// Centres exposes the centre track the disc is pinned to.
func (d *MiyamotoNagai) Centres() *orient.Centres {
	return d.centres
}

// Sample evaluates the closed-form disc field at time t and position pos.
func (d *MiyamotoNagai) Sample(t float64, pos r3.Vec) Sample {
	rel := r3.Sub(pos, d.centres.At(t))
	bigR, phi := transform.CartesianToCylindrical(rel.X, rel.Y)
	z := rel.Z

	zeta := math.Sqrt(z*z + d.B*d.B)
	az := d.A + zeta
	den2 := bigR*bigR + az*az
	den := math.Sqrt(den2)
	den3 := den2 * den

	potential := -d.Mass / den

	fR := -d.Mass * bigR / den3
	fz := -d.Mass * z * az / (zeta * den3)

	var fx, fy float64
	if bigR > 1e-12 {
		fx, fy = transform.CylindricalForcesToCartesian(bigR, phi, fR, 0)
	}

	// Miyamoto & Nagai (1975) density.
	num := d.A*bigR*bigR + (d.A+3*zeta)*az*az
	density := d.B * d.B * d.Mass / (4 * math.Pi) * num / (math.Pow(den2, 2.5) * zeta * zeta * zeta)

	return Sample{
		Force:     r3.Vec{X: fx, Y: fy, Z: fz},
		Density:   density,
		Potential: potential,
	}
}
