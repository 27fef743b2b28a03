// Package field evaluates the gravitational field of the model's mass
// components. Each component is an Evaluator producing force, density and
// potential in model units; the spherical expansions cover the halo and the
// LMC, the analytic disc covers the stellar disc.
package field

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Component identifies one mass component of the combined model.
type Component int

const (
	Disc Component = iota
	Halo
	LMC
)

// Components lists every component in the order centre sequences use.
var Components = []Component{Disc, Halo, LMC}

var ErrUnknownComponent = errors.New("field: unknown component")

func (c Component) String() string {
	switch c {
	case Disc:
		return "disc"
	case Halo:
		return "halo"
	case LMC:
		return "lmc"
	}
	return fmt.Sprintf("component(%d)", int(c))
}

// ParseComponent maps a name like "disc" onto its Component.
func ParseComponent(s string) (Component, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "disc", "mwd":
		return Disc, nil
	case "halo", "mwhalo":
		return Halo, nil
	case "lmc":
		return LMC, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownComponent, s)
}

// Sample is one field evaluation at a point in time and space.
type Sample struct {
	Force     r3.Vec
	Density   float64
	Potential float64
}

// Add combines two samples; fields superpose linearly.
func (s Sample) Add(other Sample) Sample {
	return Sample{
		Force:     r3.Add(s.Force, other.Force),
		Density:   s.Density + other.Density,
		Potential: s.Potential + other.Potential,
	}
}

// Evaluator produces field samples for one component, in model units.
// Implementations are read-only after construction and safe for concurrent
// queries.
type Evaluator interface {
	// Sample evaluates the component's field at time t and position pos.
	Sample(t float64, pos r3.Vec) Sample

	// Centre returns the component's expansion centre at time t.
	Centre(t float64) r3.Vec
}
