package units

import "fmt"

// Unit selects between the model's native virial convention and
// physical units (kpc, km/s, Gyr, Msun).
type Unit int

const (
	Virial Unit = iota
	Physical
)

func (u Unit) String() string {
	switch u {
	case Virial:
		return "virial"
	case Physical:
		return "physical"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

func ParseUnit(s string) (Unit, error) {
	switch s {
	case "virial":
		return Virial, nil
	case "physical":
		return Physical, nil
	default:
		return 0, fmt.Errorf("units: unknown unit convention %q", s)
	}
}
