package config

import "sort"

// OrbitPreset is a named set of initial conditions in physical units.
type OrbitPreset struct {
	Pos  [3]float64 // kpc
	Vel  [3]float64 // km/s
	Note string
}

var Presets = map[string]OrbitPreset{
	"solar": {
		Pos:  [3]float64{-8.27, 0, 0},
		Vel:  [3]float64{0, 240, 0},
		Note: "circular-ish orbit at the solar radius",
	},
	"sgr": {
		Pos:  [3]float64{17.5, 2.5, -6.5},
		Vel:  [3]float64{237.9, -24.3, 209.0},
		Note: "Sagittarius dwarf core",
	},
	"lmc": {
		Pos:  [3]float64{-0.57, -41.3, -27.1},
		Vel:  [3]float64{-63, -213, 207},
		Note: "LMC centre treated as a test particle",
	},
	"halo": {
		Pos:  [3]float64{50, 0, 30},
		Vel:  [3]float64{0, 140, 60},
		Note: "loosely bound outer halo tracer",
	},
}

func GetPreset(name string) (OrbitPreset, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
