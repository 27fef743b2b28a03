package integrators

import (
	"fmt"
	"sort"

	"github.com/sophialilleengen/mwlmc/internal/phase"
)

var registry = map[string]func() phase.Integrator{
	"euler":    func() phase.Integrator { return NewEuler() },
	"leapfrog": func() phase.Integrator { return NewLeapfrog() },
	"verlet":   func() phase.Integrator { return NewVerlet() },
	"rk4":      func() phase.Integrator { return NewRK4() },
	"rk45":     func() phase.Integrator { return NewRK45() },
}

// New returns a fresh integrator by name. Integrators carry scratch
// buffers, so callers must not share one instance across goroutines.
func New(name string) (phase.Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
