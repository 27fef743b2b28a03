package integrators

import (
	"testing"

	"github.com/sophialilleengen/mwlmc/internal/phase"
)

func benchState() phase.State {
	return phase.State{8.0, 0.0, 0.0, 0.0, 1.2, 0.3}
}

func BenchmarkEuler(b *testing.B) {
	integ := NewEuler()
	sys := &pointMass{}
	x := benchState()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(sys, x, 0, 0.01)
	}
}

func BenchmarkRK4(b *testing.B) {
	integ := NewRK4()
	sys := &pointMass{}
	x := benchState()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(sys, x, 0, 0.01)
	}
}

func BenchmarkRK45(b *testing.B) {
	integ := NewRK45()
	sys := &pointMass{}
	x := benchState()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(sys, x, 0, 0.01)
	}
}

func BenchmarkVerlet(b *testing.B) {
	integ := NewVerlet()
	sys := &pointMass{}
	x := benchState()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(sys, x, 0, 0.01)
	}
}

func BenchmarkLeapfrog(b *testing.B) {
	integ := NewLeapfrog()
	sys := &pointMass{}
	x := benchState()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(sys, x, 0, 0.01)
	}
}
