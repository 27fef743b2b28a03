package phase

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"zeros", State{0.0, 0.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Norm(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
	}{
		{State{3, 4}, 5.0},
		{State{1, 0}, 1.0},
		{State{0, 0}, 0.0},
		{State{1, 1, 1, 1}, 2.0},
	}

	for _, tt := range tests {
		if got := tt.state.Norm(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Norm(%v) = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_PackUnpack(t *testing.T) {
	pos := r3.Vec{X: -8.27, Y: 0, Z: 0.021}
	vel := r3.Vec{X: 0, Y: 240, Z: 0}

	s := NewState(pos, vel)
	if len(s) != 6 {
		t.Fatalf("expected 6 elements, got %d", len(s))
	}
	if s.Pos() != pos {
		t.Errorf("Pos() = %v, want %v", s.Pos(), pos)
	}
	if s.Vel() != vel {
		t.Errorf("Vel() = %v, want %v", s.Vel(), vel)
	}
}

func TestState_CloneIsIndependent(t *testing.T) {
	s := State{1, 2, 3, 4, 5, 6}
	c := s.Clone()

	c[0] = 99
	if s[0] == 99 {
		t.Error("Clone did not create an independent copy")
	}
}
