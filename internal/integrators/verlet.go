package integrators

import "github.com/sophialilleengen/mwlmc/internal/phase"

// Verlet and Leapfrog assume the state layout [q0..qn v0..vn] and a
// system whose velocity derivatives depend on position only. Both are
// symplectic, which keeps orbital energy bounded over long rewinds
// where Euler and RK4 drift secularly.

type Verlet struct {
	prevAcc phase.State
	scratch phase.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) ensureScratch(n int) {
	if len(v.scratch) != n {
		v.scratch = make(phase.State, n)
		v.prevAcc = nil
	}
}

func (v *Verlet) Step(sys phase.System, x phase.State, t, dt float64) phase.State {
	n := len(x)
	half := n / 2
	v.ensureScratch(n)

	result := make(phase.State, n)
	dx := sys.Derive(x, t)
	dt2 := dt * dt

	for i := 0; i < half; i++ {
		result[i] = x[i] + x[half+i]*dt + 0.5*dx[half+i]*dt2
	}

	for i := 0; i < half; i++ {
		v.scratch[i] = result[i]
		v.scratch[half+i] = x[half+i]
	}

	dxNew := sys.Derive(v.scratch, t+dt)

	halfDt := 0.5 * dt
	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + (dx[half+i]+dxNew[half+i])*halfDt
	}

	return result
}

// Leapfrog is the kick-drift-kick form.
type Leapfrog struct {
	scratch phase.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(sys phase.System, x phase.State, t, dt float64) phase.State {
	n := len(x)
	half := n / 2

	if len(l.scratch) != n {
		l.scratch = make(phase.State, n)
	}

	result := make(phase.State, n)
	dx := sys.Derive(x, t)
	halfDt := dt * 0.5

	for i := 0; i < half; i++ {
		l.scratch[half+i] = x[half+i] + dx[half+i]*halfDt
	}

	for i := 0; i < half; i++ {
		result[i] = x[i] + l.scratch[half+i]*dt
		l.scratch[i] = result[i]
	}

	dxNew := sys.Derive(l.scratch, t+dt)

	for i := 0; i < half; i++ {
		result[half+i] = l.scratch[half+i] + dxNew[half+i]*halfDt
	}

	return result
}
