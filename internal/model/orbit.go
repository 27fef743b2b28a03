package model

import (
	"context"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sophialilleengen/mwlmc/internal/integrators"
	"github.com/sophialilleengen/mwlmc/internal/phase"
)

// Integration defaults, in virial time.
const (
	DefaultTBegin     = -2.5
	DefaultTEnd       = 0.0
	DefaultDt         = 0.002
	DefaultIntegrator = "leapfrog"
)

// Options controls an orbit integration. Times are virial; the zero
// value selects the defaults.
type Options struct {
	TBegin     float64
	TEnd       float64
	Dt         float64
	Integrator string
}

func DefaultOptions() Options {
	return Options{
		TBegin:     DefaultTBegin,
		TEnd:       DefaultTEnd,
		Dt:         DefaultDt,
		Integrator: DefaultIntegrator,
	}
}

func (o Options) withDefaults() Options {
	if o.TBegin == 0 && o.TEnd == 0 {
		o.TBegin, o.TEnd = DefaultTBegin, DefaultTEnd
	}
	if o.Dt == 0 {
		o.Dt = DefaultDt
	}
	if o.Integrator == "" {
		o.Integrator = DefaultIntegrator
	}
	return o
}

func (o Options) validate() error {
	if o.Dt <= 0 {
		return fmt.Errorf("%w: dt = %g", ErrBadStep, o.Dt)
	}
	if o.TEnd <= o.TBegin {
		return fmt.Errorf("%w: [%g, %g]", ErrBadTimespan, o.TBegin, o.TEnd)
	}
	return nil
}

func (o Options) steps() int {
	return int(math.Round((o.TEnd - o.TBegin) / o.Dt))
}

// Orbit integrates a test particle through the evolving potential.
// The initial conditions are taken at opts.TBegin, in kpc and km/s.
func (m *MWLMC) Orbit(ctx context.Context, pos, vel r3.Vec, opts Options) (*Trajectory, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	x0, err := m.initialState(pos, vel)
	if err != nil {
		return nil, err
	}
	return m.integrate(ctx, x0, opts.TBegin, opts.Dt, opts.steps(), opts.Integrator)
}

// Rewind integrates present-day conditions backward in time, from
// opts.TEnd down to opts.TBegin. Samples come out in the order
// integrated, newest first.
func (m *MWLMC) Rewind(ctx context.Context, pos, vel r3.Vec, opts Options) (*Trajectory, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	x0, err := m.initialState(pos, vel)
	if err != nil {
		return nil, err
	}
	return m.integrate(ctx, x0, opts.TEnd, -opts.Dt, opts.steps(), opts.Integrator)
}

// Particle is one set of initial conditions for a batch integration.
type Particle struct {
	Pos r3.Vec // kpc
	Vel r3.Vec // km/s
}

// Orbits integrates a batch of particles concurrently, one goroutine
// each. Results keep the input order.
func (m *MWLMC) Orbits(ctx context.Context, particles []Particle, opts Options) ([]*Trajectory, error) {
	results := make([]*Trajectory, len(particles))
	errs := make([]error, len(particles))

	var wg sync.WaitGroup
	for i, p := range particles {
		wg.Add(1)
		go func(idx int, p Particle) {
			defer wg.Done()
			results[idx], errs[idx] = m.Orbit(ctx, p.Pos, p.Vel, opts)
		}(i, p)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

func (m *MWLMC) initialState(pos, vel r3.Vec) (phase.State, error) {
	if !finiteVec(pos) {
		return nil, fmt.Errorf("%w: position (%v, %v, %v)", ErrNotFinite, pos.X, pos.Y, pos.Z)
	}
	if !finiteVec(vel) {
		return nil, fmt.Errorf("%w: velocity (%v, %v, %v)", ErrNotFinite, vel.X, vel.Y, vel.Z)
	}
	return phase.NewState(m.scale.PositionToVirial(pos), m.scale.VelocityVecToVirial(vel)), nil
}

func (m *MWLMC) integrate(ctx context.Context, x0 phase.State, t0, dt float64, steps int, name string) (*Trajectory, error) {
	integ, err := integrators.New(name)
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	sys := &particleSystem{comps: m.evaluators()}
	traj := newTrajectory(steps + 1)

	x := x0.Clone()
	m.record(traj, t0, x)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return traj, ctx.Err()
		default:
		}

		t := t0 + float64(i)*dt
		x = integ.Step(sys, x, t, dt)

		if !x.IsValid() {
			return traj, fmt.Errorf("%w at t = %.4f", ErrUnstable, t+dt)
		}

		m.record(traj, t0+float64(i+1)*dt, x)
	}

	return traj, nil
}

func (m *MWLMC) record(tr *Trajectory, t float64, x phase.State) {
	tr.append(
		m.scale.TimeToPhysical(t),
		m.scale.PositionToPhysical(x.Pos()),
		m.scale.VelocityVecToPhysical(x.Vel()),
	)
}
