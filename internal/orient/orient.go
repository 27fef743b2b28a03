// Package orient tracks the moving expansion centre of a mass component.
// Centre trajectories come from whitespace text files: the first line holds
// the sample count, each following row is "t x y z u v w". Queries between
// samples interpolate linearly; queries before the first sample extrapolate
// backward along the initial velocity.
package orient

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrEmpty        = errors.New("orient: centre file has no samples")
	ErrSampleCount  = errors.New("orient: sample count does not match header")
	ErrShortRow     = errors.New("orient: row has fewer than seven columns")
	ErrNonMonotonic = errors.New("orient: sample times are not increasing")
	ErrNoVelocity   = errors.New("orient: initial velocity fit needs at least two samples")
)

// Sample is one row of a centre trajectory.
type Sample struct {
	T   float64
	Pos r3.Vec
	Vel r3.Vec
}

// Centres interpolates the expansion centre of one component through time.
// The zero value is not usable; construct with Load, Parse or Inertial.
type Centres struct {
	inertial bool
	eventime bool // samples evenly spaced, allows direct indexing
	times    []float64
	pos      []r3.Vec
	vel      []r3.Vec

	// Velocity used to extrapolate before the first sample. Defaults to
	// the first sampled velocity; FitInitialVelocity replaces it.
	zeroTimeVel r3.Vec
}

// Inertial returns a centre pinned to the origin at every time. Components
// without a centre file use this.
func Inertial() *Centres {
	return &Centres{inertial: true}
}

// Load reads a centre trajectory file from disk.
func Load(path string) (*Centres, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("orient: open %s: %w", path, err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("orient: parse %s: %w", path, err)
	}
	return c, nil
}

// Save writes a centre trajectory file.
func Save(path string, samples []Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("orient: create %s: %w", path, err)
	}
	defer f.Close()

	if err := Write(f, samples); err != nil {
		return fmt.Errorf("orient: write %s: %w", path, err)
	}
	return nil
}

// Write emits samples in the text format Parse reads back.
func Write(w io.Writer, samples []Sample) error {
	if len(samples) == 0 {
		return ErrEmpty
	}
	if _, err := fmt.Fprintf(w, "%d\n", len(samples)); err != nil {
		return err
	}
	for _, s := range samples {
		_, err := fmt.Fprintf(w, "%g %g %g %g %g %g %g\n",
			s.T, s.Pos.X, s.Pos.Y, s.Pos.Z, s.Vel.X, s.Vel.Y, s.Vel.Z)
		if err != nil {
			return err
		}
	}
	return nil
}

// Parse reads a centre trajectory in the text format described in the
// package comment.
func Parse(r io.Reader) (*Centres, error) {
	sc := bufio.NewScanner(r)

	var n int
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		v, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("orient: bad header %q: %w", line, err)
		}
		n = v
		break
	}
	if n < 2 {
		return nil, ErrEmpty
	}

	c := &Centres{
		eventime: true,
		times:    make([]float64, 0, n),
		pos:      make([]r3.Vec, 0, n),
		vel:      make([]r3.Vec, 0, n),
	}

	row := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 7 {
			return nil, fmt.Errorf("%w: row %d", ErrShortRow, row+1)
		}

		var vals [7]float64
		for i := 0; i < 7; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("orient: row %d column %d: %w", row+1, i+1, err)
			}
			vals[i] = v
		}

		c.times = append(c.times, vals[0])
		c.pos = append(c.pos, r3.Vec{X: vals[1], Y: vals[2], Z: vals[3]})
		c.vel = append(c.vel, r3.Vec{X: vals[4], Y: vals[5], Z: vals[6]})
		row++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("orient: read: %w", err)
	}
	if row != n {
		return nil, fmt.Errorf("%w: header says %d, file has %d", ErrSampleCount, n, row)
	}

	for i := 1; i < len(c.times); i++ {
		if c.times[i] <= c.times[i-1] {
			return nil, fmt.Errorf("%w: row %d", ErrNonMonotonic, i+1)
		}
	}

	// Uneven spacing switches interpolation to a scan.
	dt := c.times[1] - c.times[0]
	for i := 2; i < len(c.times); i++ {
		if abs(c.times[i]-c.times[i-1]-dt) > dt/10 {
			c.eventime = false
		}
	}

	c.zeroTimeVel = c.vel[0]
	return c, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Tracked reports whether the centre follows a loaded trajectory rather
// than staying inertial at the origin.
func (c *Centres) Tracked() bool { return !c.inertial }

// Len returns the number of samples; zero for an inertial centre.
func (c *Centres) Len() int { return len(c.times) }

// Span returns the covered time range; zeros for an inertial centre.
func (c *Centres) Span() (tmin, tmax float64) {
	if c.inertial || len(c.times) == 0 {
		return 0, 0
	}
	return c.times[0], c.times[len(c.times)-1]
}

// Samples returns a copy of the underlying trajectory rows.
func (c *Centres) Samples() []Sample {
	out := make([]Sample, len(c.times))
	for i := range c.times {
		out[i] = Sample{T: c.times[i], Pos: c.pos[i], Vel: c.vel[i]}
	}
	return out
}

// index locates the sample interval containing t. With even spacing the
// index comes from truncating division, so times up to one step before the
// table still map to the first interval and only earlier times go negative
// (the extrapolation regime). The uneven-spacing scan clamps to the table.
func (c *Centres) index(t float64) (indx int, dt float64) {
	if c.eventime {
		dt = c.times[1] - c.times[0]
		indx = int((t - c.times[0]) / dt)
		return indx, dt
	}

	indx = 0
	for indx < len(c.times) && c.times[indx] <= t {
		indx++
	}
	indx--
	if indx < 0 {
		indx = 0
	}
	if indx > len(c.times)-2 {
		indx = len(c.times) - 2
	}
	return indx, c.times[indx+1] - c.times[indx]
}

// At returns the centre position at time t. Before the first sample the
// centre is extrapolated linearly along the initial velocity; after the
// last sample it clamps to the final interval.
func (c *Centres) At(t float64) r3.Vec {
	if c.inertial {
		return r3.Vec{}
	}

	indx, dt := c.index(t)
	if indx < 0 {
		dtime := t - c.times[0]
		return r3.Add(c.pos[0], r3.Scale(dtime, c.zeroTimeVel))
	}
	if indx > len(c.times)-2 {
		indx = len(c.times) - 2
	}

	x1 := (c.times[indx+1] - t) / dt
	x2 := (t - c.times[indx]) / dt
	return r3.Add(r3.Scale(x1, c.pos[indx]), r3.Scale(x2, c.pos[indx+1]))
}

// VelocityAt returns the centre velocity at time t with the same
// interpolation rules as At.
func (c *Centres) VelocityAt(t float64) r3.Vec {
	if c.inertial {
		return r3.Vec{}
	}

	indx, dt := c.index(t)
	if indx < 0 {
		return c.zeroTimeVel
	}
	if indx > len(c.times)-2 {
		indx = len(c.times) - 2
	}

	x1 := (c.times[indx+1] - t) / dt
	x2 := (t - c.times[indx]) / dt
	return r3.Add(r3.Scale(x1, c.vel[indx]), r3.Scale(x2, c.vel[indx+1]))
}

// FitInitialVelocity replaces the pre-table extrapolation velocity with a
// least-squares slope fitted to the first nPoints position samples. Useful
// when the sampled velocities are noisy at the start of the table.
func (c *Centres) FitInitialVelocity(nPoints int) error {
	if c.inertial {
		return nil
	}
	if nPoints > len(c.times) {
		nPoints = len(c.times)
	}
	if nPoints < 2 {
		return ErrNoVelocity
	}

	var sumT, sumT2 float64
	var sumP, sumTP r3.Vec
	for i := 0; i < nPoints; i++ {
		ti := c.times[i]
		sumT += ti
		sumT2 += ti * ti
		sumP = r3.Add(sumP, c.pos[i])
		sumTP = r3.Add(sumTP, r3.Scale(ti, c.pos[i]))
	}

	np := float64(nPoints)
	tMean := sumT / np
	den := sumT2 - sumT*tMean
	if abs(den) < 1e-7 {
		return fmt.Errorf("orient: initial velocity fit is degenerate over %d samples", nPoints)
	}

	c.zeroTimeVel = r3.Scale(1/den, r3.Sub(sumTP, r3.Scale(tMean, sumP)))
	return nil
}
