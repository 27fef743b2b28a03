// Package coefs reads, writes and time-interpolates spherical-harmonic
// coefficient tables. The binary layout is self-describing: three int32
// header fields (snapshot count, LMax, NMax), then per snapshot one float64
// time followed by (LMax+1)^2 * NMax float64 coefficients, all
// little-endian. Snapshots are assumed evenly spaced in time.
package coefs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

var (
	ErrTooFewSnapshots = errors.New("coefs: table needs at least two snapshots")
	ErrBadHeader       = errors.New("coefs: implausible header dimensions")
	ErrTruncated       = errors.New("coefs: file ends before the declared snapshots")
)

// Header size guards; corrupt files must not drive allocations.
const (
	maxSnapshots = 1 << 20
	maxLMax      = 64
	maxNMax      = 4096
)

// Table is a time series of coefficient snapshots for one expansion.
type Table struct {
	LMax int
	NMax int

	Times []float64

	// One flattened snapshot per time: index harmonic*NMax + n, with the
	// harmonic index running over (l,m) pairs as l*l + offsets, matching
	// the order the basis evaluator consumes.
	snaps [][]float64

	log zerolog.Logger
}

// New returns an empty table with the given dimensions and all-zero
// snapshots at the given times.
func New(lmax, nmax int, times []float64) *Table {
	t := &Table{
		LMax:  lmax,
		NMax:  nmax,
		Times: append([]float64(nil), times...),
		snaps: make([][]float64, len(times)),
		log:   zerolog.Nop(),
	}
	for i := range t.snaps {
		t.snaps[i] = make([]float64, t.NumHarmonics()*nmax)
	}
	return t
}

// SetLogger routes clamp warnings; the default discards them.
func (t *Table) SetLogger(l zerolog.Logger) { t.log = l }

// NumHarmonics returns the flattened (l,m) count, (LMax+1)^2.
func (t *Table) NumHarmonics() int { return (t.LMax + 1) * (t.LMax + 1) }

// Len returns the number of snapshots.
func (t *Table) Len() int { return len(t.Times) }

// Span returns the covered time range.
func (t *Table) Span() (tmin, tmax float64) {
	return t.Times[0], t.Times[len(t.Times)-1]
}

// Coef returns the coefficient for snapshot tt, flattened harmonic l, radial
// order n.
func (t *Table) Coef(tt, l, n int) float64 {
	return t.snaps[tt][l*t.NMax+n]
}

// SetCoef stores a coefficient; used by dataset generation and tests.
func (t *Table) SetCoef(tt, l, n int, v float64) {
	t.snaps[tt][l*t.NMax+n] = v
}

// Load reads a table from disk.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("coefs: open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("coefs: read %s: %w", path, err)
	}
	return t, nil
}

// Read parses a binary coefficient table.
func Read(r io.Reader) (*Table, error) {
	var numt, lmax, nmax int32
	for _, v := range []*int32{&numt, &lmax, &nmax} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("coefs: header: %w", err)
		}
	}

	if numt < 2 {
		return nil, ErrTooFewSnapshots
	}
	if numt > maxSnapshots || lmax < 0 || lmax > maxLMax || nmax < 1 || nmax > maxNMax {
		return nil, fmt.Errorf("%w: numt=%d lmax=%d nmax=%d", ErrBadHeader, numt, lmax, nmax)
	}

	t := &Table{
		LMax:  int(lmax),
		NMax:  int(nmax),
		Times: make([]float64, numt),
		snaps: make([][]float64, numt),
		log:   zerolog.Nop(),
	}

	stride := t.NumHarmonics() * t.NMax
	for tt := 0; tt < int(numt); tt++ {
		if err := binary.Read(r, binary.LittleEndian, &t.Times[tt]); err != nil {
			return nil, fmt.Errorf("%w: snapshot %d time: %v", ErrTruncated, tt, err)
		}
		t.snaps[tt] = make([]float64, stride)
		if err := binary.Read(r, binary.LittleEndian, t.snaps[tt]); err != nil {
			return nil, fmt.Errorf("%w: snapshot %d data: %v", ErrTruncated, tt, err)
		}
	}

	return t, nil
}

// Save writes the table to disk, overwriting any existing file.
func (t *Table) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("coefs: create %s: %w", path, err)
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("coefs: write %s: %w", path, err)
	}
	return f.Close()
}

// Write emits the binary table format.
func (t *Table) Write(w io.Writer) error {
	for _, v := range []int32{int32(t.Len()), int32(t.LMax), int32(t.NMax)} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	for tt := range t.Times {
		if err := binary.Write(w, binary.LittleEndian, t.Times[tt]); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, t.snaps[tt]); err != nil {
			return err
		}
	}
	return nil
}

// Interpolate returns the coefficient snapshot at an arbitrary time, blended
// linearly between the bracketing snapshots. Times outside the table clamp
// to the nearest edge interval with a warning, mirroring how the expansion
// behaves when asked about epochs the simulation never covered.
func (t *Table) Interpolate(time float64) []float64 {
	return t.InterpolateInto(nil, time)
}

// InterpolateInto is Interpolate with a reusable destination buffer.
func (t *Table) InterpolateInto(dst []float64, time float64) []float64 {
	dt := t.Times[1] - t.Times[0]
	indx := int((time - t.Times[0]) / dt)

	if indx < 0 {
		t.log.Warn().Float64("t", time).Msg("coefs: time before table start, using earliest snapshot")
		indx = 0
	}
	if indx > t.Len()-2 {
		if time > t.Times[t.Len()-1] {
			t.log.Warn().Float64("t", time).Msg("coefs: time after table end, using latest snapshot")
		}
		indx = t.Len() - 2
	}

	x1 := (t.Times[indx+1] - time) / dt
	x2 := (time - t.Times[indx]) / dt

	stride := t.NumHarmonics() * t.NMax
	if cap(dst) < stride {
		dst = make([]float64, stride)
	}
	dst = dst[:stride]

	a, b := t.snaps[indx], t.snaps[indx+1]
	for i := range dst {
		dst[i] = x1*a[i] + x2*b[i]
	}
	return dst
}
