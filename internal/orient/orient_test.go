package orient

import (
	"errors"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const evenFile = `4
-3.0  0.0  0.0  0.0  1.0  0.5  0.0
-2.0  1.0  0.5  0.0  1.0  0.5  0.0
-1.0  2.0  1.0  0.0  1.0  0.5  0.0
 0.0  3.0  1.5  0.0  1.0  0.5  0.0
`

func mustParse(t *testing.T, text string) *Centres {
	t.Helper()
	c, err := Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return c
}

func TestParseEvenFile(t *testing.T) {
	c := mustParse(t, evenFile)

	if c.Len() != 4 {
		t.Errorf("expected 4 samples, got %d", c.Len())
	}
	if !c.Tracked() {
		t.Error("expected a tracked centre")
	}

	tmin, tmax := c.Span()
	if tmin != -3.0 || tmax != 0.0 {
		t.Errorf("expected span [-3, 0], got [%v, %v]", tmin, tmax)
	}
}

func TestInterpolationAtSamples(t *testing.T) {
	c := mustParse(t, evenFile)

	got := c.At(-2.0)
	want := r3.Vec{X: 1.0, Y: 0.5, Z: 0.0}
	if math.Abs(got.X-want.X) > 1e-12 || math.Abs(got.Y-want.Y) > 1e-12 {
		t.Errorf("At(-2) = %v, want %v", got, want)
	}
}

func TestInterpolationBetweenSamples(t *testing.T) {
	c := mustParse(t, evenFile)

	got := c.At(-1.5)
	want := r3.Vec{X: 1.5, Y: 0.75, Z: 0.0}
	if math.Abs(got.X-want.X) > 1e-12 || math.Abs(got.Y-want.Y) > 1e-12 {
		t.Errorf("At(-1.5) = %v, want %v", got, want)
	}

	v := c.VelocityAt(-1.5)
	if math.Abs(v.X-1.0) > 1e-12 || math.Abs(v.Y-0.5) > 1e-12 {
		t.Errorf("VelocityAt(-1.5) = %v, want {1 0.5 0}", v)
	}
}

func TestExtrapolationBeforeTable(t *testing.T) {
	c := mustParse(t, evenFile)

	// Two steps before the table: linear along the first sampled velocity.
	got := c.At(-5.0)
	want := r3.Vec{X: 0.0 + (-2.0)*1.0, Y: 0.0 + (-2.0)*0.5, Z: 0.0}
	if math.Abs(got.X-want.X) > 1e-12 || math.Abs(got.Y-want.Y) > 1e-12 {
		t.Errorf("At(-5) = %v, want %v", got, want)
	}

	v := c.VelocityAt(-5.0)
	if v != (r3.Vec{X: 1.0, Y: 0.5, Z: 0.0}) {
		t.Errorf("VelocityAt(-5) = %v, want initial velocity", v)
	}
}

func TestClampAfterTable(t *testing.T) {
	c := mustParse(t, evenFile)

	// Beyond the last sample the final interval extends linearly.
	got := c.At(1.0)
	want := r3.Vec{X: 4.0, Y: 2.0, Z: 0.0}
	if math.Abs(got.X-want.X) > 1e-12 || math.Abs(got.Y-want.Y) > 1e-12 {
		t.Errorf("At(1) = %v, want %v", got, want)
	}
}

func TestUnevenSpacingFallsBackToScan(t *testing.T) {
	text := `4
0.0  0.0  0.0  0.0  1.0  0.0  0.0
1.0  1.0  0.0  0.0  1.0  0.0  0.0
3.0  3.0  0.0  0.0  1.0  0.0  0.0
3.5  3.5  0.0  0.0  1.0  0.0  0.0
`
	c := mustParse(t, text)
	if c.eventime {
		t.Fatal("expected uneven spacing to be detected")
	}

	got := c.At(2.0)
	if math.Abs(got.X-2.0) > 1e-12 {
		t.Errorf("At(2) = %v, want x=2", got)
	}
}

func TestInertialCentre(t *testing.T) {
	c := Inertial()

	if c.Tracked() {
		t.Error("inertial centre must not report as tracked")
	}
	if c.At(-3.0) != (r3.Vec{}) || c.VelocityAt(12.0) != (r3.Vec{}) {
		t.Error("inertial centre must stay at the origin")
	}
	if len(c.Samples()) != 0 {
		t.Error("inertial centre has no samples")
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		want error
	}{
		{"count mismatch", "3\n0 0 0 0 0 0 0\n1 0 0 0 0 0 0\n", ErrSampleCount},
		{"short row", "2\n0 0 0 0 0 0 0\n1 0 0\n", ErrShortRow},
		{"non-monotonic", "2\n1 0 0 0 0 0 0\n1 0 0 0 0 0 0\n", ErrNonMonotonic},
		{"empty", "0\n", ErrEmpty},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.text))
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestFitInitialVelocity(t *testing.T) {
	c := mustParse(t, evenFile)

	if err := c.FitInitialVelocity(4); err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	// Positions move at exactly (1, 0.5, 0), so the fit recovers it.
	v := c.zeroTimeVel
	if math.Abs(v.X-1.0) > 1e-10 || math.Abs(v.Y-0.5) > 1e-10 {
		t.Errorf("fitted velocity = %v, want {1 0.5 0}", v)
	}
}

func TestWriteParseRoundTrip(t *testing.T) {
	in := mustParse(t, evenFile)

	var sb strings.Builder
	if err := Write(&sb, in.Samples()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	out := mustParse(t, sb.String())
	if out.Len() != in.Len() {
		t.Fatalf("round trip lost samples: %d != %d", out.Len(), in.Len())
	}
	for _, tt := range []float64{-3, -1.7, -0.25, 0} {
		a, b := in.At(tt), out.At(tt)
		if math.Abs(a.X-b.X) > 1e-12 || math.Abs(a.Y-b.Y) > 1e-12 {
			t.Errorf("positions at t=%v differ: %v vs %v", tt, a, b)
		}
	}
}

func TestWriteEmpty(t *testing.T) {
	var sb strings.Builder
	if err := Write(&sb, nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}
