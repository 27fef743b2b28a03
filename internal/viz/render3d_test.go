package viz

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sophialilleengen/mwlmc/internal/model"
)

func TestCameraProjectCentre(t *testing.T) {
	cam := NewCamera()
	x, y, depth, ok := cam.Project(r3.Vec{}, 160, 96)
	if !ok {
		t.Fatal("origin not visible")
	}
	if x != 80 || y != 48 {
		t.Errorf("origin projects to (%d, %d), want (80, 48)", x, y)
	}
	if depth != 0 {
		t.Errorf("origin depth %g, want 0", depth)
	}
}

func TestCameraRotateY(t *testing.T) {
	cam := NewCamera()
	cam.RotateY(math.Pi)
	p := cam.RotatePoint(r3.Vec{X: 1})
	if math.Abs(p.X+1) > 1e-9 || math.Abs(p.Y) > 1e-9 || math.Abs(p.Z) > 1e-9 {
		t.Errorf("half turn about y gave %+v, want (-1, 0, 0)", p)
	}
}

func TestCameraClipsBehindViewpoint(t *testing.T) {
	cam := NewCamera()
	_, _, _, ok := cam.Project(r3.Vec{Z: cam.Distance + 1}, 160, 96)
	if ok {
		t.Error("point behind the viewpoint should be clipped")
	}
}

func TestCameraZoomBounds(t *testing.T) {
	cam := NewCamera()
	for i := 0; i < 100; i++ {
		cam.ZoomIn()
	}
	if cam.Zoom > 10 {
		t.Errorf("zoom %g exceeds cap", cam.Zoom)
	}
	for i := 0; i < 100; i++ {
		cam.ZoomOut()
	}
	if cam.Zoom < 0.1 {
		t.Errorf("zoom %g below floor", cam.Zoom)
	}
}

func lineTrajectory(n int) *model.Trajectory {
	tr := &model.Trajectory{}
	for i := 0; i < n; i++ {
		tr.T = append(tr.T, float64(i))
		tr.X = append(tr.X, float64(i)*10)
		tr.Y = append(tr.Y, 0)
		tr.Z = append(tr.Z, 7)
		tr.U = append(tr.U, 0)
		tr.V = append(tr.V, 0)
		tr.W = append(tr.W, 0)
	}
	return tr
}

func TestTrajectoryWireframe(t *testing.T) {
	tr := lineTrajectory(5)
	w := TrajectoryWireframe(tr, 0)

	// Four segments plus the head marker.
	if len(w.Edges) != 5 {
		t.Fatalf("got %d edges, want 5", len(w.Edges))
	}

	// Extent 40 along x rescales everything into the unit cube, and the
	// galaxy z axis becomes screen up.
	for i, e := range w.Edges {
		for _, p := range []r3.Vec{e.Start, e.End} {
			if math.Abs(p.X) > 1+1e-9 || math.Abs(p.Y) > 1+1e-9 || math.Abs(p.Z) > 1+1e-9 {
				t.Fatalf("edge %d endpoint %+v outside unit cube", i, p)
			}
		}
	}
	if got := w.Edges[0].Start.Y; math.Abs(got-7.0/40.0) > 1e-12 {
		t.Errorf("z maps to screen up: got %g, want %g", got, 7.0/40.0)
	}
}

func TestTrajectoryWireframeThinning(t *testing.T) {
	tr := lineTrajectory(100)
	w := TrajectoryWireframe(tr, 10)
	if len(w.Edges) > 13 {
		t.Errorf("thinned wireframe has %d edges, want roughly 10", len(w.Edges))
	}
	// The head must survive thinning.
	last := w.Edges[len(w.Edges)-1]
	if last.Start != last.End {
		t.Error("final edge is not the head marker")
	}
}

func TestTrajectoryWireframeEmpty(t *testing.T) {
	if w := TrajectoryWireframe(nil, 0); len(w.Edges) != 0 {
		t.Error("nil trajectory should give empty wireframe")
	}
	if w := TrajectoryWireframe(&model.Trajectory{}, 0); len(w.Edges) != 0 {
		t.Error("empty trajectory should give empty wireframe")
	}
}

func TestRender3D(t *testing.T) {
	c := NewCanvas(20, 10)
	Render3D(c, AxesWireframe(1), NewCamera())
	if got := countDots(c); got == 0 {
		t.Error("axes wireframe drew nothing")
	}

	// Nil arguments must not panic.
	Render3D(nil, nil, nil)
	Render3D(c, nil, NewCamera())
}

func TestThemes(t *testing.T) {
	defer SetTheme("aurora")

	SetTheme("phosphor")
	if CurrentTheme.Name != "phosphor" {
		t.Errorf("theme %q, want phosphor", CurrentTheme.Name)
	}

	next := CycleTheme()
	if next == "phosphor" {
		t.Error("cycle did not advance")
	}
	if GetTheme("no-such-theme").Name != "aurora" {
		t.Error("unknown theme should fall back to default")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme name list incomplete")
	}
}

func TestStyleHelpers(t *testing.T) {
	if Spinner(3) == "" || Spinner(30) != Spinner(0) {
		t.Error("spinner frames wrong")
	}
	bar := ProgressBar(0.5, 10)
	if bar == "" {
		t.Error("empty progress bar")
	}
	ProgressBar(-1, 10)
	ProgressBar(2, 10)
	if Separator(0) == "" {
		t.Error("separator at minimum width")
	}
}
