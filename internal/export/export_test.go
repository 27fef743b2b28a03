package export

import (
	"errors"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sophialilleengen/mwlmc/internal/model"
	"github.com/sophialilleengen/mwlmc/internal/viz"
)

func testTrajectory(n int) *model.Trajectory {
	tr := &model.Trajectory{}
	for i := 0; i < n; i++ {
		ang := 2 * math.Pi * float64(i) / float64(n)
		tr.T = append(tr.T, float64(i))
		tr.X = append(tr.X, 8*math.Cos(ang))
		tr.Y = append(tr.Y, 8*math.Sin(ang))
		tr.Z = append(tr.Z, 0.1*float64(i))
		tr.U = append(tr.U, 0)
		tr.V = append(tr.V, 0)
		tr.W = append(tr.W, 0)
	}
	return tr
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(3, 5)

	svg := CanvasToSVG(c, 4)
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "</svg>") {
		t.Fatal("not an svg document")
	}
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("got %d circles, want 2", got)
	}
}

func TestCanvasToSVGNil(t *testing.T) {
	if CanvasToSVG(nil, 4) != "" {
		t.Error("nil canvas should render empty")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	tr := testTrajectory(32)
	svg := TrajectoryToSVG(tr, viz.PlaneXY, 400, 300, "#00ffcc")
	if !strings.Contains(svg, `width="400"`) || !strings.Contains(svg, "#00ffcc") {
		t.Fatal("svg missing size or stroke")
	}
	if !strings.Contains(svg, "M") || strings.Count(svg, " L") != 31 {
		t.Errorf("path should contain one move and 31 line segments")
	}
}

func TestTrajectoryToSVGDegenerate(t *testing.T) {
	if TrajectoryToSVG(nil, viz.PlaneXY, 100, 100, "#fff") != "" {
		t.Error("nil trajectory should render empty")
	}
	if TrajectoryToSVG(testTrajectory(1), viz.PlaneXY, 100, 100, "#fff") != "" {
		t.Error("single sample should render empty")
	}
}

func TestRasterizeCanvas(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	img := RasterizeCanvas(c)

	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Fatalf("raster is %v, want 16x16", img.Bounds())
	}

	lit := 0
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			if img.ColorIndexAt(x, y) == 1 {
				lit++
			}
		}
	}
	// One subpixel covers a 4x4 raster block.
	if lit != 16 {
		t.Errorf("got %d lit raster pixels, want 16", lit)
	}
}

func TestWriteGIF(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7)
	path := filepath.Join(t.TempDir(), "orbit.gif")

	frames := []*image.Paletted{RasterizeCanvas(c), RasterizeCanvas(c)}
	if err := WriteGIF(path, frames, 2); err != nil {
		t.Fatalf("WriteGIF: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read gif: %v", err)
	}
	if !strings.HasPrefix(string(data), "GIF8") {
		t.Errorf("bad gif signature: %q", data[:6])
	}
}

func TestWriteGIFEmpty(t *testing.T) {
	err := WriteGIF(filepath.Join(t.TempDir(), "none.gif"), nil, 2)
	if !errors.Is(err, ErrNoFrames) {
		t.Errorf("got %v, want ErrNoFrames", err)
	}
}
