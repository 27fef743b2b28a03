package viz

import (
	"fmt"
	"math"

	"github.com/sophialilleengen/mwlmc/internal/model"
)

// Plane selects which pair of spatial axes a trajectory is projected
// onto.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

func (p Plane) axes() (i, j int) {
	switch p {
	case PlaneXZ:
		return 0, 2
	case PlaneYZ:
		return 1, 2
	default:
		return 0, 1
	}
}

func (p Plane) String() string {
	switch p {
	case PlaneXZ:
		return "x/z"
	case PlaneYZ:
		return "y/z"
	default:
		return "x/y"
	}
}

// Next cycles through the three planes.
func (p Plane) Next() Plane { return (p + 1) % 3 }

// View maps world coordinates in kpc onto a braille canvas. The world
// window keeps a square aspect per subpixel so circular orbits render
// round.
type View struct {
	canvas                 *Canvas
	xmin, xmax, ymin, ymax float64
}

func NewView(cols, rows int) *View {
	return &View{
		canvas: NewCanvas(cols, rows),
		xmin:   -1, xmax: 1,
		ymin: -1, ymax: 1,
	}
}

func (v *View) Canvas() *Canvas { return v.canvas }

func (v *View) Clear() { v.canvas.Clear() }

// Window reports the current world extent.
func (v *View) Window() (xmin, xmax, ymin, ymax float64) {
	return v.xmin, v.xmax, v.ymin, v.ymax
}

// Fit recentres the window on the data with a little padding. Both axes
// share one kpc-per-subpixel scale.
func (v *View) Fit(xs, ys []float64) {
	if len(xs) == 0 || len(ys) == 0 {
		return
	}
	xlo, xhi := minMax(xs)
	ylo, yhi := minMax(ys)

	sw := float64(v.canvas.Width*2 - 1)
	sh := float64(v.canvas.Height*4 - 1)

	scale := math.Max((xhi-xlo)/sw, (yhi-ylo)/sh) * 1.1
	if scale <= 0 {
		scale = 1.0 / sw
	}

	cx := (xlo + xhi) / 2
	cy := (ylo + yhi) / 2
	v.xmin, v.xmax = cx-scale*sw/2, cx+scale*sw/2
	v.ymin, v.ymax = cy-scale*sh/2, cy+scale*sh/2
}

func (v *View) project(x, y float64) (int, int) {
	sw := float64(v.canvas.Width*2 - 1)
	sh := float64(v.canvas.Height*4 - 1)
	px := int(math.Round((x - v.xmin) / (v.xmax - v.xmin) * sw))
	py := int(math.Round((v.ymax - y) / (v.ymax - v.ymin) * sh))
	return px, py
}

// Polyline draws connected segments through the coordinate pairs.
func (v *View) Polyline(xs, ys []float64) {
	if len(xs) != len(ys) || len(xs) == 0 {
		return
	}
	px, py := v.project(xs[0], ys[0])
	if len(xs) == 1 {
		v.canvas.Set(px, py)
		return
	}
	for i := 1; i < len(xs); i++ {
		qx, qy := v.project(xs[i], ys[i])
		v.canvas.DrawLine(px, py, qx, qy)
		px, py = qx, qy
	}
}

// Dot lights the single subpixel nearest the world point.
func (v *View) Dot(x, y float64) {
	v.canvas.Set(v.project(x, y))
}

// Mark draws the 3x3 position blot at the world point.
func (v *View) Mark(x, y float64) {
	v.canvas.Mark(v.project(x, y))
}

// Trajectory fits the window to the orbit's extent in the chosen plane
// and draws it as a polyline.
func (v *View) Trajectory(tr *model.Trajectory, plane Plane) {
	if tr == nil || tr.Len() == 0 {
		return
	}
	i, j := plane.axes()
	xs, ys := tr.Axis(i), tr.Axis(j)
	v.Fit(xs, ys)
	v.Polyline(xs, ys)
}

// Caption describes the plotted window, suitable for printing under the
// canvas.
func (v *View) Caption(plane Plane) string {
	return fmt.Sprintf("%s  [%.1f, %.1f] x [%.1f, %.1f] kpc",
		plane, v.xmin, v.xmax, v.ymin, v.ymax)
}

func (v *View) String() string { return v.canvas.String() }

func minMax(vals []float64) (lo, hi float64) {
	lo, hi = vals[0], vals[0]
	for _, x := range vals[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}
