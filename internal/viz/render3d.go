package viz

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sophialilleengen/mwlmc/internal/model"
)

// Camera projects rotated world points onto the canvas subpixel grid
// with a simple perspective divide.
type Camera struct {
	Distance         float64 // viewpoint offset along +z
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 5, Near: 0.1, Zoom: 1}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// RotatePoint applies the camera's Euler rotations.
func (c *Camera) RotatePoint(p r3.Vec) r3.Vec {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project converts a world point to subpixel coordinates. It reports
// the view depth and whether the point lands on the canvas.
func (c *Camera) Project(p r3.Vec, sw, sh int) (x, y int, depth float64, ok bool) {
	rot := r3.Scale(c.Zoom, c.RotatePoint(p))
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	persp := c.Distance / (c.Distance - rot.Z)
	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	pScale := minDim / 3.0
	x = int(rot.X*persp*pScale) + sw/2
	y = int(-rot.Y*persp*pScale) + sh/2
	return x, y, rot.Z, x >= 0 && x < sw && y >= 0 && y < sh
}

type Edge struct {
	Start, End r3.Vec
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe           { return &Wireframe{} }
func (w *Wireframe) AddEdge(s, e r3.Vec) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p r3.Vec)   { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Clear()              { w.Edges = w.Edges[:0] }

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe onto the canvas back to front.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	sw, sh := c.Width*2, c.Height*4
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, sw, sh)
		x2, y2, d2, v2 := cam.Project(e.End, sw, sh)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}

// TrajectoryWireframe converts an orbit into a polyline wireframe,
// rescaled so its largest extent fits the unit viewing cube. The galaxy
// z axis maps to screen up. maxPoints > 0 thins long trajectories.
func TrajectoryWireframe(tr *model.Trajectory, maxPoints int) *Wireframe {
	w := NewWireframe()
	if tr == nil || tr.Len() == 0 {
		return w
	}
	n := tr.Len()
	stride := 1
	if maxPoints > 0 && n > maxPoints {
		stride = (n + maxPoints - 1) / maxPoints
	}

	var ext float64
	for _, axis := range []int{0, 1, 2} {
		lo, hi := minMax(tr.Axis(axis))
		ext = math.Max(ext, math.Max(math.Abs(lo), math.Abs(hi)))
	}
	if ext == 0 {
		ext = 1
	}
	s := 1 / ext

	at := func(i int) r3.Vec {
		_, pos, _ := tr.At(i)
		return r3.Vec{X: pos.X * s, Y: pos.Z * s, Z: pos.Y * s}
	}

	prev := at(0)
	for i := stride; i < n; i += stride {
		cur := at(i)
		w.AddEdge(prev, cur)
		prev = cur
	}
	last := at(n - 1)
	if prev != last {
		w.AddEdge(prev, last)
	}
	w.AddPoint(last)
	return w
}

// AxesWireframe builds an orientation cross at the origin.
func AxesWireframe(l float64) *Wireframe {
	w := NewWireframe()
	o := r3.Vec{}
	w.AddEdge(o, r3.Vec{X: l})
	w.AddEdge(o, r3.Vec{Y: l})
	w.AddEdge(o, r3.Vec{Z: l})
	return w
}
