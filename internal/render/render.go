// Package render draws integrated orbits to image files.
package render

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/sophialilleengen/mwlmc/internal/model"
)

// ErrEmptyTrajectory indicates a render request with no samples. No
// file is created.
var ErrEmptyTrajectory = errors.New("render: trajectory has no samples")

// Orbit writes the x-vs-y projection of the trajectory to path,
// overwriting any existing file. The output format follows the file
// extension (.png, .svg, .pdf).
func Orbit(tr *model.Trajectory, path string) error {
	if tr == nil || tr.Len() == 0 {
		return ErrEmptyTrajectory
	}

	p := plot.New()
	p.X.Label.Text = "x [kpc]"
	p.Y.Label.Text = "y [kpc]"

	xs, ys := tr.Axis(0), tr.Axis(1)
	xys := make(plotter.XYs, tr.Len())
	for i := range xys {
		xys[i].X = xs[i]
		xys[i].Y = ys[i]
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	line.LineStyle.Width = vg.Points(1)
	line.LineStyle.Color = color.Black
	p.Add(line)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
