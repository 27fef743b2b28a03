// Package viz renders orbits in the terminal.
//
// A braille [Canvas] packs a 2x4 subpixel grid into each character
// cell. [View] maps a trajectory plane in kpc onto the canvas with a
// square-aspect world window, and [Camera] projects full
// three-dimensional trajectories as rotatable wireframes. Colour comes
// from a small set of [Theme] palettes that the interactive views cycle
// at runtime.
//
//	v := viz.NewView(80, 24)
//	v.Trajectory(tr, viz.PlaneXY)
//	fmt.Print(v.String())
//	fmt.Println(v.Caption(viz.PlaneXY))
package viz
