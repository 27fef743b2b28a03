// Package tui implements the interactive terminal front end: a preset
// browser and a live orbit view that integrates while you watch.
package tui

import (
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sophialilleengen/mwlmc/internal/export"
	"github.com/sophialilleengen/mwlmc/internal/integrators"
	"github.com/sophialilleengen/mwlmc/internal/model"
	"github.com/sophialilleengen/mwlmc/internal/phase"
	"github.com/sophialilleengen/mwlmc/internal/viz"
)

const (
	canvasCols   = 64
	canvasRows   = 22
	historyCap   = 600
	stepsPerTick = 5
	gifPath      = "orbit.gif"
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// energySource is satisfied by the model's phase-space system.
type energySource interface {
	EnergyAt(x phase.State, t float64) float64
}

// LiveModel integrates one test particle step by step and renders the
// growing orbit. All integration state is virial; display is physical.
type LiveModel struct {
	mw    *model.MWLMC
	name  string
	sys   phase.System
	integ phase.Integrator

	x0, x  phase.State
	t0, t  float64
	tEnd   float64
	dt     float64
	steps  int
	done   bool
	failed error

	traj    *model.Trajectory
	radius  []float64
	energy0 float64

	view      *viz.View
	plane     viz.Plane
	cam       *viz.Camera
	threeD    bool
	running   bool
	showHelp  bool
	frame     int
	recording bool
	frames    []*image.Paletted
}

// NewLive prepares a live view for the given physical initial
// conditions. Zero options fall back to the model defaults.
func NewLive(mw *model.MWLMC, name string, pos, vel r3.Vec, opts model.Options) (LiveModel, error) {
	def := model.DefaultOptions()
	if opts.TBegin == 0 && opts.TEnd == 0 {
		opts.TBegin, opts.TEnd = def.TBegin, def.TEnd
	}
	if opts.Dt == 0 {
		opts.Dt = def.Dt
	}
	if opts.Integrator == "" {
		opts.Integrator = def.Integrator
	}
	if opts.Dt <= 0 {
		return LiveModel{}, fmt.Errorf("tui: step size %g must be positive", opts.Dt)
	}
	if opts.TEnd <= opts.TBegin {
		return LiveModel{}, fmt.Errorf("tui: empty timespan [%g, %g]", opts.TBegin, opts.TEnd)
	}

	integ, err := integrators.New(opts.Integrator)
	if err != nil {
		return LiveModel{}, fmt.Errorf("tui: %w", err)
	}

	sc := mw.Scaling()
	x0 := phase.NewState(sc.PositionToVirial(pos), sc.VelocityVecToVirial(vel))

	m := LiveModel{
		mw:      mw,
		name:    name,
		sys:     mw.System(),
		integ:   integ,
		x0:      x0,
		t0:      opts.TBegin,
		tEnd:    opts.TEnd,
		dt:      opts.Dt,
		view:    viz.NewView(canvasCols, canvasRows),
		plane:   viz.PlaneXY,
		cam:     viz.NewCamera(),
		running: true,
	}
	m.restart()
	return m, nil
}

// restart rewinds the live integration to its initial conditions.
func (m *LiveModel) restart() {
	m.x = m.x0.Clone()
	m.t = m.t0
	m.steps = 0
	m.done = false
	m.failed = nil
	m.traj = &model.Trajectory{}
	m.radius = m.radius[:0]
	if es, ok := m.sys.(energySource); ok {
		m.energy0 = es.EnergyAt(m.x, m.t)
	}
	m.record()
	m.redraw()
}

// record appends the current state to the displayed trajectory.
func (m *LiveModel) record() {
	sc := m.mw.Scaling()
	pos := sc.PositionToPhysical(m.x.Pos())
	vel := sc.VelocityVecToPhysical(m.x.Vel())

	m.traj.T = append(m.traj.T, sc.TimeToPhysical(m.t))
	m.traj.X = append(m.traj.X, pos.X)
	m.traj.Y = append(m.traj.Y, pos.Y)
	m.traj.Z = append(m.traj.Z, pos.Z)
	m.traj.U = append(m.traj.U, vel.X)
	m.traj.V = append(m.traj.V, vel.Y)
	m.traj.W = append(m.traj.W, vel.Z)

	m.radius = append(m.radius, math.Sqrt(pos.X*pos.X+pos.Y*pos.Y+pos.Z*pos.Z))
	if len(m.radius) > historyCap {
		m.radius = m.radius[1:]
	}
}

// advance integrates a handful of steps per frame.
func (m *LiveModel) advance() {
	for i := 0; i < stepsPerTick && !m.done; i++ {
		next := m.integ.Step(m.sys, m.x, m.t, m.dt)
		if !next.IsValid() {
			m.failed = fmt.Errorf("integration diverged at t = %.4f", m.t+m.dt)
			m.done = true
			return
		}
		m.x = next
		m.t += m.dt
		m.steps++
		m.record()
		if m.t >= m.tEnd-1e-12 {
			m.done = true
		}
	}
}

// redraw rebuilds the canvas from the trajectory so far.
func (m *LiveModel) redraw() {
	m.view.Clear()
	if m.threeD {
		wf := viz.TrajectoryWireframe(m.traj, 400)
		viz.Render3D(m.view.Canvas(), viz.AxesWireframe(0.5), m.cam)
		viz.Render3D(m.view.Canvas(), wf, m.cam)
		return
	}
	m.view.Trajectory(m.traj, m.plane)
	if n := m.traj.Len(); n > 0 {
		_, pos, _ := m.traj.At(n - 1)
		switch m.plane {
		case viz.PlaneXZ:
			m.view.Mark(pos.X, pos.Z)
		case viz.PlaneYZ:
			m.view.Mark(pos.Y, pos.Z)
		default:
			m.view.Mark(pos.X, pos.Y)
		}
	}
}

func (m LiveModel) Init() tea.Cmd { return tick() }

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.restart()
		case "p":
			m.plane = m.plane.Next()
			m.redraw()
		case "3":
			m.threeD = !m.threeD
			m.redraw()
		case "x":
			m.cam.RotateX(0.1)
		case "X":
			m.cam.RotateX(-0.1)
		case "y":
			m.cam.RotateY(0.1)
		case "Y":
			m.cam.RotateY(-0.1)
		case "z":
			m.cam.RotateZ(0.1)
		case "Z":
			m.cam.RotateZ(-0.1)
		case "+", "=":
			m.cam.ZoomIn()
		case "-", "_":
			m.cam.ZoomOut()
		case "t":
			viz.CycleTheme()
		case "g":
			if m.recording {
				export.WriteGIF(gifPath, m.frames, 3)
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0, historyCap)
			}
		case "?":
			m.showHelp = !m.showHelp
		}
		return m, nil

	case TickMsg:
		m.frame++
		if m.running && !m.done {
			m.advance()
		}
		m.redraw()
		if m.recording && len(m.frames) < 2000 {
			m.frames = append(m.frames, export.RasterizeCanvas(m.view.Canvas()))
		}
		return m, tick()
	}
	return m, nil
}

func (m LiveModel) status() string {
	switch {
	case m.failed != nil:
		return lipgloss.NewStyle().Bold(true).Foreground(viz.CurrentTheme.Bad).Render("FAILED")
	case m.done:
		return viz.StatusPaused().Render("DONE")
	case !m.running:
		return viz.StatusPaused().Render("PAUSED")
	default:
		return viz.StatusRunning().Render("RUNNING " + viz.Spinner(m.frame))
	}
}

func (m LiveModel) View() string {
	canvasPanel := viz.PanelStyle().Render(
		m.view.String() + viz.HelpStyle().Render(m.caption()))

	var s strings.Builder
	s.WriteString(viz.TitleStyle().Render(strings.ToUpper(m.name)) + "  " + m.status() + "\n\n")

	if len(m.radius) > 1 {
		chart := asciigraph.Plot(m.radius,
			asciigraph.Height(6), asciigraph.Width(34), asciigraph.Caption("r [kpc]"))
		s.WriteString(lipgloss.NewStyle().Foreground(viz.CurrentTheme.Secondary).Render(chart) + "\n\n")
	}

	n := m.traj.Len()
	if n > 0 {
		tGyr, pos, vel := m.traj.At(n - 1)
		speed := math.Sqrt(vel.X*vel.X + vel.Y*vel.Y + vel.Z*vel.Z)
		s.WriteString(viz.LabelStyle().Render("Time") +
			viz.ValueStyle().Render(fmt.Sprintf("%.3f Gyr", tGyr)) + "\n")
		s.WriteString(viz.LabelStyle().Render("Radius") +
			viz.ValueStyle().Render(fmt.Sprintf("%.2f kpc", m.radius[len(m.radius)-1])) + "\n")
		s.WriteString(viz.LabelStyle().Render("Speed") +
			viz.ValueStyle().Render(fmt.Sprintf("%.1f km/s", speed)) + "\n")
		s.WriteString(viz.LabelStyle().Render("Height") +
			viz.ValueStyle().Render(fmt.Sprintf("%.2f kpc", pos.Z)) + "\n")
	}
	s.WriteString(viz.LabelStyle().Render("Steps") +
		viz.ValueStyle().Render(fmt.Sprintf("%d", m.steps)) + "\n")
	if es, ok := m.sys.(energySource); ok && m.energy0 != 0 {
		drift := math.Abs((es.EnergyAt(m.x, m.t) - m.energy0) / m.energy0)
		s.WriteString(viz.LabelStyle().Render("E drift") +
			viz.ValueStyle().Render(fmt.Sprintf("%.2e", drift)) + "\n")
	}
	if m.failed != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(viz.CurrentTheme.Bad).Render(m.failed.Error()) + "\n")
	}

	s.WriteString("\n" + viz.Separator(34) + "\n")
	frac := (m.t - m.t0) / (m.tEnd - m.t0)
	s.WriteString(viz.ProgressBar(frac, 34) + "\n")

	if m.recording {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(viz.CurrentTheme.Bad).Render("● REC") + "\n")
	}
	s.WriteString(viz.HelpStyle().Render(
		"\nSP pause  R restart  P plane  3 view\nT theme  G gif  ? help  Q quit"))

	statsPanel := viz.PanelStyle().Render(s.String())
	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasPanel, " ", statsPanel)

	if m.showHelp {
		return helpOverlay() + "\n" + main
	}
	return main
}

func (m LiveModel) caption() string {
	if m.threeD {
		return fmt.Sprintf("3d  rot %.1f/%.1f/%.1f  zoom %.1fx",
			m.cam.RotX, m.cam.RotY, m.cam.RotZ, m.cam.Zoom)
	}
	return m.view.Caption(m.plane)
}

func helpOverlay() string {
	return viz.PanelStyle().Render(strings.TrimSpace(`
Space      pause / resume
R          restart from the initial conditions
P          cycle projection plane (x/y, x/z, y/z)
3          toggle 3D wireframe view
X/Y/Z      rotate camera (shift reverses)
+/-        zoom
T          cycle colour theme
G          toggle GIF recording (writes orbit.gif)
Q          quit`))
}

// RunLive starts the live view in the alternate screen.
func RunLive(mw *model.MWLMC, name string, pos, vel r3.Vec, opts model.Options) error {
	m, err := NewLive(mw, name, pos, vel, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
