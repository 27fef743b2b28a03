package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sophialilleengen/mwlmc/internal/config"
	"github.com/sophialilleengen/mwlmc/internal/integrators"
	"github.com/sophialilleengen/mwlmc/internal/model"
	"github.com/sophialilleengen/mwlmc/internal/viz"
)

type screen int

const (
	screenMenu screen = iota
	screenSetup
	screenLive
)

type paramField struct {
	label string
	value float64
	step  float64
	unit  string
}

// App walks preset selection, initial-condition tuning, and the live
// orbit view.
type App struct {
	mw   *model.MWLMC
	base model.Options

	state   screen
	presets []string
	cursor  int

	fields   []paramField
	sel      int
	integs   []string
	integSel int

	live LiveModel
	err  error
}

func NewApp(mw *model.MWLMC, opts model.Options) App {
	names := integrators.Names()
	sel := 0
	for i, n := range names {
		if n == opts.Integrator {
			sel = i
		}
	}
	return App{
		mw:       mw,
		base:     opts,
		presets:  config.ListPresets(),
		integs:   names,
		integSel: sel,
	}
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == screenLive {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			a.state = screenSetup
			return a, nil
		}
		lm, cmd := a.live.Update(msg)
		a.live = lm.(LiveModel)
		return a, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch a.state {
	case screenMenu:
		return a.menuKey(key)
	case screenSetup:
		return a.setupKey(key)
	}
	return a, nil
}

func (a App) menuKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.presets)-1 {
			a.cursor++
		}
	case "enter":
		preset, ok := config.GetPreset(a.presets[a.cursor])
		if !ok {
			return a, nil
		}
		a.fields = setupFields(preset, a.base)
		a.sel = 0
		a.err = nil
		a.state = screenSetup
	}
	return a, nil
}

func setupFields(p config.OrbitPreset, opts model.Options) []paramField {
	return []paramField{
		{"x", p.Pos[0], 0.5, "kpc"},
		{"y", p.Pos[1], 0.5, "kpc"},
		{"z", p.Pos[2], 0.5, "kpc"},
		{"vx", p.Vel[0], 10, "km/s"},
		{"vy", p.Vel[1], 10, "km/s"},
		{"vz", p.Vel[2], 10, "km/s"},
		{"t begin", opts.TBegin, 0.1, "virial"},
		{"t end", opts.TEnd, 0.1, "virial"},
		{"dt", opts.Dt, 0.001, "virial"},
	}
}

func (a App) setupKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc":
		a.state = screenMenu
	case "up", "k":
		if a.sel > 0 {
			a.sel--
		}
	case "down", "j":
		if a.sel < len(a.fields)-1 {
			a.sel++
		}
	case "left", "h":
		a.fields[a.sel].value -= a.fields[a.sel].step
	case "right", "l":
		a.fields[a.sel].value += a.fields[a.sel].step
	case "i":
		a.integSel = (a.integSel + 1) % len(a.integs)
	case "enter":
		return a.launch()
	}
	return a, nil
}

func (a App) launch() (tea.Model, tea.Cmd) {
	f := a.fields
	pos := r3.Vec{X: f[0].value, Y: f[1].value, Z: f[2].value}
	vel := r3.Vec{X: f[3].value, Y: f[4].value, Z: f[5].value}
	opts := model.Options{
		TBegin:     f[6].value,
		TEnd:       f[7].value,
		Dt:         f[8].value,
		Integrator: a.integs[a.integSel],
	}

	live, err := NewLive(a.mw, a.presets[a.cursor], pos, vel, opts)
	if err != nil {
		a.err = err
		return a, nil
	}
	a.live = live
	a.err = nil
	a.state = screenLive
	return a, a.live.Init()
}

func (a App) View() string {
	switch a.state {
	case screenLive:
		return a.live.View()
	case screenSetup:
		return a.viewSetup()
	default:
		return a.viewMenu()
	}
}

func (a App) viewMenu() string {
	var s strings.Builder
	s.WriteString(viz.TitleStyle().Render("MWLMC ORBITS") + "\n\n")
	s.WriteString("Pick a launch preset:\n\n")
	for i, name := range a.presets {
		line := fmt.Sprintf("  %s", name)
		if i == a.cursor {
			line = viz.AccentStyle().Render("> " + name)
		}
		s.WriteString(line + "\n")
	}
	if preset, ok := config.GetPreset(a.presets[a.cursor]); ok {
		s.WriteString("\n" + viz.HelpStyle().Render(preset.Note) + "\n")
	}
	s.WriteString(viz.HelpStyle().Render("\nj/k move  enter select  q quit"))
	return viz.PanelStyle().Render(s.String())
}

func (a App) viewSetup() string {
	var s strings.Builder
	s.WriteString(viz.TitleStyle().Render(strings.ToUpper(a.presets[a.cursor])) + "\n\n")
	for i, f := range a.fields {
		line := fmt.Sprintf("%-8s %10.3f %s", f.label, f.value, f.unit)
		if i == a.sel {
			s.WriteString(viz.AccentStyle().Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + viz.ValueStyle().Render(line) + "\n")
		}
	}
	s.WriteString("\n" + viz.LabelStyle().Render("scheme") +
		viz.ValueStyle().Render(a.integs[a.integSel]) + "\n")
	if a.err != nil {
		s.WriteString("\n" + viz.AccentStyle().Render(a.err.Error()) + "\n")
	}
	s.WriteString(viz.HelpStyle().Render(
		"\nj/k field  h/l adjust  i scheme\nenter launch  esc back  q quit"))
	return viz.PanelStyle().Render(s.String())
}

// RunInteractive opens the preset browser in the alternate screen.
func RunInteractive(mw *model.MWLMC, opts model.Options) error {
	_, err := tea.NewProgram(NewApp(mw, opts), tea.WithAltScreen()).Run()
	return err
}
