package tui

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sophialilleengen/mwlmc/internal/config"
	"github.com/sophialilleengen/mwlmc/internal/mkdata"
	"github.com/sophialilleengen/mwlmc/internal/model"
	"github.com/sophialilleengen/mwlmc/internal/viz"
)

func testModel(t *testing.T) *model.MWLMC {
	t.Helper()
	dir := t.TempDir()
	if err := mkdata.Generate(dir, mkdata.DefaultParams(), zerolog.Nop()); err != nil {
		t.Fatalf("generate data: %v", err)
	}
	cfg, err := config.LoadDir(dir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	m, err := model.New(cfg.ModelConfig(dir))
	if err != nil {
		t.Fatalf("build model: %v", err)
	}
	return m
}

func key(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	solarPos = r3.Vec{X: -8.27}
	solarVel = r3.Vec{Y: 240}
)

func TestNewLiveDefaults(t *testing.T) {
	lm, err := NewLive(testModel(t), "solar", solarPos, solarVel, model.Options{})
	if err != nil {
		t.Fatalf("NewLive: %v", err)
	}
	if lm.t0 != model.DefaultTBegin || lm.tEnd != model.DefaultTEnd || lm.dt != model.DefaultDt {
		t.Errorf("defaults not applied: t0=%g tEnd=%g dt=%g", lm.t0, lm.tEnd, lm.dt)
	}
	if lm.traj.Len() != 1 {
		t.Fatalf("fresh view has %d samples, want 1", lm.traj.Len())
	}
	if math.Abs(lm.radius[0]-8.27) > 1e-9 {
		t.Errorf("initial radius %g, want 8.27", lm.radius[0])
	}
}

func TestNewLiveBadOptions(t *testing.T) {
	mw := testModel(t)
	if _, err := NewLive(mw, "x", solarPos, solarVel, model.Options{TBegin: -1, TEnd: 0, Dt: -0.1}); err == nil {
		t.Error("negative step accepted")
	}
	if _, err := NewLive(mw, "x", solarPos, solarVel, model.Options{TBegin: 0, TEnd: -1, Dt: 0.002}); err == nil {
		t.Error("empty timespan accepted")
	}
	if _, err := NewLive(mw, "x", solarPos, solarVel, model.Options{TBegin: -1, TEnd: 0, Integrator: "sorcery"}); err == nil {
		t.Error("unknown integrator accepted")
	}
}

func TestLiveAdvance(t *testing.T) {
	lm, err := NewLive(testModel(t), "solar", solarPos, solarVel, model.Options{})
	if err != nil {
		t.Fatalf("NewLive: %v", err)
	}
	lm.advance()
	if lm.steps != stepsPerTick {
		t.Errorf("advance took %d steps, want %d", lm.steps, stepsPerTick)
	}
	if lm.traj.Len() != 1+stepsPerTick {
		t.Errorf("trajectory has %d samples, want %d", lm.traj.Len(), 1+stepsPerTick)
	}
	if lm.t <= lm.t0 {
		t.Error("time did not advance")
	}
}

func TestLiveKeys(t *testing.T) {
	lm, err := NewLive(testModel(t), "solar", solarPos, solarVel, model.Options{})
	if err != nil {
		t.Fatalf("NewLive: %v", err)
	}

	next, _ := lm.Update(key(" "))
	lm = next.(LiveModel)
	if lm.running {
		t.Error("space did not pause")
	}

	next, _ = lm.Update(key("p"))
	lm = next.(LiveModel)
	if lm.plane != viz.PlaneXZ {
		t.Errorf("plane %v after p, want x/z", lm.plane)
	}

	next, _ = lm.Update(key("3"))
	lm = next.(LiveModel)
	if !lm.threeD {
		t.Error("3 did not switch view")
	}

	next, cmd := lm.Update(key("q"))
	lm = next.(LiveModel)
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestLiveRestart(t *testing.T) {
	lm, err := NewLive(testModel(t), "solar", solarPos, solarVel, model.Options{})
	if err != nil {
		t.Fatalf("NewLive: %v", err)
	}
	lm.advance()
	lm.advance()

	next, _ := lm.Update(key("r"))
	lm = next.(LiveModel)
	if lm.traj.Len() != 1 || lm.steps != 0 || lm.t != lm.t0 {
		t.Errorf("restart left %d samples at t=%g", lm.traj.Len(), lm.t)
	}
}

func TestLiveRunsToCompletion(t *testing.T) {
	lm, err := NewLive(testModel(t), "solar", solarPos, solarVel, model.Options{
		TBegin: -0.01, TEnd: 0, Dt: 0.002,
	})
	if err != nil {
		t.Fatalf("NewLive: %v", err)
	}

	next, _ := lm.Update(TickMsg{})
	lm = next.(LiveModel)
	if !lm.done {
		t.Fatalf("five steps of 0.002 should finish a 0.01 span, t=%g", lm.t)
	}
	if !strings.Contains(lm.View(), "DONE") {
		t.Error("view does not report completion")
	}

	// Further ticks must not integrate past the end.
	steps := lm.steps
	next, _ = lm.Update(TickMsg{})
	lm = next.(LiveModel)
	if lm.steps != steps {
		t.Error("done view kept integrating")
	}
}

func TestLiveViewContents(t *testing.T) {
	lm, err := NewLive(testModel(t), "solar", solarPos, solarVel, model.Options{})
	if err != nil {
		t.Fatalf("NewLive: %v", err)
	}
	next, _ := lm.Update(TickMsg{})
	lm = next.(LiveModel)

	view := lm.View()
	for _, want := range []string{"SOLAR", "Time", "Radius", "kpc", "km/s"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
