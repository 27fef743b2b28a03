package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sophialilleengen/mwlmc/internal/analysis"
	"github.com/sophialilleengen/mwlmc/internal/config"
	"github.com/sophialilleengen/mwlmc/internal/export"
	"github.com/sophialilleengen/mwlmc/internal/field"
	"github.com/sophialilleengen/mwlmc/internal/integrators"
	"github.com/sophialilleengen/mwlmc/internal/mkdata"
	"github.com/sophialilleengen/mwlmc/internal/model"
	"github.com/sophialilleengen/mwlmc/internal/phase"
	"github.com/sophialilleengen/mwlmc/internal/render"
	"github.com/sophialilleengen/mwlmc/internal/storage"
	"github.com/sophialilleengen/mwlmc/internal/tui"
	"github.com/sophialilleengen/mwlmc/internal/units"
	"github.com/sophialilleengen/mwlmc/internal/viz"
)

var version = "dev"

var (
	verbose bool

	// Initial conditions, kpc and km/s.
	presetName       string
	posX, posY, posZ float64
	velX, velY, velZ float64

	// Integration span, virial time.
	tBegin, tEnd, dtStep float64
	integName            string
	backward             bool
	saveRun              bool

	// Field and centre queries.
	queryT                 float64
	queryX, queryY, queryZ float64
	virialIO               bool
	unitName               string
	trackCentres           bool

	// Plot and export output.
	outPath      string
	asciiPlot    bool
	planeName    string
	orbitColumns bool

	// Orbit analysis.
	withLyapunov bool

	// Dataset generation.
	genSnapshots int
	genTBegin    float64
	genLMCMass   float64
)

const demoImage = "orbittest.png"

func main() {
	config.InitViper()

	rootCmd := &cobra.Command{
		Use:   "mwlmc",
		Short: "Milky Way + LMC potential: orbits, fields, expansion centres",
		RunE:  runInteractive,
	}
	rootCmd.PersistentFlags().String("data", config.DefaultDataDir, "model data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	_ = viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "run the classic smoke sequence: solar orbit, png, fields, centres",
		RunE:  runDemo,
	}

	orbitCmd := &cobra.Command{
		Use:   "orbit",
		Short: "integrate a test-particle orbit",
		RunE:  runOrbit,
	}
	addConditionFlags(orbitCmd)
	addSpanFlags(orbitCmd)
	orbitCmd.Flags().BoolVar(&backward, "rewind", false, "integrate backward from present-day conditions")
	orbitCmd.Flags().BoolVar(&saveRun, "save", false, "store the run under <data>/runs")

	fieldsCmd := &cobra.Command{
		Use:   "fields [component]",
		Short: "force, density and potential of one component (or all)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFields,
	}
	fieldsCmd.Flags().Float64Var(&queryT, "t", 0, "query time [Gyr]")
	fieldsCmd.Flags().Float64Var(&queryX, "x", -8.27, "x [kpc]")
	fieldsCmd.Flags().Float64Var(&queryY, "y", 0, "y [kpc]")
	fieldsCmd.Flags().Float64Var(&queryZ, "z", 0.021, "z [kpc]")
	fieldsCmd.Flags().BoolVar(&virialIO, "virial", false, "take inputs and report in virial units")

	centresCmd := &cobra.Command{
		Use:   "centres",
		Short: "expansion centres of every component",
		RunE:  runCentres,
	}
	centresCmd.Flags().Float64Var(&queryT, "t", 0, "query time [Gyr]")
	centresCmd.Flags().StringVar(&unitName, "units", "both", "virial, physical or both")
	centresCmd.Flags().BoolVar(&trackCentres, "track", false, "summarize the full centre trajectories")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  runList,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run]",
		Short: "print run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	exportCmd.Flags().BoolVar(&orbitColumns, "orbit", false, "print the orbit as t x y z u v w columns instead")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run]",
		Short: "write a stored orbit as an svg path",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportSVG,
	}
	exportSVGCmd.Flags().StringVar(&outPath, "out", "orbit.svg", "output file")
	exportSVGCmd.Flags().StringVar(&planeName, "plane", "xy", "projection plane (xy, xz, yz)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run]",
		Short: "radial structure and energy drift of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().BoolVar(&withLyapunov, "lyapunov", false, "estimate the largest Lyapunov exponent")

	plotCmd := &cobra.Command{
		Use:   "plot [run]",
		Short: "plot a stored orbit",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlot,
	}
	plotCmd.Flags().StringVar(&outPath, "out", "orbit.png", "output image (.png, .svg, .pdf)")
	plotCmd.Flags().BoolVar(&asciiPlot, "ascii", false, "draw to the terminal instead of a file")
	plotCmd.Flags().StringVar(&planeName, "plane", "xy", "projection plane (xy, xz, yz)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch an orbit integrate",
		RunE:  runLive,
	}
	addConditionFlags(liveCmd)
	addSpanFlags(liveCmd)

	interactiveCmd := &cobra.Command{
		Use:   "interactive",
		Short: "browse presets and launch orbits",
		RunE:  runInteractive,
	}

	mkdataCmd := &cobra.Command{
		Use:   "mkdata",
		Short: "generate a self-consistent data directory",
		RunE:  runMkdata,
	}
	mkdataCmd.Flags().IntVar(&genSnapshots, "snapshots", 0, "coefficient snapshots (0 keeps the default)")
	mkdataCmd.Flags().Float64Var(&genTBegin, "tbegin", 0, "earliest snapshot time [virial] (0 keeps the default)")
	mkdataCmd.Flags().Float64Var(&genLMCMass, "lmc-mass", 0, "LMC mass [virial] (0 keeps the default)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list the built-in initial conditions",
		RunE:  runPresets,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("mwlmc", version)
		},
	}

	rootCmd.AddCommand(demoCmd, orbitCmd, fieldsCmd, centresCmd, listCmd, exportCmd,
		exportSVGCmd, analyzeCmd, plotCmd, liveCmd, interactiveCmd, mkdataCmd, presetsCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addConditionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&presetName, "preset", "", "initial conditions preset (see: mwlmc presets)")
	cmd.Flags().Float64Var(&posX, "x", -8.27, "initial x [kpc]")
	cmd.Flags().Float64Var(&posY, "y", 0, "initial y [kpc]")
	cmd.Flags().Float64Var(&posZ, "z", 0, "initial z [kpc]")
	cmd.Flags().Float64Var(&velX, "vx", 0, "initial vx [km/s]")
	cmd.Flags().Float64Var(&velY, "vy", 240, "initial vy [km/s]")
	cmd.Flags().Float64Var(&velZ, "vz", 0, "initial vz [km/s]")
}

func addSpanFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&tBegin, "tbegin", model.DefaultTBegin, "start time [virial]")
	cmd.Flags().Float64Var(&tEnd, "tend", model.DefaultTEnd, "end time [virial]")
	cmd.Flags().Float64Var(&dtStep, "dt", model.DefaultDt, "timestep [virial]")
	cmd.Flags().StringVar(&integName, "integrator", model.DefaultIntegrator,
		"integration scheme ("+strings.Join(integrators.Names(), ", ")+")")
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()
}

// loadModel assembles the model from the resolved data directory.
func loadModel() (*model.MWLMC, *config.Config, error) {
	log := newLogger()
	dir := config.DataDir()

	cfg, err := config.LoadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	mc := cfg.ModelConfig(dir)
	mc.Logger = &log

	mw, err := model.New(mc)
	if err != nil {
		return nil, nil, err
	}
	return mw, cfg, nil
}

func runsDir() string {
	return filepath.Join(config.DataDir(), "runs")
}

// initialConditions resolves a preset, then lets explicit coordinate
// flags override individual components.
func initialConditions(cmd *cobra.Command) (pos, vel r3.Vec, name string, err error) {
	pos = r3.Vec{X: posX, Y: posY, Z: posZ}
	vel = r3.Vec{X: velX, Y: velY, Z: velZ}
	name = "custom"

	if presetName == "" {
		return pos, vel, name, nil
	}

	p, ok := config.GetPreset(presetName)
	if !ok {
		return pos, vel, "", fmt.Errorf("unknown preset %q (have: %s)",
			presetName, strings.Join(config.ListPresets(), ", "))
	}
	name = presetName
	pos = r3.Vec{X: p.Pos[0], Y: p.Pos[1], Z: p.Pos[2]}
	vel = r3.Vec{X: p.Vel[0], Y: p.Vel[1], Z: p.Vel[2]}

	// Explicit coordinate flags override the preset per component.
	if cmd.Flags().Changed("x") {
		pos.X = posX
	}
	if cmd.Flags().Changed("y") {
		pos.Y = posY
	}
	if cmd.Flags().Changed("z") {
		pos.Z = posZ
	}
	if cmd.Flags().Changed("vx") {
		vel.X = velX
	}
	if cmd.Flags().Changed("vy") {
		vel.Y = velY
	}
	if cmd.Flags().Changed("vz") {
		vel.Z = velZ
	}
	return pos, vel, name, nil
}

// spanOptions starts from the data directory defaults and lets changed
// flags win.
func spanOptions(cmd *cobra.Command, cfg *config.Config) model.Options {
	opts := cfg.OrbitOptions()
	if cmd.Flags().Changed("tbegin") {
		opts.TBegin = tBegin
	}
	if cmd.Flags().Changed("tend") {
		opts.TEnd = tEnd
	}
	if cmd.Flags().Changed("dt") {
		opts.Dt = dtStep
	}
	if cmd.Flags().Changed("integrator") {
		opts.Integrator = integName
	}
	return opts
}

// reportLine renders one field sample as a single report line.
func reportLine(label string, s field.Sample) string {
	return fmt.Sprintf("%s: %v %v %v %v %v",
		label, s.Force.X, s.Force.Y, s.Force.Z, s.Density, s.Potential)
}

func runDemo(cmd *cobra.Command, args []string) error {
	mw, _, err := loadModel()
	if err != nil {
		return err
	}
	return demoSequence(cmd.Context(), mw, os.Stdout, demoImage)
}

// demoSequence integrates a solar-neighbourhood orbit, renders it, then
// queries every component's fields and the expansion centres in both
// unit conventions.
func demoSequence(ctx context.Context, mw *model.MWLMC, w io.Writer, pngPath string) error {
	tr, err := mw.Orbit(ctx, r3.Vec{X: -8.27}, r3.Vec{Y: 240}, model.Options{})
	if err != nil {
		return err
	}
	if err := render.Orbit(tr, pngPath); err != nil {
		return err
	}
	fmt.Fprintf(w, "orbit: %d samples -> %s\n", tr.Len(), pngPath)

	pos := r3.Vec{X: -8.27, Y: 0, Z: 0.021}
	for _, comp := range mw.Components() {
		s, err := mw.Fields(comp, 0, pos)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, reportLine(comp.String(), s))
	}

	for _, u := range []units.Unit{units.Virial, units.Physical} {
		cen, err := mw.ExpansionCentres(0, u)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "centres (%s):\n", u)
		for i, comp := range mw.Components() {
			fmt.Fprintf(w, "  %-4s %12.6g %12.6g %12.6g\n", comp, cen[i].X, cen[i].Y, cen[i].Z)
		}
	}
	return nil
}

func runOrbit(cmd *cobra.Command, args []string) error {
	mw, cfg, err := loadModel()
	if err != nil {
		return err
	}
	pos, vel, name, err := initialConditions(cmd)
	if err != nil {
		return err
	}
	opts := spanOptions(cmd, cfg)

	start := time.Now()
	var tr *model.Trajectory
	if backward {
		tr, err = mw.Rewind(cmd.Context(), pos, vel, opts)
	} else {
		tr, err = mw.Orbit(cmd.Context(), pos, vel, opts)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	r := tr.Radius()
	fmt.Printf("integrated %s: %d samples in %v\n", name, tr.Len(), elapsed.Round(time.Millisecond))
	fmt.Printf("span: [%.3f, %.3f] Gyr   r: [%.2f, %.2f] kpc\n",
		tr.T[0], tr.T[tr.Len()-1], floats.Min(r), floats.Max(r))

	if !saveRun {
		return nil
	}

	st := storage.New(runsDir())
	if err := st.Init(); err != nil {
		return err
	}
	meta := storage.RunMetadata{
		DataDir:    config.DataDir(),
		Position:   [3]float64{pos.X, pos.Y, pos.Z},
		Velocity:   [3]float64{vel.X, vel.Y, vel.Z},
		TBegin:     opts.TBegin,
		TEnd:       opts.TEnd,
		Dt:         opts.Dt,
		Integrator: opts.Integrator,
	}
	runID, err := st.Save(name, meta, tr)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func runFields(cmd *cobra.Command, args []string) error {
	mw, _, err := loadModel()
	if err != nil {
		return err
	}

	which := "all"
	if len(args) == 1 {
		which = args[0]
	}
	pos := r3.Vec{X: queryX, Y: queryY, Z: queryZ}

	query := func(comp field.Component) (field.Sample, error) {
		if virialIO {
			return mw.FieldsVirial(comp, queryT, pos)
		}
		return mw.Fields(comp, queryT, pos)
	}

	if which == "all" {
		var s field.Sample
		if virialIO {
			s, err = mw.AllFieldsVirial(queryT, pos)
		} else {
			s, err = mw.AllFields(queryT, pos)
		}
		if err != nil {
			return err
		}
		fmt.Println(reportLine(which, s))
		return nil
	}

	comp, err := field.ParseComponent(which)
	if err != nil {
		return err
	}
	s, err := query(comp)
	if err != nil {
		return err
	}
	fmt.Println(reportLine(comp.String(), s))
	return nil
}

func runCentres(cmd *cobra.Command, args []string) error {
	mw, _, err := loadModel()
	if err != nil {
		return err
	}

	var which []units.Unit
	switch unitName {
	case "both":
		which = []units.Unit{units.Virial, units.Physical}
	default:
		u, err := units.ParseUnit(unitName)
		if err != nil {
			return err
		}
		which = []units.Unit{u}
	}

	for _, u := range which {
		cen, err := mw.ExpansionCentres(queryT, u)
		if err != nil {
			return err
		}
		fmt.Printf("centres at t = %g Gyr (%s):\n", queryT, u)
		for i, comp := range mw.Components() {
			fmt.Printf("  %-4s %12.6g %12.6g %12.6g\n", comp, cen[i].X, cen[i].Y, cen[i].Z)
		}

		if !trackCentres {
			continue
		}
		tracks, err := mw.CentreTrajectories(u)
		if err != nil {
			return err
		}
		for _, track := range tracks {
			n := len(track.Samples)
			first, last := track.Samples[0], track.Samples[n-1]
			fmt.Printf("  %-4s track: %d samples, t in [%g, %g]\n",
				track.Component, n, first.T, last.T)
		}
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	st := storage.New(runsDir())
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no stored runs (try: mwlmc orbit --save)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tSAMPLES\tSPAN\tDT\tINTEG")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t[%.2f, %.2f]\t%.4f\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Samples,
			run.TBegin, run.TEnd,
			run.Dt,
			run.Integrator,
		)
	}
	return w.Flush()
}

func runExport(cmd *cobra.Command, args []string) error {
	st := storage.New(runsDir())

	if orbitColumns {
		tr, err := st.LoadTrajectory(args[0])
		if err != nil {
			return err
		}
		_, err = tr.WriteTo(os.Stdout)
		return err
	}

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func parsePlane(s string) (viz.Plane, error) {
	switch s {
	case "xy":
		return viz.PlaneXY, nil
	case "xz":
		return viz.PlaneXZ, nil
	case "yz":
		return viz.PlaneYZ, nil
	}
	return 0, fmt.Errorf("unknown plane %q (want xy, xz or yz)", s)
}

func runExportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(runsDir())
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	plane, err := parsePlane(planeName)
	if err != nil {
		return err
	}

	svg := export.TrajectoryToSVG(tr, plane, 640, 640, "#7bd88f")
	if svg == "" {
		return fmt.Errorf("run %s has too few samples to draw", args[0])
	}
	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	mw, _, err := loadModel()
	if err != nil {
		return err
	}

	st := storage.New(runsDir())
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	sum, err := analysis.Summarize(mw, tr)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%d samples)\n\n", meta.ID, tr.Len())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "r min\t%.3f kpc\n", sum.RMin)
	fmt.Fprintf(w, "r max\t%.3f kpc\n", sum.RMax)
	fmt.Fprintf(w, "pericentres\t%d\n", sum.Pericentres)
	fmt.Fprintf(w, "apocentres\t%d\n", sum.Apocentres)
	if sum.RadialFreq > 0 {
		fmt.Fprintf(w, "radial frequency\t%.3f / Gyr\n", sum.RadialFreq)
		fmt.Fprintf(w, "radial period\t%.3f Gyr\n", 1/sum.RadialFreq)
	}
	fmt.Fprintf(w, "energy drift\t%.2e\n", sum.EnergyDrift)
	if err := w.Flush(); err != nil {
		return err
	}

	if !withLyapunov {
		return nil
	}

	integ, err := integrators.New(meta.Integrator)
	if err != nil {
		return err
	}
	sc := mw.Scaling()
	_, pos0, vel0 := tr.At(0)
	x0 := phase.NewState(sc.PositionToVirial(pos0), sc.VelocityVecToVirial(vel0))
	t0 := sc.TimeToVirial(tr.T[0])
	duration := math.Abs(meta.TEnd - meta.TBegin)

	lambda := analysis.LyapunovExponent(mw.System(), integ, x0, t0, meta.Dt, duration, 1e-8)
	fmt.Printf("\nlargest Lyapunov exponent: %.4f / virial time (%.4f / Gyr)\n",
		lambda, lambda/sc.Time())
	return nil
}

func runPlot(cmd *cobra.Command, args []string) error {
	st := storage.New(runsDir())
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	plane, err := parsePlane(planeName)
	if err != nil {
		return err
	}

	if !asciiPlot {
		if err := render.Orbit(tr, outPath); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outPath)
		return nil
	}

	view := viz.NewView(80, 24)
	view.Trajectory(tr, plane)

	if cmd.Flags().Changed("out") {
		svg := export.CanvasToSVG(view.Canvas(), 8)
		if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outPath)
		return nil
	}

	fmt.Println(view.String())
	fmt.Println(view.Caption(plane))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	mw, cfg, err := loadModel()
	if err != nil {
		return err
	}
	pos, vel, name, err := initialConditions(cmd)
	if err != nil {
		return err
	}
	return tui.RunLive(mw, name, pos, vel, spanOptions(cmd, cfg))
}

func runInteractive(cmd *cobra.Command, args []string) error {
	mw, cfg, err := loadModel()
	if err != nil {
		return err
	}
	return tui.RunInteractive(mw, cfg.OrbitOptions())
}

func runMkdata(cmd *cobra.Command, args []string) error {
	p := mkdata.DefaultParams()
	if genSnapshots > 0 {
		p.Snapshots = genSnapshots
	}
	if cmd.Flags().Changed("tbegin") {
		p.TBegin = genTBegin
	}
	if genLMCMass > 0 {
		p.LMCMass = genLMCMass
	}
	return mkdata.Generate(config.DataDir(), p, newLogger())
}

func runPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPOSITION [kpc]\tVELOCITY [km/s]\tNOTE")
	for _, name := range config.ListPresets() {
		p, _ := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t(%g, %g, %g)\t(%g, %g, %g)\t%s\n",
			name, p.Pos[0], p.Pos[1], p.Pos[2], p.Vel[0], p.Vel[1], p.Vel[2], p.Note)
	}
	return w.Flush()
}
