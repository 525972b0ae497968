package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/samber/lo"
	"github.com/san-kum/pidball/internal/analysis"
	"github.com/san-kum/pidball/internal/automation"
	"github.com/san-kum/pidball/internal/config"
	"github.com/san-kum/pidball/internal/experiment"
	"github.com/san-kum/pidball/internal/export"
	"github.com/san-kum/pidball/internal/metrics"
	"github.com/san-kum/pidball/internal/optim"
	"github.com/san-kum/pidball/internal/sim"
	"github.com/san-kum/pidball/internal/storage"
	"github.com/san-kum/pidball/internal/viz"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
	"k8s.io/utils/clock"
)

var logger = logrus.New()

var (
	dataDir  string
	logLevel string
	logFile  string

	// simulation
	configFile   string
	preset       string
	label        string
	duration     float64
	seed         uint64
	samplingRate uint32
	frameRate    int
	kp           float32
	ki           float32
	kd           float32
	target       float32
	noise        float32
	gravitation  float32
	maxForce     float32
	maxForceRate float32
	holdBall     bool
	realtime     bool

	// live view
	theme string

	// export
	output    string
	pngWidth  float64
	pngHeight float64
	svgWidth  int
	svgHeight int

	// tune
	kpGrid     []float64
	kiGrid     []float64
	kdGrid     []float64
	tuneMetric string

	// sweep
	sweepParam     string
	sweepMin       float64
	sweepMax       float64
	sweepSteps     int
	sweepTransient float64
	sweepRecord    float64

	// ensemble
	ensembleRuns int
	seedStart    uint64
	workers      int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pidball",
		Short: "PID controlled magnetic levitation simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
		// the live view is the default
		RunE:         runLive,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pidball", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	addSimFlags(rootCmd)
	addLiveFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation interactively",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	addLiveFlags(liveCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the simulation headless and save the trace",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	addDurationFlag(runCmd)
	runCmd.Flags().BoolVar(&realtime, "realtime", false, "pace the run against the wall clock")
	runCmd.Flags().StringVar(&label, "label", "", "label stored with the run (defaults to the preset)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "velocity over position plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "step response and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "render position, velocity and force plots to PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <run_id>.png)")
	exportPNGCmd.Flags().Float64Var(&pngWidth, "width", 16, "width in cm")
	exportPNGCmd.Flags().Float64Var(&pngHeight, "height", 18, "height in cm")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the position trace to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "width in px")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "height in px")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search the controller gains",
		RunE:  tuneGains,
	}
	addSimFlags(tuneCmd)
	addDurationFlag(tuneCmd)
	tuneCmd.Flags().Float64SliceVar(&kpGrid, "kp-grid", []float64{50, 100, 150}, "kp candidates")
	tuneCmd.Flags().Float64SliceVar(&kiGrid, "ki-grid", nil, "ki candidates")
	tuneCmd.Flags().Float64SliceVar(&kdGrid, "kd-grid", []float64{10, 20, 30}, "kd candidates")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "iae",
		fmt.Sprintf("metric to optimise (%s)", strings.Join(experiment.NewRegistry().ListMetrics(), ", ")))

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and plot where the ball ends up",
		RunE:  sweepParameter,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "kd",
		fmt.Sprintf("parameter to sweep (%s)", strings.Join(sim.ParamNames, ", ")))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 40, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 41, "number of values")
	sweepCmd.Flags().Float64Var(&sweepTransient, "transient", 10, "simulated seconds discarded per value")
	sweepCmd.Flags().Float64Var(&sweepRecord, "record", 5, "simulated seconds recorded per value")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run many noise seeds and summarise the metrics",
		RunE:  runEnsemble,
	}
	addSimFlags(ensembleCmd)
	addDurationFlag(ensembleCmd)
	ensembleCmd.Flags().IntVar(&ensembleRuns, "runs", 20, "number of runs")
	ensembleCmd.Flags().Uint64Var(&seedStart, "seed-start", 1, "seed of the first run")
	ensembleCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = unbounded)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario and save the trace",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, phaseCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, exportPNGCmd, exportSVGCmd,
		tuneCmd, sweepCmd, ensembleCmd, scenarioCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "start from a preset (see 'pidball presets')")
	f.Uint32Var(&samplingRate, "rate", config.DefaultSamplingRate, "sampling rate in Hz")
	f.IntVar(&frameRate, "fps", config.DefaultFrameRate, "frame rate")
	f.Uint64Var(&seed, "seed", 0, "sensor noise seed (0 = random)")
	f.Float32Var(&kp, "kp", sim.DefaultKp, "proportional gain")
	f.Float32Var(&ki, "ki", sim.DefaultKi, "integral gain")
	f.Float32Var(&kd, "kd", sim.DefaultKd, "derivative gain")
	f.Float32Var(&target, "target", sim.DefaultTarget, "target position in m")
	f.Float32Var(&noise, "noise", sim.DefaultNoise, "sensor noise sigma in m")
	f.Float32Var(&gravitation, "gravitation", sim.DefaultGravitation, "gravitation in m/s^2")
	f.Float32Var(&maxForce, "max-force", sim.DefaultMaxForce, "inductor force limit in N")
	f.Float32Var(&maxForceRate, "max-force-rate", sim.DefaultMaxForceRate, "inductor slew limit in N/s")
	f.BoolVar(&holdBall, "hold", sim.DefaultHoldBall, "start with the ball held in place")
}

func addDurationFlag(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated seconds")
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&theme, "theme", viz.ThemeCyberpunk.Name,
		fmt.Sprintf("color theme (%s)", strings.Join(viz.ThemeNames(), ", ")))
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs here while the view is open")
}

// resolveConfig layers preset, config file and explicitly set flags, in that
// order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	overrides := []struct {
		flag string
		dst  *float32
		val  float32
	}{
		{"kp", &cfg.Params.Kp, kp},
		{"ki", &cfg.Params.Ki, ki},
		{"kd", &cfg.Params.Kd, kd},
		{"target", &cfg.Params.Target, target},
		{"noise", &cfg.Params.Noise, noise},
		{"gravitation", &cfg.Params.Gravitation, gravitation},
		{"max-force", &cfg.Params.MaxForce, maxForce},
		{"max-force-rate", &cfg.Params.MaxForceRate, maxForceRate},
	}
	for _, o := range overrides {
		if flags.Changed(o.flag) {
			*o.dst = o.val
		}
	}
	if flags.Changed("hold") {
		cfg.Params.HoldBall = holdBall
	}
	if flags.Changed("rate") {
		cfg.SamplingRate = samplingRate
	}
	if flags.Changed("fps") {
		cfg.FrameRate = frameRate
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runLabel() string {
	switch {
	case label != "":
		return label
	case preset != "":
		return preset
	}
	return "custom"
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	t, ok := viz.ThemeByName(theme)
	if !ok {
		return fmt.Errorf("unknown theme: %s (available: %v)", theme, viz.ThemeNames())
	}

	// the view owns the terminal
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		logger.SetOutput(f)
	} else {
		logger.SetOutput(io.Discard)
	}

	s := experiment.NewSimulation(*cfg)
	m := viz.NewModel(s, cfg.SamplingRate, cfg.FrameRate, clock.RealClock{}, logger).WithTheme(t)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir, logger)
	if err := st.Init(); err != nil {
		return err
	}

	expCfg := experiment.Config{Sim: *cfg, Realtime: realtime}
	exp := experiment.New(expCfg, logger)
	for _, m := range experiment.NewRegistry().DefaultMetrics() {
		exp.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %.1fs of simulated time...\n", cfg.Duration)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		if result == nil || !errors.Is(err, context.Canceled) {
			return err
		}
		logger.WithField("samples", len(result.Samples)).Warn("run interrupted, saving partial trace")
	}

	elapsed := time.Since(start)

	runID, err := st.Save(runLabel(), expCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir, logger)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running scenario %s (%d events)...\n", sc.Name, len(sc.Events))
	expCfg, result, err := automation.RunScenario(ctx, sc, logger)
	if err != nil {
		return err
	}

	name := sc.Name
	if name == "" {
		name = "scenario"
	}
	runID, err := st.Save(name, expCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := lo.Keys(m)
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, logger)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tTIME\tDURATION\tRATE\tSTEPS\tIAE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%dHz\t%d\t%s\n",
			run.ID,
			run.Label,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Config.Duration,
			run.Config.SamplingRate,
			run.Steps,
			formatMetric(run.Metrics, "iae"),
		)
	}

	return w.Flush()
}

func formatMetric(m map[string]float64, name string) string {
	if v, ok := m[name]; ok {
		return fmt.Sprintf("%.4f", v)
	}
	return "-"
}

func loadRun(runID string) (*storage.RunMetadata, []metrics.Sample, error) {
	st := storage.New(dataDir, logger)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, samples, nil
}

func columns(samples []metrics.Sample) (pos, tgt, vel, force []float64) {
	pos = make([]float64, len(samples))
	tgt = make([]float64, len(samples))
	vel = make([]float64, len(samples))
	force = make([]float64, len(samples))
	for i, s := range samples {
		pos[i] = float64(s.Position)
		tgt[i] = float64(s.Target)
		vel[i] = float64(s.Velocity)
		force[i] = float64(s.Force)
	}
	return pos, tgt, vel, force
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("label: %s\n", meta.Label)
	fmt.Printf("samples: %d\n\n", len(samples))

	pos, tgt, vel, force := columns(samples)

	fmt.Println(asciigraph.PlotMany([][]float64{pos, tgt},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Precision(3),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
		asciigraph.Caption("position / target (m)"),
	))
	fmt.Println()

	fmt.Println(asciigraph.Plot(vel,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("velocity (m/s)"),
	))
	fmt.Println()

	fmt.Println(asciigraph.Plot(force,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Yellow),
		asciigraph.Caption("force (N)"),
	))

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("phase portrait: %s\n", meta.ID)
	fmt.Println("x: position (m), y: velocity (m/s)")
	fmt.Println()

	portrait := analysis.NewPhasePortrait(samples)
	last := samples[len(samples)-1]
	fmt.Println(analysis.PhasePortraitToASCII(portrait, float64(last.Target), 80, 24))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	resp, err := analysis.StepResponse(samples)
	if err != nil {
		return err
	}

	fmt.Printf("step response: %s\n", meta.ID)
	fmt.Printf("step: %.3f m -> %.3f m\n\n", resp.Start, resp.Target)

	settling := "not settled"
	if resp.Settled {
		settling = seconds(resp.SettlingTime)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "rise time\t%s\n", seconds(resp.RiseTime))
	fmt.Fprintf(w, "overshoot\t%.1f%%\n", resp.Overshoot*100)
	fmt.Fprintf(w, "settling time\t%s\n", settling)
	fmt.Fprintf(w, "steady-state error\t%.5f m\n", resp.SteadyStateError)
	fmt.Fprintf(w, "noise\t%.5f m\n", resp.Noise)
	fmt.Fprintf(w, "dominant frequency\t%.3f Hz\n", resp.DominantFreq)
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()

	n := 1
	for n < len(samples) {
		n *= 2
	}
	padded := make([]float64, n)
	for i, s := range samples {
		padded[i] = s.Error()
	}

	ps := analysis.PowerSpectrum(padded)
	fmt.Println(asciigraph.Plot(ps[1:len(ps)/4],
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("tracking error power spectrum"),
	))

	return nil
}

func seconds(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.3fs", v)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// createOutput opens path for writing, or stdout when path is empty or "-".
func createOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out, err := createOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	return storage.WriteCSV(out, samples)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out, err := createOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	return storage.ExportJSON(out, meta, samples)
}

func exportPNG(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	path := output
	if path == "" {
		path = meta.ID + ".png"
	}
	out, err := createOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	w, h := vg.Length(pngWidth)*vg.Centimeter, vg.Length(pngHeight)*vg.Centimeter
	if err := export.PNG(out, samples, w, h); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	path := output
	if path == "" {
		path = meta.ID + ".svg"
	}
	out, err := createOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := export.SVG(out, samples, svgWidth, svgHeight); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	return nil
}

func tuneGains(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	// every candidate sees the same noise
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}

	var names []string
	var ranges [][]float64
	grids := []struct {
		name string
		vals []float64
	}{
		{"kp", kpGrid},
		{"ki", kiGrid},
		{"kd", kdGrid},
	}
	for _, g := range grids {
		if len(g.vals) > 0 {
			names = append(names, g.name)
			ranges = append(ranges, g.vals)
		}
	}

	search := optim.NewGridSearch(names, ranges)
	search.SetMaximize(tuneMetric == "stability")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	best, value, err := search.Search(ctx, optim.Builder(*cfg, tuneMetric, logger), tuneMetric)
	if err != nil {
		return err
	}

	fmt.Printf("evaluated %d candidates in %v\n", search.Evaluated(), time.Since(start))
	fmt.Printf("best %s: %.6f\n", tuneMetric, value)
	for _, name := range names {
		fmt.Printf("  %s: %g\n", name, best[name])
	}
	return nil
}

func sweepParameter(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	points, err := analysis.Sweep(ctx, *cfg, analysis.SweepConfig{
		Param:     sweepParam,
		Min:       sweepMin,
		Max:       sweepMax,
		Steps:     sweepSteps,
		Transient: sweepTransient,
		Record:    sweepRecord,
	}, logger)
	if err != nil {
		return err
	}

	fmt.Printf("sweep %s from %g to %g\n", sweepParam, sweepMin, sweepMax)
	fmt.Println("x: parameter, y: ball position after the transient")
	fmt.Println()
	fmt.Println(analysis.SweepToASCII(points, 80, 20))
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ens := experiment.NewEnsemble(*cfg, ensembleRuns, seedStart, logger)
	ens.SetWorkers(workers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := ens.Run(ctx)
	if err != nil {
		return err
	}
	summary := experiment.Summarize(results)

	fmt.Printf("%d runs in %v\n\n", summary.Runs, time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV\tMIN\tMEDIAN\tMAX")

	names := lo.Keys(summary.Metrics)
	sort.Strings(names)
	for _, name := range names {
		s := summary.Metrics[name]
		fmt.Fprintf(w, "%s\t%.5f\t%.5f\t%.5f\t%.5f\t%.5f\n",
			name, s.Mean, s.StdDev, s.Min, s.Median, s.Max)
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKP\tKI\tKD\tGRAVITATION\tNOISE\tMAX_FORCE_RATE\tHOLD")

	for _, name := range config.ListPresets() {
		p := config.Presets[name].Params
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%g\t%g\t%t\n",
			name, p.Kp, p.Ki, p.Kd, p.Gravitation, p.Noise, p.MaxForceRate, p.HoldBall)
	}

	return w.Flush()
}
