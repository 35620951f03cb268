package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/anomaly/internal/analysis"
	"github.com/san-kum/anomaly/internal/automation"
	"github.com/san-kum/anomaly/internal/compute"
	"github.com/san-kum/anomaly/internal/config"
	"github.com/san-kum/anomaly/internal/experiment"
	"github.com/san-kum/anomaly/internal/export"
	"github.com/san-kum/anomaly/internal/gui"
	"github.com/san-kum/anomaly/internal/integrators"
	"github.com/san-kum/anomaly/internal/optim"
	"github.com/san-kum/anomaly/internal/storage"
	"github.com/san-kum/anomaly/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	pairs      int
	dt         float64
	backend    string
	integrator string
	save       bool
	lyapunov   bool
	outFile    string
	width      int
	height     int
	paramName  string
	paramMin   float64
	paramMax   float64
	numSteps   int
	trials     int
	grid       []string
)

// main registers the commands and runs the root command, which opens the
// terminal viewer when no subcommand is given.
func main() {
	log.SetPrefix("anomaly: ")
	log.SetFlags(0)

	rootCmd := &cobra.Command{
		Use:          "anomaly",
		Short:        "electron and quark stones under a softened coulomb law",
		SilenceUsage: true,
		RunE:         runView,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".anomaly", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", 1, "random seed")
	pf.IntVar(&pairs, "pairs", config.DefaultPairs, "electron and quark pairs to seed")
	pf.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	pf.StringVar(&backend, "backend", "auto", "force backend ("+strings.Join(compute.Names(), ", ")+")")
	pf.StringVar(&integrator, "integrator", "euler", "integrator ("+strings.Join(integrators.Names(), ", ")+")")

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "run the simulation in the terminal",
		RunE:  runView,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a window",
		RunE:  runGUI,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and report metrics",
		RunE:  runHeadless,
	}
	runCmd.Flags().Int("frames", 1000, "frames to run")
	runCmd.Flags().BoolVar(&save, "save", true, "save the run to the data directory")
	runCmd.Flags().BoolVar(&lyapunov, "lyapunov", false, "estimate the largest lyapunov exponent")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "export one frame as svg",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().Int("frames", 0, "frames to run before the snapshot")
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "anomaly.svg", "output file")
	snapshotCmd.Flags().IntVar(&width, "width", 1280, "image width")
	snapshotCmd.Flags().IntVar(&height, "height", 720, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPAIRS\tBACKEND\tINTEG\tSOFTENING")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%.2f\n", name, p.Pairs, p.Engine.Backend, p.Engine.Integrator, p.Engine.Softening)
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the resolved config to a yaml file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "anomaly.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the metric series of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().String("metric", "", "plot only this metric")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().String("metric", "kinetic_energy", "series to analyze")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark force backends",
		RunE:  benchBackends,
	}
	benchCmd.Flags().Int("frames", 100, "frames per measurement")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one config parameter",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&paramName, "param", "softening", "parameter ("+strings.Join(config.ParamNames(), ", ")+")")
	sweepCmd.Flags().Float64Var(&paramMin, "min", 0.05, "first value")
	sweepCmd.Flags().Float64Var(&paramMax, "max", 0.5, "last value")
	sweepCmd.Flags().IntVar(&numSteps, "steps", 5, "values in the sweep")
	sweepCmd.Flags().Int("frames", 500, "frames per run")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run many seeds in parallel and count unstable runs",
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().IntVar(&trials, "trials", 16, "number of seeds")
	monteCarloCmd.Flags().Int("frames", 500, "frames per run")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search config parameters for the smallest metric",
		RunE:  runTune,
	}
	tuneCmd.Flags().StringArrayVar(&grid, "grid", []string{"dt=0.0025,0.005,0.01"}, "parameter and values, name=v1,v2,...")
	tuneCmd.Flags().String("metric", "energy_drift", "metric to minimize")
	tuneCmd.Flags().Int("frames", 500, "frames per run")

	rootCmd.AddCommand(viewCmd, guiCmd, runCmd, snapshotCmd, presetsCmd, initCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, benchCmd, scenarioCmd, sweepCmd, monteCarloCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}

// resolveConfig starts from the preset or config file and lets explicitly
// set flags override it.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("pairs") {
		cfg.Pairs = pairs
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("backend") {
		cfg.Engine.Backend = backend
	}
	if flags.Changed("integrator") {
		cfg.Engine.Integrator = integrator
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func presetName() string {
	if preset == "" {
		return "default"
	}
	return preset
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sink := viz.NewSink(cfg)
	runner, err := experiment.New(cfg).Build(sink)
	if err != nil {
		return err
	}
	defer runner.Core().Close()

	m, err := viz.NewModel(runner, sink, cfg, "anomaly :: "+presetName())
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(viz.Model); ok {
		return fm.Err()
	}
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sink := gui.NewSink()
	runner, err := experiment.New(cfg).Build(sink)
	if err != nil {
		return err
	}
	defer runner.Core().Close()

	return gui.Run(runner, sink, cfg, "anomaly :: "+presetName())
}

func runHeadless(cmd *cobra.Command, args []string) error {
	frames, _ := cmd.Flags().GetInt("frames")
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	runner, err := exp.Build(nil)
	if err != nil {
		return err
	}
	defer runner.Core().Close()

	core := runner.Core()
	fmt.Printf("running %s: %d particles, %s backend, %s integrator\n",
		presetName(), core.Simulation().Len(), core.Backend().Name(), core.Stepper().Name())
	start := time.Now()

	result, err := runner.Run(context.Background(), frames)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("frames: %d  time: %.3f\n", result.Frames, result.Time)
	for _, e := range result.Errors {
		log.Printf("warning: %v", e)
	}

	if ke := result.Series["kinetic_energy"]; len(ke) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(ke, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("kinetic energy")))
		if f := analysis.DominantFrequency(ke, cfg.Dt); f > 0 {
			fmt.Printf("\ndominant frequency: %.4f  period: %.3f\n", f, 1/f)
		}
	}

	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Fprintf(w, "  %s\t%.6g\n", name, result.Metrics[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if lyapunov {
		sim, err := exp.Simulation()
		if err != nil {
			return err
		}
		lambda := analysis.LyapunovEstimate(sim, core.Stepper(), core.Backend(), exp.Law(), cfg.Dt, frames, 1e-8)
		fmt.Printf("\nlyapunov estimate: %.6f\n", lambda)
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(presetName(), cfg, result, core.Simulation())
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}

	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	frames, _ := cmd.Flags().GetInt("frames")
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	runner, err := experiment.New(cfg).Build(nil)
	if err != nil {
		return err
	}
	defer runner.Core().Close()

	if frames > 0 {
		if _, err := runner.Run(context.Background(), frames); err != nil {
			return err
		}
	}

	sc := viz.Scene{
		Pose:   runner.Camera().Pose(),
		Lens:   cfg.Lens(),
		Model:  viz.WorldModel(cfg.Render.WorldScale, 0),
		Width:  float32(width),
		Height: float32(height),
	}
	stones := runner.Core().RenderView()
	if err := export.WriteFile(outFile, export.StonesToSVG(stones, sc)); err != nil {
		return err
	}
	fmt.Printf("wrote %s: %d stones at t=%.3f\n", outFile, len(stones), runner.Core().Time())
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tDT\tINTEG\tBACKEND\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%s\t%s\t%.2e\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Dt,
			run.Integrator,
			run.Backend,
			run.Metrics["energy_drift"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	metricName, _ := cmd.Flags().GetString("metric")
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, _, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("frames: %d\n\n", meta.Frames)

	plotted := 0
	for _, name := range sortedKeys(series) {
		if metricName != "" && name != metricName {
			continue
		}
		data := series[name]
		if len(data) < 2 {
			continue
		}
		fmt.Println(asciigraph.Plot(data, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption(name)))
		fmt.Println()
		plotted++
	}

	if plotted == 0 {
		return fmt.Errorf("no data to plot")
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	metricName, _ := cmd.Flags().GetString("metric")
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, _, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	data := series[metricName]
	if len(data) < 4 {
		return fmt.Errorf("no data for %s", metricName)
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("series: %s\n\n", metricName)

	freqs, mags := analysis.Spectrum(data, meta.Dt)
	if len(mags) > 2 {
		fmt.Println(asciigraph.Plot(mags[1:], asciigraph.Height(15), asciigraph.Width(80), asciigraph.Caption("magnitude spectrum")))
		fmt.Println()
	}

	freq := analysis.DominantFrequency(data, meta.Dt)
	fmt.Printf("dominant frequency: %.4f (nyquist %.2f)\n", freq, freqs[len(freqs)-1])
	if freq > 0 {
		fmt.Printf("period: %.3f\n", 1.0/freq)
	}

	return nil
}

func benchBackends(cmd *cobra.Command, args []string) error {
	frames, _ := cmd.Flags().GetInt("frames")
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PAIRS\tBACKEND\tWORKERS\tFRAMES\tTIME\tFRAMES/SEC")

	for _, n := range []int{10, 50, 200} {
		for _, name := range []string{"serial", "parallel"} {
			cfg := base.Clone()
			cfg.Pairs = n
			cfg.Engine.Backend = name

			runner, err := experiment.New(cfg).Build(nil)
			if err != nil {
				return err
			}

			start := time.Now()
			_, err = runner.Run(context.Background(), frames)
			elapsed := time.Since(start)
			workers := 1
			if b, ok := runner.Core().Backend().(*compute.CPUBackend); ok {
				workers = b.Workers()
			}
			runner.Core().Close()
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%v\t%.0f\n",
				n, name, workers, frames, elapsed, float64(frames)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	results, err := automation.RunScenario(context.Background(), sc, base, os.Stdout)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tFRAMES\tDRIFT\tSPREAD\tSAVED")
	for i, r := range results {
		saved := "-"
		if r.Step.SaveAs != "" {
			id, err := st.Save(r.Step.SaveAs, r.Config, r.Result, nil)
			if err != nil {
				return err
			}
			saved = id
		}
		fmt.Fprintf(w, "%d\t%d\t%.2e\t%.3f\t%s\n", i+1, r.Result.Frames, r.Result.Metrics["energy_drift"], r.Result.Metrics["spread"], saved)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	frames, _ := cmd.Flags().GetInt("frames")
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		ParamName: paramName,
		ParamMin:  paramMin,
		ParamMax:  paramMax,
		NumSteps:  numSteps,
		Frames:    frames,
	}
	results, err := automation.RunSweep(context.Background(), sweep, base, os.Stderr)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tDRIFT\tSPREAD\tSTABLE\n", strings.ToUpper(paramName))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.2e\t%.3f\t%v\n", r.ParamValue, r.Drift, r.Spread, r.Stable)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	frames, _ := cmd.Flags().GetInt("frames")
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := automation.RunMonteCarlo(context.Background(), &automation.MonteCarloConfig{
		NumTrials: trials,
		Frames:    frames,
		Seed:      base.Seed,
	}, base)
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("%d trials in %v: %d stable, %d unstable\n", len(results), time.Since(start), stable, unstable)

	drift := make([]float64, len(results))
	for i, r := range results {
		drift[i] = r.Drift
	}
	if len(drift) > 1 {
		fmt.Println(asciigraph.Plot(drift, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("energy drift by seed")))
	}
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	frames, _ := cmd.Flags().GetInt("frames")
	metricName, _ := cmd.Flags().GetString("metric")
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}
	search, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	fmt.Printf("searching %d points for the smallest %s\n", search.Points(), metricName)
	params, best, err := search.Search(context.Background(), base, frames, metricName)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(params) {
		fmt.Fprintf(w, "  %s\t%g\n", name, params[name])
	}
	fmt.Fprintf(w, "  %s\t%.6g\n", metricName, best)
	return w.Flush()
}

// parseGrid reads name=v1,v2,... entries.
func parseGrid(entries []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(entries))
	ranges := make([][]float64, 0, len(entries))
	for _, entry := range entries {
		name, list, ok := strings.Cut(entry, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("bad grid entry %q, want name=v1,v2", entry)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad value in grid entry %q: %w", entry, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
