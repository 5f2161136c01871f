package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/chaosplot/internal/analysis"
	"github.com/san-kum/chaosplot/internal/config"
	"github.com/san-kum/chaosplot/internal/dynamo"
	"github.com/san-kum/chaosplot/internal/experiment"
	"github.com/san-kum/chaosplot/internal/export"
	"github.com/san-kum/chaosplot/internal/gui"
	"github.com/san-kum/chaosplot/internal/integrators"
	"github.com/san-kum/chaosplot/internal/metrics"
	"github.com/san-kum/chaosplot/internal/sim"
	"github.com/san-kum/chaosplot/internal/storage"
	"github.com/san-kum/chaosplot/internal/task"
	"github.com/san-kum/chaosplot/internal/tui"
	"github.com/san-kum/chaosplot/internal/viz"
)

var (
	dataDir    string
	configFile string
	verbose    bool
	logFile    string
	logOut     *os.File

	width      int
	height     int
	outPath    string
	video      string
	fps        int
	caption    bool
	fit        bool
	background string

	component  int
	chartPath  string
	plotWidth  int
	plotHeight int

	historyLimit int
)

// main registers the chaosplot commands and opens the window front end when
// no subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:          "chaosplot",
		Short:        "rk4 plots of chaotic attractors",
		SilenceUsage: true,
		RunE:         runGUI,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".chaosplot", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "plot config file (yaml), replaces the preset of its model")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "plot in a window (keys 1-3 start plots, q quits)",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	guiCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "window width")
	guiCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "window height")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "plot in the terminal (keys 1-3 start plots, q quits)",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}

	renderCmd := &cobra.Command{
		Use:   "render [preset]",
		Short: "render a plot to an svg or png file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (.svg or .png)")
	renderCmd.Flags().StringVar(&video, "video", "", "also record progress frames to an mjpeg .avi")
	renderCmd.Flags().IntVar(&fps, "fps", export.DefaultFPS, "video frame rate")
	renderCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "image width")
	renderCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "image height")
	renderCmd.Flags().BoolVar(&caption, "caption", false, "label png output with the plot name")
	renderCmd.Flags().StringVar(&background, "background", "", "background color as #rrggbb (default white)")
	renderCmd.Flags().BoolVar(&fit, "fit", false, "print a graph config that frames the first trace")
	renderCmd.MarkFlagRequired("out")

	traceCmd := &cobra.Command{
		Use:   "trace [preset]",
		Short: "plot one state component over time",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTrace,
	}
	traceCmd.Flags().IntVarP(&component, "component", "c", -1, "state index (default: x of the first trace)")
	traceCmd.Flags().StringVar(&chartPath, "chart", "", "also write a png chart")
	traceCmd.Flags().IntVar(&plotWidth, "plot-width", 80, "ascii plot width")
	traceCmd.Flags().IntVar(&plotHeight, "plot-height", 15, "ascii plot height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list plot presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show (0 for all)")

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print a run record as json",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	rootCmd.AddCommand(guiCmd, tuiCmd, renderCmd, traceCmd, presetsCmd, historyCmd, showCmd)

	err := rootCmd.Execute()
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

// setupLogging installs the default slog logger. The terminal front end
// owns the screen, so it only logs when --log-file is given.
func setupLogging(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stderr
	if cmd.Name() == "tui" {
		out = io.Discard
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		out = f
		logOut = f
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}

// closeLog closes the --log-file handle, if one was opened.
func closeLog() error {
	if logOut == nil {
		return nil
	}
	err := logOut.Close()
	logOut = nil
	return err
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt)
}

func openStore() (*storage.Store, error) {
	return storage.Open(filepath.Join(dataDir, "history.db"))
}

func loadOverride() (*config.Config, error) {
	if configFile == "" {
		return nil, nil
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	slog.Debug("config loaded", "path", configFile, "model", cfg.Model)
	return cfg, nil
}

// launcherOptions wires the --config override and run history. A history
// database that cannot be opened only costs the run records.
func launcherOptions() ([]experiment.LauncherOption, func(), error) {
	opts := []experiment.LauncherOption{experiment.WithLogger(slog.Default())}

	override, err := loadOverride()
	if err != nil {
		return nil, nil, err
	}
	if override != nil {
		opts = append(opts, experiment.WithPlot(override.Model, override))
	}

	cleanup := func() {}
	st, err := openStore()
	if err != nil {
		slog.Warn("run history disabled", "err", err)
	} else {
		opts = append(opts, experiment.WithRecorder(st))
		cleanup = func() { st.Close() }
	}
	return opts, cleanup, nil
}

// plotName picks the preset argument, falling back to the model of the
// --config file.
func plotName(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if configFile != "" {
		cfg, err := loadOverride()
		if err != nil {
			return "", err
		}
		return cfg.Model, nil
	}
	return "", fmt.Errorf("name a preset (%s) or pass --config", strings.Join(config.ListPresets(), ", "))
}

// plotConfig resolves a plot name the way the launcher does: the --config
// override when it names this model, else the preset.
func plotConfig(name string) (*config.Config, error) {
	override, err := loadOverride()
	if err != nil {
		return nil, err
	}
	if override != nil && override.Model == name {
		return override, nil
	}
	if cfg := config.GetPreset(name); cfg != nil {
		return cfg, nil
	}
	return nil, fmt.Errorf("unknown preset: %s", name)
}

func runGUI(cmd *cobra.Command, args []string) error {
	opts, cleanup, err := launcherOptions()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signalContext(cmd)
	defer cancel()
	return gui.Run(ctx, width, height, opts...)
}

func runTUI(cmd *cobra.Command, args []string) error {
	opts, cleanup, err := launcherOptions()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signalContext(cmd)
	defer cancel()
	return tui.Run(ctx, opts...)
}

func runRender(cmd *cobra.Command, args []string) error {
	name, err := plotName(args)
	if err != nil {
		return err
	}
	cfg, err := plotConfig(name)
	if err != nil {
		return err
	}
	if len(cfg.Traces) == 0 {
		return fmt.Errorf("plot %s has no traces", name)
	}
	first := sim.Trace{X: cfg.Traces[0].X, Y: cfg.Traces[0].Y}
	g := cfg.Graph
	coverage := metrics.NewCoverage(viz.FitGraph(g.OriginX, g.SpanX, g.OriginY, g.SpanY, width, height), first, width, height)
	extent := metrics.NewExtent(first)
	reports := []metrics.Metric{coverage, extent}

	bg := export.DefaultBackground
	if background != "" {
		if bg, err = viz.ParseHex(background); err != nil {
			return err
		}
	}

	var (
		surfaces []sim.Surface
		svg      *export.SVGSurface
		img      *export.ImageSurface
		kind     string
	)
	switch ext := strings.ToLower(filepath.Ext(outPath)); ext {
	case ".svg":
		svg = export.NewSVGSurface(width, height)
		svg.SetBackground(bg)
		surfaces = append(surfaces, svg)
		kind = "svg"
	case ".png":
		img = export.NewImageSurface(width, height)
		img.SetBackground(bg)
		surfaces = append(surfaces, img)
		kind = "png"
	default:
		return fmt.Errorf("unsupported output %q: use .svg or .png", ext)
	}

	opts, cleanup, err := launcherOptions()
	if err != nil {
		return err
	}
	defer cleanup()
	opts = append(opts,
		experiment.WithSurfaceName(kind),
		experiment.WithSize(width, height),
	)
	for _, m := range reports {
		opts = append(opts, experiment.WithObserver(m))
	}

	var vid *export.Video
	if video != "" {
		if img == nil {
			img = export.NewImageSurface(width, height)
			img.SetBackground(bg)
			surfaces = append(surfaces, img)
		}
		vid, err = export.NewVideo(video, width, height, fps)
		if err != nil {
			return err
		}
		img.OnPump(vid.AddFrame)
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	var surface sim.Surface = export.Tee(surfaces)
	if len(surfaces) == 1 {
		surface = surfaces[0]
	}
	l := experiment.NewLauncher(surface, task.NewToken(), opts...)
	res, err := l.Start(ctx, name)
	if vid != nil {
		if cerr := vid.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close video: %w", cerr)
		}
	}
	if err != nil {
		return err
	}

	switch {
	case svg != nil:
		err = svg.Save(outPath)
	case img != nil:
		if caption {
			img.Caption(name, viz.RGB(0, 0, 0))
		}
		err = img.Save(outPath)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s, %s iterations, %s segments in %s -> %s\n",
		name, res.Status,
		humanize.Comma(int64(res.Iterations)),
		humanize.Comma(int64(res.Segments)),
		res.Elapsed.Truncate(time.Millisecond),
		outPath,
	)
	if vid != nil {
		fmt.Printf("video: %d frames -> %s\n", vid.Frames(), video)
	}
	for _, m := range reports {
		fmt.Printf("%s: %.4g\n", m.Name(), m.Value())
	}
	if res.Err != nil {
		fmt.Printf("stopped: %v\n", res.Err)
	}

	if fit {
		graph, ok := extent.Fit(0.05)
		if !ok {
			return fmt.Errorf("no steps to fit")
		}
		data, err := yaml.Marshal(map[string]config.GraphConfig{"graph": graph})
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	}
	return nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	name, err := plotName(args)
	if err != nil {
		return err
	}
	cfg, err := plotConfig(name)
	if err != nil {
		return err
	}

	plot, err := experiment.BuildPlot(experiment.NewRegistry(), name, cfg, config.DefaultWidth, config.DefaultHeight)
	if err != nil {
		return err
	}
	comp := component
	if comp < 0 {
		comp = plot.Traces[0].X
	}

	series, err := analysis.Trace(plot.System, integrators.NewRK4(), plot.Init, plot.Step, plot.Iterations, comp)
	var simErr *dynamo.SimulationError
	if errors.As(err, &simErr) {
		fmt.Printf("diverged at step %d\n", simErr.Step)
	} else if err != nil {
		return err
	}
	if len(series.Values) < 2 {
		return fmt.Errorf("not enough values to plot")
	}

	graph := asciigraph.Plot(series.Values,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("%s: x[%d] over %s steps", name, comp, humanize.Comma(int64(len(series.Values))))),
	)
	fmt.Println(graph)
	fmt.Println()

	lo, hi := series.Bounds()
	lambda := analysis.LyapunovExponent(plot.System, integrators.NewRK4(), plot.Init, plot.Step, plot.Iterations, 1e-8)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "min\t%.4f\n", lo)
	fmt.Fprintf(w, "max\t%.4f\n", hi)
	fmt.Fprintf(w, "mean\t%.4f\n", series.Mean())
	fmt.Fprintf(w, "lyapunov\t%.4f\n", lambda)
	if err := w.Flush(); err != nil {
		return err
	}

	if chartPath != "" {
		if err := analysis.SaveChart(chartPath, series, fmt.Sprintf("%s x[%d]", name, comp)); err != nil {
			return err
		}
		fmt.Printf("chart -> %s\n", chartPath)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODEL\tITERATIONS\tSTEP\tTRACES")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		var traces []string
		for _, tr := range p.Traces {
			traces = append(traces, fmt.Sprintf("(%d,%d)", tr.X, tr.Y))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%s\n",
			name, p.Model, humanize.Comma(int64(p.Iterations)), p.Step, strings.Join(traces, " "))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\npalettes: %s\n", strings.Join(viz.PaletteNames(), ", "))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	limit := historyLimit
	if limit <= 0 {
		limit = -1
	}
	runs, err := st.List(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLOT\tSURFACE\tSTATUS\tITERATIONS\tELAPSED\tSTARTED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s/%s\t%s\t%s\n",
			shortID(r.ID),
			r.Plot,
			r.Surface,
			r.Status,
			humanize.Comma(int64(r.Iterations)),
			humanize.Comma(int64(r.Planned)),
			r.Elapsed().Truncate(time.Millisecond),
			humanize.Time(r.Started()),
		)
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func showRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}
