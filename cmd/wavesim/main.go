package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/wavesim/internal/compute"
	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/storage"
	"github.com/san-kum/wavesim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	steps      int
	fpu        int
	width      int
	height     int
	kernel     string
	backend    string
	dampening  float64
	seed       int64
	brightness float64
	colormap   string
)

func main() {
	log.SetPrefix("wavesim: ")
	log.SetFlags(0)

	env, err := config.ParseEnv()
	if err != nil {
		log.Fatal(err)
	}

	rootCmd := &cobra.Command{
		Use:           "wavesim",
		Short:         "2d wave simulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", env.DataDir, "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and save it",
		RunE:  func(cmd *cobra.Command, args []string) error { return runSimulation(cmd, env) },
	}
	addSceneFlags(runCmd)
	runCmd.Flags().StringVar(&runGIF, "gif", "", "record an animated gif")
	runCmd.Flags().StringVar(&runJSON, "json", "", "also export the result, final field included, as json")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live terminal view",
		RunE:  func(cmd *cobra.Command, args []string) error { return runLive(cmd, env) },
	}
	addSceneFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerTick, "speed", 2, "frames per redraw")
	liveCmd.Flags().StringVar(&liveGIF, "gif", "wavesim.gif", "where 'g' saves recordings")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "run simulation and write the final frame (png or svg)",
		RunE:  func(cmd *cobra.Command, args []string) error { return renderScene(cmd, env) },
	}
	addSceneFlags(renderCmd)
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "field.png", "output file")
	renderCmd.Flags().BoolVar(&intensity, "intensity", false, "render the smoothed intensity instead of the field")
	renderCmd.Flags().BoolVar(&overlay, "overlay", true, "draw scene object overlays")
	renderCmd.Flags().Float64Var(&threshold, "threshold", 0.1, "contour threshold for svg output")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot probe traces of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data (json or svg)",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json, svg or phase-svg")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().IntVar(&probeIndex, "probe", 0, "probe index for svg output")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark backends and grid sizes",
		RunE:  benchBackends,
	}
	benchCmd.Flags().IntVar(&benchFrames, "steps", 200, "frames per measurement")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a batch of scenes concurrently",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	rootCmd.AddCommand(runCmd, liveCmd, renderCmd, presetsCmd, listCmd, plotCmd, exportCmd, benchCmd, batchCmd, newAnalyzeCmd(env))

	if err := rootCmd.Execute(); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}

var (
	runGIF       string
	runJSON      string
	liveGIF      string
	noSave       bool
	stepsPerTick int
	renderOut    string
	exportOut    string
	benchFrames  int
	intensity    bool
	overlay      bool
	threshold    float64
	format       string
	probeIndex   int
)

func addSceneFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "single", "preset scene ("+strings.Join(config.ListPresets(), ", ")+")")
	f.IntVar(&steps, "steps", config.DefaultSteps, "frames to simulate")
	f.IntVar(&fpu, "fpu", config.DefaultFramesPerUpdate, "frames per update")
	f.IntVar(&width, "width", config.DefaultWidth, "grid width")
	f.IntVar(&height, "height", config.DefaultHeight, "grid height")
	f.StringVar(&kernel, "kernel", "default", "laplacian ("+strings.Join(grid.LaplacianNames(), ", ")+")")
	f.StringVar(&backend, "backend", "auto", "compute backend ("+strings.Join(compute.Names(), ", ")+")")
	f.Float64Var(&dampening, "dampening", 1.0, "global dampening, 1 disables it")
	f.Int64Var(&seed, "seed", 0, "random seed")
	f.Float64Var(&brightness, "brightness", config.DefaultBrightness, "render brightness")
	f.StringVar(&colormap, "colormap", config.DefaultColormap, "colormap ("+strings.Join(viz.ColormapNames(), ", ")+")")
}

// resolveConfig builds the run configuration. Precedence, lowest first:
// preset, config file, environment, explicit flags.
func resolveConfig(cmd *cobra.Command, env *config.Env) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	} else {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	env.Apply(cfg)

	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("fpu") {
		cfg.FramesPerUpdate = fpu
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("kernel") {
		cfg.Kernel = kernel
	}
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("dampening") {
		cfg.GlobalDampening = dampening
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("brightness") {
		cfg.Brightness = brightness
	}
	if flags.Changed("colormap") {
		cfg.Colormap = colormap
	}
	return cfg, cfg.Validate()
}

func colormapsFor(cfg *config.Config) ([]*viz.Colormap, error) {
	names := []string{cfg.Colormap}
	for _, n := range viz.ColormapNames() {
		if n != cfg.Colormap {
			names = append(names, n)
		}
	}
	maps := make([]*viz.Colormap, 0, len(names))
	for _, n := range names {
		cm, err := viz.NewColormap(n, viz.ColormapOptions{})
		if err != nil {
			return nil, err
		}
		maps = append(maps, cm)
	}
	return maps, nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	return st, st.Init()
}
