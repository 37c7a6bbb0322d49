package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/wavesim/internal/analysis"
	"github.com/san-kum/wavesim/internal/automation"
	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/experiment"
	"github.com/san-kum/wavesim/internal/optim"
	"github.com/san-kum/wavesim/internal/wave"
)

var (
	sweepParam     string
	sweepMin       float64
	sweepMax       float64
	sweepSteps     int
	probeX         int
	probeY         int
	transient      int
	record         int
	perturbation   float64
	mcParam        string
	axes           []string
	metricName     string
	mcPerturbation float64
	trials         int
	baseValue      float64
	period         int
)

func newAnalyzeCmd(env *config.Env) *cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "analysis of runs and scenes",
	}

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "frequency analysis of probe traces",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeSpectrum,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait of a probe",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzePhase,
	}
	phaseCmd.Flags().IntVar(&probeIndex, "probe", 0, "probe index")
	phaseCmd.Flags().IntVar(&period, "period", 0, "stroboscopic period in samples, 0 for the full portrait")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "values a probe settles on across a parameter range",
		RunE:  func(cmd *cobra.Command, args []string) error { return analyzeSweep(cmd, env) },
	}
	addSceneFlags(sweepCmd)
	addSweepFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&probeX, "px", 0, "probe x")
	sweepCmd.Flags().IntVar(&probeY, "py", 0, "probe y")
	sweepCmd.Flags().IntVar(&transient, "transient", 300, "frames discarded before recording")
	sweepCmd.Flags().IntVar(&record, "record", 200, "frames recorded per value")

	responseCmd := &cobra.Command{
		Use:   "response",
		Short: "rms and peak at the first probe across a parameter range",
		RunE:  func(cmd *cobra.Command, args []string) error { return analyzeResponse(cmd, env) },
	}
	addSceneFlags(responseCmd)
	addSweepFlags(responseCmd)

	sensitivityCmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "growth rate of a small disturbance",
		RunE:  func(cmd *cobra.Command, args []string) error { return analyzeSensitivity(cmd, env) },
	}
	addSceneFlags(sensitivityCmd)
	sensitivityCmd.Flags().Float64Var(&perturbation, "perturbation", 1e-6, "size of the initial disturbance")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "stability under random parameter perturbation",
		RunE:  func(cmd *cobra.Command, args []string) error { return analyzeMonteCarlo(cmd, env) },
	}
	addSceneFlags(monteCarloCmd)
	monteCarloCmd.Flags().StringVar(&mcParam, "param", "global_dampening", "parameter to perturb")
	monteCarloCmd.Flags().Float64Var(&baseValue, "value", 0.995, "unperturbed value")
	monteCarloCmd.Flags().Float64Var(&mcPerturbation, "perturbation", 0.005, "maximum perturbation")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "grid search for the parameters minimizing a metric",
		RunE:  func(cmd *cobra.Command, args []string) error { return analyzeOptimize(cmd, env) },
	}
	addSceneFlags(optimizeCmd)
	optimizeCmd.Flags().StringArrayVar(&axes, "grid", nil, "search axis key=min:max:n, repeatable")
	optimizeCmd.Flags().StringVar(&metricName, "metric", "energy", "metric to minimize")

	analyzeCmd.AddCommand(spectrumCmd, phaseCmd, sweepCmd, responseCmd, sensitivityCmd, monteCarloCmd, optimizeCmd)
	return analyzeCmd
}

func addSweepFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&sweepParam, "param", "0.frequency", "parameter to sweep: <object index>.<param> or a top-level field")
	f.Float64Var(&sweepMin, "min", 0.05, "first value")
	f.Float64Var(&sweepMax, "max", 0.5, "last value")
	f.IntVar(&sweepSteps, "n", 20, "number of values")
}

func analyzeSpectrum(cmd *cobra.Command, args []string) error {
	meta, probes, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s\n\n", meta.Name)

	for _, p := range probes {
		spec, err := analysis.ComputeSpectrum(p.Samples, 1)
		if err != nil {
			fmt.Printf("%s: %v\n", p.Name, err)
			continue
		}

		plotData := spec.Magnitude[:max(len(spec.Magnitude)/4, 1)]
		graph := asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("magnitude spectrum (%s)", p.Name)),
		)
		fmt.Println(graph)
		fmt.Println()

		omega := spec.Peak()
		fmt.Printf("dominant frequency: %.4f rad/step\n", omega)
		if omega > 0 {
			fmt.Printf("period: %.1f steps\n\n", 2*math.Pi/omega)
		}
	}
	return nil
}

func analyzePhase(cmd *cobra.Command, args []string) error {
	_, probes, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if probeIndex < 0 || probeIndex >= len(probes) {
		return fmt.Errorf("probe %d out of range (run has %d)", probeIndex, len(probes))
	}
	p := probes[probeIndex]

	var portrait *analysis.PhasePortrait2D
	if period > 0 {
		portrait = analysis.StroboscopicSection(p.Samples, 1, period, 0)
	} else {
		portrait = analysis.NewPhasePortrait(p.Samples, 1)
	}
	fmt.Printf("phase portrait: %s (%d points)\n\n", p.Name, len(portrait.Points))
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 80, 30))
	return nil
}

func analyzeSweep(cmd *cobra.Command, env *config.Env) error {
	cfg, err := resolveConfig(cmd, env)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("px") && !cmd.Flags().Changed("py") && len(cfg.Probes) > 0 {
		probeX, probeY = cfg.Probes[0].X, cfg.Probes[0].Y
	}

	registry := experiment.NewRegistry()
	build := func(param float64) (*wave.Simulator, error) {
		c := cfg.Clone()
		if err := automation.SetParam(c, sweepParam, param); err != nil {
			return nil, err
		}
		exp, err := experiment.New(c, registry)
		if err != nil {
			return nil, err
		}
		return exp.Simulator(), nil
	}

	fmt.Printf("sweeping %s over [%g, %g] at (%d,%d)...\n", sweepParam, sweepMin, sweepMax, probeX, probeY)
	data, err := analysis.Sweep(build, analysis.SweepOptions{
		Min:       sweepMin,
		Max:       sweepMax,
		Steps:     sweepSteps,
		ProbeX:    probeX,
		ProbeY:    probeY,
		Transient: transient,
		Record:    record,
	})
	if err != nil {
		return err
	}
	fmt.Println(analysis.SweepToASCII(data, 80, 25))
	return nil
}

func analyzeResponse(cmd *cobra.Command, env *config.Env) error {
	cfg, err := resolveConfig(cmd, env)
	if err != nil {
		return err
	}
	if len(cfg.Probes) == 0 {
		return fmt.Errorf("scene %s has no probes", cfg.Name)
	}

	results, err := automation.RunSweep(context.Background(), &automation.ParameterSweep{
		Base:     cfg,
		Param:    sweepParam,
		ParamMin: sweepMin,
		ParamMax: sweepMax,
		NumSteps: sweepSteps,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	rms := make([]float64, len(results))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tRMS\tPEAK\tSTABLE\n", sweepParam)
	for i, r := range results {
		rms[i] = r.RMS
		fmt.Fprintf(w, "%.4f\t%.4g\t%.4g\t%v\n", r.ParamValue, r.RMS, r.Peak, r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(rms) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(rms, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("rms response at "+cfg.Probes[0].Name)))
	}
	return nil
}

func analyzeSensitivity(cmd *cobra.Command, env *config.Env) error {
	cfg, err := resolveConfig(cmd, env)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	build := func(opts ...wave.Option) (*wave.Simulator, error) {
		exp, err := experiment.New(cfg, registry, opts...)
		if err != nil {
			return nil, err
		}
		return exp.Simulator(), nil
	}

	lambda, err := analysis.SensitivityExponent(build, perturbation, cfg.Steps)
	if err != nil {
		return err
	}
	fmt.Printf("sensitivity exponent: %.6f per step\n", lambda)
	if lambda > 0 {
		fmt.Println("disturbances grow: the medium amplifies small differences")
	} else {
		fmt.Println("disturbances do not grow")
	}
	return nil
}

func analyzeMonteCarlo(cmd *cobra.Command, env *config.Env) error {
	cfg, err := resolveConfig(cmd, env)
	if err != nil {
		return err
	}
	results, err := automation.RunMonteCarlo(context.Background(), &automation.MonteCarloConfig{
		Base:         cfg,
		Param:        mcParam,
		BaseValue:    baseValue,
		Perturbation: mcPerturbation,
		NumTrials:    trials,
		Seed:         cfg.Seed,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TRIAL\t%s\tMAX |U|\tSTABLE\n", mcParam)
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.6f\t%.4g\t%v\n", r.TrialID, r.ParamValue, r.MaxAbs, r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d  diverged: %d\n", stable, unstable)
	return nil
}

func analyzeOptimize(cmd *cobra.Command, env *config.Env) error {
	cfg, err := resolveConfig(cmd, env)
	if err != nil {
		return err
	}
	if len(axes) == 0 {
		return fmt.Errorf("at least one --grid axis is required")
	}

	names := make([]string, len(axes))
	ranges := make([][]float64, len(axes))
	for i, a := range axes {
		if names[i], ranges[i], err = optim.ParseAxis(a); err != nil {
			return err
		}
	}

	best, value, err := optim.NewGridSearch(names, ranges).Search(context.Background(), cfg, experiment.NewRegistry(), metricName)
	if err != nil {
		return err
	}
	fmt.Printf("best %s: %.6g\n", metricName, value)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best[name])
	}
	return nil
}
