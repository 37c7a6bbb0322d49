package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/wavesim/internal/automation"
	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/experiment"
	"github.com/san-kum/wavesim/internal/export"
	"github.com/san-kum/wavesim/internal/storage"
	"github.com/san-kum/wavesim/internal/viz"
	"github.com/san-kum/wavesim/internal/wave"
)

func runSimulation(cmd *cobra.Command, env *config.Env) error {
	cfg, err := resolveConfig(cmd, env)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, nil)
	if err != nil {
		return err
	}
	maps, err := colormapsFor(cfg)
	if err != nil {
		return err
	}
	vis := viz.NewVisualizer(maps[0], maps[0])

	var rec *viz.Recorder
	if runGIF != "" {
		rec = viz.NewRecorder(maps[0].Palette(), 4, 0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s (%dx%d, %d frames, %s)...\n", cfg.Name, cfg.Width, cfg.Height, cfg.Steps, exp.Simulator().Backend().Name())
	res, err := exp.Run(ctx, func(s *wave.Simulator) bool {
		vis.Update(s)
		if rec != nil {
			rec.Add(vis.RenderFrame(s, cfg.Brightness))
		}
		fmt.Printf("\r%s %d/%d", viz.ProgressBar(float64(s.Frames())/float64(max(cfg.Steps, 1)), 30), s.Frames(), cfg.Steps)
		return true
	})
	fmt.Println()
	if err != nil && !errors.Is(err, wave.ErrUnstable) {
		return err
	}
	if res.Unstable {
		fmt.Println(viz.StatusRecording.Render("field diverged, saving partial run"))
	}

	fmt.Printf("completed in %v (%.0f frames/s)\n", res.Elapsed.Round(time.Millisecond), float64(res.Frames)/res.Elapsed.Seconds())

	if rec != nil {
		if err := rec.Save(runGIF); err != nil {
			return err
		}
		fmt.Printf("gif: %s (%d frames)\n", runGIF, rec.Len())
	}

	if runJSON != "" {
		if err := storage.ExportJSONFile(runJSON, res, true); err != nil {
			return err
		}
		fmt.Printf("json: %s\n", runJSON)
	}

	if !noSave {
		st, err := openStore()
		if err != nil {
			return err
		}
		runID, err := st.Save(cfg, res, vis.RenderFrame(exp.Simulator(), cfg.Brightness))
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Println("\nmetrics:")
	printMetrics(res.Metrics)
	return err
}

func printMetrics(m map[string]float64) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(m) {
		fmt.Fprintf(w, "  %s\t%.6g\n", name, m[name])
	}
	w.Flush()
}

func runLive(cmd *cobra.Command, env *config.Env) error {
	cfg, err := resolveConfig(cmd, env)
	if err != nil {
		return err
	}
	maps, err := colormapsFor(cfg)
	if err != nil {
		return err
	}
	hot, err := viz.NewColormap("afmhot", viz.ColormapOptions{})
	if err != nil {
		return err
	}

	build := func() (*wave.Simulator, error) {
		exp, err := experiment.New(cfg, nil)
		if err != nil {
			return nil, err
		}
		return exp.Simulator(), nil
	}

	return viz.RunLive(build, viz.LiveOptions{
		Title:        cfg.Name,
		StepsPerTick: stepsPerTick,
		Brightness:   cfg.Brightness,
		Colormaps:    maps,
		Intensity:    hot,
		GIFPath:      liveGIF,
	})
}

func renderScene(cmd *cobra.Command, env *config.Env) error {
	cfg, err := resolveConfig(cmd, env)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, nil)
	if err != nil {
		return err
	}
	maps, err := colormapsFor(cfg)
	if err != nil {
		return err
	}
	hot, err := viz.NewColormap("afmhot", viz.ColormapOptions{})
	if err != nil {
		return err
	}
	vis := viz.NewVisualizer(maps[0], hot)

	// Every frame feeds the intensity average, not only every fpu-th.
	cfg.FramesPerUpdate = 1
	if _, err := exp.Run(context.Background(), func(s *wave.Simulator) bool {
		vis.Update(s)
		return true
	}); err != nil {
		return err
	}

	s := exp.Simulator()
	if strings.EqualFold(filepath.Ext(renderOut), ".svg") {
		cols, rows := cfg.Width/2, cfg.Height/4
		svg := export.ContourSVG(s.Field(), threshold/cfg.Brightness, cols, rows, 2)
		return os.WriteFile(renderOut, []byte(svg), 0644)
	}

	var img *image.RGBA
	if intensity {
		img = vis.RenderIntensity(s.Shape(), cfg.Brightness)
	} else {
		img = vis.RenderField(s.Field(), cfg.Brightness)
	}
	if overlay {
		s.RenderVisualization(img)
	}
	if err := viz.SavePNG(renderOut, img); err != nil {
		return err
	}
	fmt.Printf("wrote %s (t=%.0f)\n", renderOut, s.Time())
	return nil
}

func benchBackends(cmd *cobra.Command, args []string) error {
	sizes := []int{128, 256, 512}
	backends := []string{"serial", "cpu"}

	fmt.Printf("benchmarking %d frames per run\n\n", benchFrames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GRID\tBACKEND\tFRAMES\tTIME\tFRAMES/SEC\tMCELLS/SEC")

	for _, size := range sizes {
		for _, b := range backends {
			cfg := config.GetPreset("single")
			cfg.Width, cfg.Height = size, size
			cfg.Steps = benchFrames
			cfg.Backend = b
			cfg.Probes = nil
			cfg.Objects[0].Params["x"] = float64(size / 2)
			cfg.Objects[0].Params["y"] = float64(size / 2)

			exp, err := experiment.New(cfg, nil)
			if err != nil {
				return err
			}
			res, err := exp.Run(context.Background(), nil)
			if err != nil {
				return err
			}

			secs := res.Elapsed.Seconds()
			fmt.Fprintf(w, "%dx%d\t%s\t%d\t%v\t%.0f\t%.1f\n",
				size, size, exp.Simulator().Backend().Name(), res.Frames, res.Elapsed.Round(time.Millisecond),
				float64(res.Frames)/secs, float64(res.Frames*size*size)/secs/1e6)
		}
	}
	return w.Flush()
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("batch %s: %d runs\n", scenario.Name, len(scenario.Runs))
	start := time.Now()
	outcomes, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), st)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFRAMES\tTIME\tENERGY\tRUN ID")
	for _, o := range outcomes {
		fmt.Fprintf(w, "%s\t%d\t%v\t%.4g\t%s\n", o.Name, o.Result.Frames, o.Result.Elapsed.Round(time.Millisecond), o.Result.Metrics["energy"], o.RunID)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbatch completed in %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}
