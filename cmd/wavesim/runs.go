package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/wavesim/internal/analysis"
	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/experiment"
	"github.com/san-kum/wavesim/internal/export"
	"github.com/san-kum/wavesim/internal/storage"
)

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tGRID\tFRAMES\tOBJECTS")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		kinds := make([]string, len(cfg.Objects))
		for i, o := range cfg.Objects {
			kinds[i] = o.Kind
		}
		fmt.Fprintf(w, "%s\t%dx%d\t%d\t%v\n", name, cfg.Width, cfg.Height, cfg.Steps, kinds)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nobject kinds: %v\n", experiment.NewRegistry().ListKinds())
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tGRID\tFRAMES\tKERNEL\tBACKEND")
	for _, run := range runs {
		status := ""
		if run.Unstable {
			status = " (diverged)"
		}
		fmt.Fprintf(w, "%s\t%s%s\t%s\t%dx%d\t%d\t%s\t%s\n",
			run.ID,
			run.Name, status,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Frames,
			run.Kernel,
			run.Backend,
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []experiment.ProbeSeries, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	probes, err := st.LoadProbes(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(probes) == 0 {
		return nil, nil, fmt.Errorf("run %s has no probes", runID)
	}
	return meta, probes, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, probes, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s (%dx%d)\n", meta.Name, meta.Width, meta.Height)
	fmt.Printf("samples: %d\n\n", len(probes[0].Samples))

	const maxPlots = 6
	for i, p := range probes {
		if i == maxPlots {
			break
		}
		if len(p.Samples) == 0 {
			continue
		}
		graph := asciigraph.Plot(p.Samples,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s vs time", p.Name)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, probes, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if probeIndex < 0 || probeIndex >= len(probes) {
		return fmt.Errorf("probe %d out of range (run has %d)", probeIndex, len(probes))
	}

	var out io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	p := probes[probeIndex]
	switch format {
	case "json":
		res := &experiment.Result{
			Name:    meta.Name,
			Frames:  meta.Frames,
			Time:    meta.Time,
			Metrics: meta.Metrics,
			Probes:  probes,
		}
		data := storage.NewExportData(res, false)
		data.Width, data.Height = meta.Width, meta.Height
		return data.Encode(out)
	case "svg":
		_, err = io.WriteString(out, export.TraceSVG(p.Times, p.Samples, 800, 300, "#00ff88"))
	case "phase-svg":
		dt := 1.0
		if len(p.Times) > 1 {
			dt = p.Times[1] - p.Times[0]
		}
		_, err = io.WriteString(out, export.PhaseSVG(analysis.NewPhasePortrait(p.Samples, dt), 500, 500, "#00ccff"))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return err
}
