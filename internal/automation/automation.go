package automation

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/experiment"
	"github.com/san-kum/wavesim/internal/storage"
)

// Scenario is a batch of runs described in YAML.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Parallel    int           `yaml:"parallel"`
	Runs        []ScenarioRun `yaml:"runs"`
}

// ScenarioRun starts from a preset or a config file and applies overrides.
// Set keys use the syntax accepted by SetParam.
type ScenarioRun struct {
	Name   string             `yaml:"name"`
	Preset string             `yaml:"preset"`
	Config string             `yaml:"config"`
	Steps  int                `yaml:"steps"`
	Set    map[string]float64 `yaml:"set"`
	Save   bool               `yaml:"save"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &scenario, nil
}

// Resolve builds the configuration of one run.
func (r ScenarioRun) Resolve() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case r.Config != "":
		c, err := config.Load(r.Config)
		if err != nil {
			return nil, err
		}
		cfg = c
	case r.Preset != "":
		cfg = config.GetPreset(r.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", r.Preset)
		}
	default:
		return nil, fmt.Errorf("run %q needs a preset or a config", r.Name)
	}

	if r.Name != "" {
		cfg.Name = r.Name
	}
	if r.Steps > 0 {
		cfg.Steps = r.Steps
	}
	for key, v := range r.Set {
		if err := SetParam(cfg, key, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// SetParam sets one numeric value in cfg. Keys are either a top-level
// field (steps, seed, global_dampening, brightness) or "<index>.<param>"
// for a param of the object at that index, e.g. "2.frequency".
func SetParam(cfg *config.Config, key string, v float64) error {
	idx, param, ok := strings.Cut(key, ".")
	if !ok {
		switch key {
		case "steps":
			cfg.Steps = int(v)
		case "seed":
			cfg.Seed = int64(v)
		case "global_dampening":
			cfg.GlobalDampening = v
		case "brightness":
			cfg.Brightness = v
		default:
			return fmt.Errorf("unknown parameter %q", key)
		}
		return nil
	}

	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 || i >= len(cfg.Objects) {
		return fmt.Errorf("parameter %q: no object %s", key, idx)
	}
	if cfg.Objects[i].Params == nil {
		cfg.Objects[i].Params = make(map[string]float64)
	}
	cfg.Objects[i].Params[param] = v
	return nil
}

// RunOutcome is what one scenario run produced. RunID is empty unless the
// run was saved.
type RunOutcome struct {
	Name   string
	RunID  string
	Result *experiment.Result
}

func workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// RunScenario executes every run of the scenario, at most Parallel at a
// time. The first failure cancels the runs still in flight. A run whose
// field diverges is not a failure: its partial result is kept, and saved
// like any other. store may be nil, in which case nothing is saved.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, store *storage.Store) ([]RunOutcome, error) {
	outcomes := make([]RunOutcome, len(scenario.Runs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(scenario.Parallel))

	for i, run := range scenario.Runs {
		g.Go(func() error {
			cfg, err := run.Resolve()
			if err != nil {
				return fmt.Errorf("run %d: %w", i+1, err)
			}
			log.Printf("running %d/%d: %s", i+1, len(scenario.Runs), cfg.Name)

			exp, err := experiment.New(cfg, registry)
			if err != nil {
				return fmt.Errorf("run %d setup: %w", i+1, err)
			}
			res, err := exp.Run(ctx, nil)
			if res != nil && res.Unstable {
				log.Printf("run %d/%d: %s diverged after %d frames", i+1, len(scenario.Runs), cfg.Name, res.Frames)
			} else if err != nil {
				return fmt.Errorf("run %d: %w", i+1, err)
			}

			outcomes[i] = RunOutcome{Name: cfg.Name, Result: res}
			if run.Save && store != nil {
				id, err := store.Save(cfg, res, nil)
				if err != nil {
					return fmt.Errorf("run %d save: %w", i+1, err)
				}
				outcomes[i].RunID = id
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

// ParameterSweep runs Base once per value of Param, evenly spaced over
// [ParamMin, ParamMax], and measures the signal at probe Probe.
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	ParamMin float64
	ParamMax float64
	NumSteps int
	Probe    int
	Parallel int
}

type SweepResult struct {
	ParamValue float64
	RMS        float64
	Peak       float64
	Stable     bool
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step")
	}
	if sweep.Probe < 0 || sweep.Probe >= len(sweep.Base.Probes) {
		return nil, fmt.Errorf("sweep probe %d not configured", sweep.Probe)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}
	results := make([]SweepResult, sweep.NumSteps)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(sweep.Parallel))
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		g.Go(func() error {
			cfg := sweep.Base.Clone()
			if err := SetParam(cfg, sweep.Param, paramVal); err != nil {
				return err
			}
			res, stable, err := runOne(ctx, cfg, registry)
			if err != nil {
				return fmt.Errorf("%s=%.4f: %w", sweep.Param, paramVal, err)
			}
			rms, peak := probeStats(res.Probes[sweep.Probe].Samples)
			results[i] = SweepResult{ParamValue: paramVal, RMS: rms, Peak: peak, Stable: stable}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// runOne runs cfg to completion. A diverging run is not an error here; it
// is reported through stable.
func runOne(ctx context.Context, cfg *config.Config, registry *experiment.Registry) (*experiment.Result, bool, error) {
	exp, err := experiment.New(cfg, registry)
	if err != nil {
		return nil, false, err
	}
	res, err := exp.Run(ctx, nil)
	if res != nil && res.Unstable {
		return res, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

func probeStats(samples []float64) (rms, peak float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range samples {
		sum += v * v
		peak = math.Max(peak, math.Abs(v))
	}
	return math.Sqrt(sum / float64(len(samples))), peak
}

// MonteCarloConfig perturbs Param of Base uniformly by up to ±Perturbation
// for each trial.
type MonteCarloConfig struct {
	Base         *config.Config
	Param        string
	BaseValue    float64
	Perturbation float64
	NumTrials    int
	Seed         int64
	Parallel     int
}

type MonteCarloResult struct {
	TrialID    int
	ParamValue float64
	MaxAbs     float64
	Stable     bool
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	// Draw every value up front so results do not depend on scheduling.
	values := make([]float64, cfg.NumTrials)
	for i := range values {
		values[i] = cfg.BaseValue + (rng.Float64()-0.5)*2*cfg.Perturbation
	}

	results := make([]MonteCarloResult, cfg.NumTrials)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(cfg.Parallel))
	for trial, v := range values {
		g.Go(func() error {
			c := cfg.Base.Clone()
			if err := SetParam(c, cfg.Param, v); err != nil {
				return err
			}
			res, stable, err := runOne(ctx, c, registry)
			if err != nil {
				return fmt.Errorf("trial %d: %w", trial, err)
			}
			results[trial] = MonteCarloResult{TrialID: trial, ParamValue: v, Stable: stable}
			if stable {
				results[trial].MaxAbs = res.Field.MaxAbs()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MonteCarloStats counts stable and diverged trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
