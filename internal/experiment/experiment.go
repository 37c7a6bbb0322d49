package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/wavesim/internal/compute"
	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/metrics"
	"github.com/san-kum/wavesim/internal/wave"
)

// StabilityThreshold is the field amplitude above which a frame counts as
// a stability violation. It only lowers the stability metric; a run stops
// early only when the field turns NaN or Inf.
const StabilityThreshold = 1e3

// ProbeSeries is the recorded field value at one probe.
type ProbeSeries struct {
	Name    string
	X, Y    int
	Times   []float64
	Samples []float64
}

type Result struct {
	Name     string
	Frames   int
	Time     float64
	Elapsed  time.Duration
	Metrics  map[string]float64
	Probes   []ProbeSeries
	Field    *grid.Plane
	Unstable bool
}

// Experiment is one configured simulation together with the metrics the
// runner records for it.
type Experiment struct {
	cfg       *config.Config
	simulator *wave.Simulator
	probes    []*metrics.Probe
}

// New validates cfg and builds its scene and simulator. opts are applied
// after the ones derived from cfg.
func New(cfg *config.Config, reg *Registry, opts ...wave.Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = NewRegistry()
	}

	objects, err := reg.BuildScene(cfg)
	if err != nil {
		return nil, err
	}
	kernel, err := grid.LaplacianByName(cfg.Kernel)
	if err != nil {
		return nil, err
	}
	backend, err := compute.Select(cfg.Backend)
	if err != nil {
		return nil, err
	}

	simOpts := []wave.Option{
		wave.WithKernel(kernel),
		wave.WithBackend(backend),
		wave.WithGlobalDampening(cfg.GlobalDampening),
	}
	s, err := wave.New(cfg.Width, cfg.Height, objects, append(simOpts, opts...)...)
	if err != nil {
		return nil, err
	}

	e := &Experiment{cfg: cfg, simulator: s}
	s.AddMetric(metrics.NewEnergy())
	s.AddMetric(metrics.NewEnergyDrift())
	s.AddMetric(metrics.NewStability(StabilityThreshold))
	s.AddMetric(metrics.NewActivity())
	for _, pc := range cfg.Probes {
		p := metrics.NewProbe(pc.Name, pc.X, pc.Y)
		e.probes = append(e.probes, p)
		s.AddMetric(p)
	}
	return e, nil
}

func (e *Experiment) Config() *config.Config     { return e.cfg }
func (e *Experiment) Simulator() *wave.Simulator { return e.simulator }
func (e *Experiment) Probes() []*metrics.Probe   { return e.probes }

// Run advances cfg.Steps frames. callback, if set, sees the simulator every
// FramesPerUpdate frames and may stop the run by returning false. The run
// also stops with wave.ErrUnstable as soon as the field diverges; the
// partial result is returned alongside that error.
func (e *Experiment) Run(ctx context.Context, callback func(*wave.Simulator) bool) (*Result, error) {
	start := time.Now()
	var unstable error
	err := e.simulator.Run(ctx, e.cfg.Steps, e.cfg.FramesPerUpdate, func(s *wave.Simulator) bool {
		if unstable = s.CheckStable(); unstable != nil {
			return false
		}
		if callback != nil {
			return callback(s)
		}
		return true
	})

	res := e.result(time.Since(start))
	if err != nil {
		return res, err
	}
	if unstable != nil {
		res.Unstable = true
		return res, fmt.Errorf("%s: %w", e.name(), unstable)
	}
	return res, nil
}

func (e *Experiment) name() string {
	if e.cfg.Name != "" {
		return e.cfg.Name
	}
	return "wavesim"
}

func (e *Experiment) result(elapsed time.Duration) *Result {
	res := &Result{
		Name:    e.name(),
		Frames:  e.simulator.Frames(),
		Time:    e.simulator.Time(),
		Elapsed: elapsed,
		Metrics: e.simulator.Metrics(),
		Field:   e.simulator.Field().Clone(),
	}
	for _, p := range e.probes {
		res.Probes = append(res.Probes, ProbeSeries{
			Name:    p.Name(),
			X:       p.X,
			Y:       p.Y,
			Times:   append([]float64(nil), p.Times()...),
			Samples: append([]float64(nil), p.Samples()...),
		})
	}
	return res
}
