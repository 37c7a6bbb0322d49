package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/wavesim/internal/grid"
)

const (
	DefaultWidth           = 256
	DefaultHeight          = 256
	DefaultSteps           = 1000
	DefaultFramesPerUpdate = 2
	DefaultBrightness      = 1.0
	DefaultColormap        = "wave1"
)

var ErrInvalid = errors.New("config: invalid")

// Config describes one simulation: the grid, the run length and the scene.
type Config struct {
	Name            string         `yaml:"name,omitempty"`
	Width           int            `yaml:"width"`
	Height          int            `yaml:"height"`
	Steps           int            `yaml:"steps"`
	FramesPerUpdate int            `yaml:"frames_per_update"`
	Kernel          string         `yaml:"kernel,omitempty"`
	GlobalDampening float64        `yaml:"global_dampening"`
	Backend         string         `yaml:"backend,omitempty"`
	Seed            int64          `yaml:"seed"`
	Brightness      float64        `yaml:"brightness"`
	Colormap        string         `yaml:"colormap,omitempty"`
	Objects         []ObjectConfig `yaml:"objects"`
	Probes          []ProbeConfig  `yaml:"probes,omitempty"`
}

// ObjectConfig is one scene object. Which params are read depends on Kind;
// see the experiment registry.
type ObjectConfig struct {
	Kind      string             `yaml:"kind"`
	Params    map[string]float64 `yaml:"params,omitempty"`
	Points    [][2]float64       `yaml:"points,omitempty"`
	Path      string             `yaml:"path,omitempty"`
	Modulator *ModulatorConfig   `yaml:"modulator,omitempty"`
}

// Param returns Params[key], or def when it is missing.
func (o ObjectConfig) Param(key string, def float64) float64 {
	if v, ok := o.Params[key]; ok {
		return v
	}
	return def
}

type ModulatorConfig struct {
	Kind       string    `yaml:"kind"` // smooth_square, discrete, random
	Frequency  float64   `yaml:"frequency,omitempty"`
	Phase      float64   `yaml:"phase,omitempty"`
	Smoothness float64   `yaml:"smoothness,omitempty"`
	Levels     []float64 `yaml:"levels,omitempty"`
	Count      int       `yaml:"count,omitempty"`
	TimeFactor float64   `yaml:"time_factor,omitempty"`
}

type ProbeConfig struct {
	Name string `yaml:"name,omitempty"`
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		Steps:           DefaultSteps,
		FramesPerUpdate: DefaultFramesPerUpdate,
		Kernel:          "default",
		GlobalDampening: 1.0,
		Backend:         "auto",
		Brightness:      DefaultBrightness,
		Colormap:        DefaultColormap,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets can be modified safely.
func (c *Config) Clone() *Config {
	out := *c
	out.Objects = make([]ObjectConfig, len(c.Objects))
	for i, o := range c.Objects {
		cp := o
		if o.Params != nil {
			cp.Params = make(map[string]float64, len(o.Params))
			for k, v := range o.Params {
				cp.Params[k] = v
			}
		}
		cp.Points = append([][2]float64(nil), o.Points...)
		if o.Modulator != nil {
			m := *o.Modulator
			m.Levels = append([]float64(nil), o.Modulator.Levels...)
			cp.Modulator = &m
		}
		out.Objects[i] = cp
	}
	out.Probes = append([]ProbeConfig(nil), c.Probes...)
	return &out
}

// Validate checks everything that can be checked without building the
// scene. Object kinds are checked by the experiment registry.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("grid %dx%d must be positive", c.Width, c.Height))
	}
	if c.Steps < 0 {
		errs = append(errs, fmt.Errorf("steps %d must not be negative", c.Steps))
	}
	if c.FramesPerUpdate < 1 {
		errs = append(errs, fmt.Errorf("frames_per_update %d must be at least 1", c.FramesPerUpdate))
	}
	if c.GlobalDampening < 0 || c.GlobalDampening > 1 {
		errs = append(errs, fmt.Errorf("global_dampening %v outside [0,1]", c.GlobalDampening))
	}
	if _, err := grid.LaplacianByName(c.Kernel); err != nil {
		errs = append(errs, err)
	}
	for i, o := range c.Objects {
		if o.Kind == "" {
			errs = append(errs, fmt.Errorf("object %d has no kind", i))
		}
	}
	for i, p := range c.Probes {
		if p.X < 0 || p.Y < 0 || p.X >= c.Width || p.Y >= c.Height {
			errs = append(errs, fmt.Errorf("probe %d at (%d,%d) outside the grid", i, p.X, p.Y))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
