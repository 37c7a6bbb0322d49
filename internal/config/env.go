package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds overrides read from the environment. Zero values leave the
// configuration untouched.
type Env struct {
	Steps           int    `env:"WAVESIM_STEPS"`
	FramesPerUpdate int    `env:"WAVESIM_FRAMES_PER_UPDATE"`
	Backend         string `env:"WAVESIM_BACKEND"`
	Kernel          string `env:"WAVESIM_KERNEL"`
	DataDir         string `env:"WAVESIM_DATA_DIR" envDefault:"runs"`
}

// ParseEnv loads overrides from environment variables.
func ParseEnv() (*Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &e, nil
}

// Apply overrides cfg in place.
func (e *Env) Apply(cfg *Config) {
	if e.Steps > 0 {
		cfg.Steps = e.Steps
	}
	if e.FramesPerUpdate > 0 {
		cfg.FramesPerUpdate = e.FramesPerUpdate
	}
	if e.Backend != "" {
		cfg.Backend = e.Backend
	}
	if e.Kernel != "" {
		cfg.Kernel = e.Kernel
	}
}
