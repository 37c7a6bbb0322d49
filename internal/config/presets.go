package config

import "sort"

func obj(kind string, params map[string]float64) ObjectConfig {
	return ObjectConfig{Kind: kind, Params: params}
}

func border(thickness int) ObjectConfig {
	return obj("border", map[string]float64{"border": float64(thickness)})
}

func uniform(n float64) ObjectConfig {
	return obj("refractive", map[string]float64{"n": n})
}

// Presets are built-in scenes, keyed by name.
var Presets = map[string]*Config{
	"single": {
		Name: "single", Width: 512, Height: 512, Steps: 1000, FramesPerUpdate: 2,
		GlobalDampening: 1, Brightness: 0.5,
		Objects: []ObjectConfig{
			obj("point", map[string]float64{"x": 200, "y": 256, "frequency": 0.1, "amplitude": 5}),
		},
		Probes: []ProbeConfig{{Name: "centre", X: 256, Y: 256}},
	},
	"modulated": {
		Name: "modulated", Width: 600, Height: 600, Steps: 2000, FramesPerUpdate: 2,
		GlobalDampening: 1, Brightness: 0.25,
		Objects: []ObjectConfig{
			border(32),
			uniform(1.5),
			obj("point", map[string]float64{"x": 200, "y": 220, "frequency": 0.2, "amplitude": 8}),
			{
				Kind:      "point",
				Params:    map[string]float64{"x": 200, "y": 380, "frequency": 0.2, "amplitude": 8},
				Modulator: &ModulatorConfig{Kind: "smooth_square", Frequency: 0.025, Smoothness: 0.5},
			},
		},
		Probes: []ProbeConfig{{Name: "upper", X: 400, Y: 220}, {Name: "lower", X: 400, Y: 380}},
	},
	"random_signal": {
		Name: "random_signal", Width: 400, Height: 300, Steps: 2000, FramesPerUpdate: 2,
		GlobalDampening: 1, Seed: 7, Brightness: 0.5,
		Objects: []ObjectConfig{
			border(32),
			{
				Kind:      "point",
				Params:    map[string]float64{"x": 100, "y": 150, "frequency": 0.3, "amplitude": 4},
				Modulator: &ModulatorConfig{Kind: "random", Count: 32, TimeFactor: 0.02},
			},
		},
		Probes: []ProbeConfig{{Name: "receiver", X: 300, Y: 150}},
	},
	"cavity": {
		Name: "cavity", Width: 768, Height: 512, Steps: 4000, FramesPerUpdate: 4,
		GlobalDampening: 1, Brightness: 1,
		Objects: []ObjectConfig{
			border(48),
			obj("box", map[string]float64{"cx": 50, "cy": 256, "w": 50, "h": 409, "angle": 0, "n": 100}),
			obj("box", map[string]float64{"cx": 588, "cy": 256, "w": 40, "h": 409, "angle": 0, "n": 10}),
			{
				Kind:   "line",
				Params: map[string]float64{"frequency": 0.1003, "amplitude": 0.3},
				Points: [][2]float64{{77, 116}, {77, 396}},
			},
		},
		Probes: []ProbeConfig{{Name: "cavity", X: 330, Y: 256}},
	},
	"lens": {
		Name: "lens", Width: 512, Height: 384, Steps: 1500, FramesPerUpdate: 2,
		GlobalDampening: 1, Brightness: 1,
		Objects: []ObjectConfig{
			border(32),
			{
				Kind:   "polygon",
				Params: map[string]float64{"n": 1.5},
				Points: [][2]float64{{230, 92}, {250, 140}, {256, 192}, {250, 244}, {230, 292}, {210, 244}, {204, 192}, {210, 140}},
			},
			{
				Kind:   "line",
				Params: map[string]float64{"frequency": 0.25, "amplitude": 1},
				Points: [][2]float64{{60, 80}, {60, 304}},
			},
		},
		Probes: []ProbeConfig{{Name: "focus", X: 360, Y: 192}},
	},
	"strain": {
		Name: "strain", Width: 256, Height: 256, Steps: 1500, FramesPerUpdate: 2,
		GlobalDampening: 1, Brightness: 1,
		Objects: []ObjectConfig{
			border(24),
			obj("strain", map[string]float64{"offset": 1.5, "coupling": 2}),
			obj("point", map[string]float64{"x": 128, "y": 128, "frequency": 0.15, "amplitude": 1}),
		},
		Probes: []ProbeConfig{{Name: "ring", X: 170, Y: 128}},
	},
	"charge": {
		Name: "charge", Width: 600, Height: 600, Steps: 2000, FramesPerUpdate: 2,
		GlobalDampening: 1, Brightness: 4,
		Objects: []ObjectConfig{
			border(64),
			uniform(1.5),
			obj("charge", map[string]float64{"x": 300, "y": 300, "frequency": 0.1, "amplitude": 10}),
		},
		Probes: []ProbeConfig{{Name: "wake", X: 300, Y: 450}},
	},
}

// GetPreset returns a copy of the named preset with defaults filled in, or
// nil when there is no such preset.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := p.Clone()
	def := DefaultConfig()
	if cfg.Kernel == "" {
		cfg.Kernel = def.Kernel
	}
	if cfg.Backend == "" {
		cfg.Backend = def.Backend
	}
	if cfg.Colormap == "" {
		cfg.Colormap = def.Colormap
	}
	return cfg
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
