package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight {
		t.Errorf("expected %dx%d grid, got %dx%d", DefaultWidth, DefaultHeight, cfg.Width, cfg.Height)
	}
	if cfg.FramesPerUpdate < 1 {
		t.Error("frames per update should be at least 1")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("single")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Width != 512 || len(cfg.Objects) != 1 {
		t.Errorf("unexpected single preset: %+v", cfg)
	}
	if cfg.Objects[0].Param("frequency", 0) != 0.1 {
		t.Errorf("expected frequency 0.1, got %f", cfg.Objects[0].Param("frequency", 0))
	}
	if cfg.Kernel == "" {
		t.Error("preset kernel should be filled in")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestGetPreset_ReturnsCopy(t *testing.T) {
	a := GetPreset("modulated")
	a.Objects[3].Params["x"] = -1
	a.Objects[3].Modulator.Frequency = 99

	b := GetPreset("modulated")
	if b.Objects[3].Params["x"] != 200 {
		t.Error("modifying a preset copy changed the original params")
	}
	if b.Objects[3].Modulator.Frequency != 0.025 {
		t.Error("modifying a preset copy changed the original modulator")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, "must be positive"},
		{"negative steps", func(c *Config) { c.Steps = -1 }, "steps"},
		{"frames per update", func(c *Config) { c.FramesPerUpdate = 0 }, "frames_per_update"},
		{"dampening", func(c *Config) { c.GlobalDampening = 1.5 }, "global_dampening"},
		{"kernel", func(c *Config) { c.Kernel = "nope" }, "nope"},
		{"kindless object", func(c *Config) { c.Objects = []ObjectConfig{{}} }, "no kind"},
		{"probe outside", func(c *Config) { c.Probes = []ProbeConfig{{X: 1000, Y: 0}} }, "outside the grid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 0
	cfg.Steps = -5
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "grid") || !strings.Contains(err.Error(), "steps") {
		t.Errorf("expected both problems reported, got %q", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cavity.yaml")
	want := GetPreset("cavity")
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != want.Width || got.Height != want.Height || got.Steps != want.Steps {
		t.Errorf("grid mismatch: got %+v", got)
	}
	if len(got.Objects) != len(want.Objects) {
		t.Fatalf("expected %d objects, got %d", len(want.Objects), len(got.Objects))
	}
	line := got.Objects[3]
	if line.Kind != "line" || len(line.Points) != 2 || line.Points[1] != [2]float64{77, 396} {
		t.Errorf("line source not preserved: %+v", line)
	}
}

func TestLoad_FillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := writeFile(path, "width: 64\nheight: 32\n"); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 64 || cfg.Height != 32 {
		t.Errorf("expected 64x32, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Steps != DefaultSteps || cfg.Colormap != DefaultColormap {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := writeFile(path, "width: [oops\n"); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("WAVESIM_STEPS", "42")
	t.Setenv("WAVESIM_KERNEL", "soft")

	e, err := ParseEnv()
	if err != nil {
		t.Fatal(err)
	}
	if e.DataDir != "runs" {
		t.Errorf("expected default data dir, got %q", e.DataDir)
	}

	cfg := DefaultConfig()
	e.Apply(cfg)
	if cfg.Steps != 42 || cfg.Kernel != "soft" {
		t.Errorf("env not applied: steps=%d kernel=%s", cfg.Steps, cfg.Kernel)
	}
	if cfg.Backend != "auto" {
		t.Errorf("unset variable changed backend to %q", cfg.Backend)
	}
}

func TestParseEnv_Invalid(t *testing.T) {
	t.Setenv("WAVESIM_STEPS", "many")
	if _, err := ParseEnv(); err == nil || !strings.Contains(err.Error(), "parse env") {
		t.Errorf("expected parse env error, got %v", err)
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
