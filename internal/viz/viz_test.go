package viz

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/scene"
	"github.com/san-kum/wavesim/internal/wave"
)

func mustColormap(t *testing.T, name string, opts ColormapOptions) *Colormap {
	t.Helper()
	cm, err := NewColormap(name, opts)
	if err != nil {
		t.Fatal(err)
	}
	return cm
}

func TestColormapNames(t *testing.T) {
	for _, name := range ColormapNames() {
		cm := mustColormap(t, name, ColormapOptions{})
		if cm.Name != name {
			t.Errorf("expected name %s, got %s", name, cm.Name)
		}
	}
	if _, err := NewColormap("nope", ColormapOptions{}); !errors.Is(err, ErrUnknownColormap) {
		t.Errorf("expected ErrUnknownColormap, got %v", err)
	}
}

func TestColormapEnds(t *testing.T) {
	gray := mustColormap(t, "gray", ColormapOptions{})
	if c := gray.At(0); c != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("gray[0] = %v", c)
	}
	if c := gray.At(255); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("gray[255] = %v", c)
	}

	hot := mustColormap(t, "afmhot", ColormapOptions{})
	if c := hot.At(0); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("afmhot starts at %v, want black", c)
	}
	if c := hot.At(255); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("afmhot ends at %v, want white", c)
	}

	wave1 := mustColormap(t, "wave1", ColormapOptions{})
	if c := wave1.Map(0.5); c.R > 8 || c.G > 8 || c.B > 8 {
		t.Errorf("wave1 centre = %v, want near black", c)
	}
}

func TestColormapOptions(t *testing.T) {
	gray := mustColormap(t, "gray", ColormapOptions{})
	inv := mustColormap(t, "gray", ColormapOptions{Invert: true})
	for i := 0; i < LUTSize; i++ {
		if inv.At(i) != gray.At(LUTSize-1-i) {
			t.Fatalf("inverted entry %d = %v, want %v", i, inv.At(i), gray.At(LUTSize-1-i))
		}
	}

	sym := mustColormap(t, "rdbu", ColormapOptions{Symmetric: true})
	for i := 0; i < LUTSize; i++ {
		if sym.At(i) != sym.At(LUTSize-1-i) {
			t.Fatalf("symmetric map differs at %d", i)
		}
	}

	crushed := mustColormap(t, "gray", ColormapOptions{BlackLevel: 0.5})
	if c := crushed.At(100); c.R != 0 {
		t.Errorf("entry below black level = %v, want black", c)
	}
	if c := crushed.At(255); c.R != 255 {
		t.Errorf("white should stay white, got %v", c)
	}
}

func TestColormapMapClamps(t *testing.T) {
	gray := mustColormap(t, "gray", ColormapOptions{})
	if gray.Map(-3) != gray.At(0) || gray.Map(7) != gray.At(255) {
		t.Error("Map should clamp out-of-range values")
	}
	if gray.Map(math.NaN()) != gray.At(0) || gray.Map(math.Inf(-1)) != gray.At(0) {
		t.Error("Map should send NaN and -Inf to entry 0")
	}
	if len(gray.Palette()) != LUTSize {
		t.Errorf("palette has %d entries", len(gray.Palette()))
	}
}

func TestVisualizerRenderField(t *testing.T) {
	gray := mustColormap(t, "gray", ColormapOptions{})
	v := NewVisualizer(gray, gray)

	u := grid.New(4, 3)
	u.Set(0, 0, 1)
	u.Set(1, 0, -1)
	img := v.RenderField(u, 1)

	if img.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("bounds %v", img.Bounds())
	}
	if c := img.RGBAAt(0, 0); c.R != 255 {
		t.Errorf("u=1 renders %v, want white", c)
	}
	if c := img.RGBAAt(1, 0); c.R != 0 {
		t.Errorf("u=-1 renders %v, want black", c)
	}
	if c := img.RGBAAt(2, 2); c != gray.Map(0.5) {
		t.Errorf("u=0 renders %v, want mid gray", c)
	}
}

func TestVisualizerIntensity(t *testing.T) {
	gray := mustColormap(t, "gray", ColormapOptions{})
	v := NewVisualizer(gray, gray)
	v.IntensityRate = 0.5

	init := grid.New(3, 3)
	init.Set(1, 1, 2)
	sim, err := wave.New(3, 3, nil, wave.WithInitialField(init))
	if err != nil {
		t.Fatal(err)
	}

	if img := v.RenderIntensity(sim.Shape(), 1); img.RGBAAt(1, 1) != gray.At(0) {
		t.Error("intensity should start dark")
	}

	v.Update(sim)
	v.Update(sim)
	// 0 -> 2 -> 3 with rate 0.5 and u^2 = 4
	if got := v.Intensity().At(1, 1); got != 3 {
		t.Errorf("intensity = %f, want 3", got)
	}

	v.Reset()
	if v.Intensity() != nil {
		t.Error("reset should drop the intensity")
	}
}

func TestRenderFrameDrawsOverlays(t *testing.T) {
	gray := mustColormap(t, "gray", ColormapOptions{})
	v := NewVisualizer(gray, gray)
	sim, err := wave.New(16, 16, []wave.SceneObject{scene.NewPointSource(8, 8, 0.1, 1)})
	if err != nil {
		t.Fatal(err)
	}
	img := v.RenderFrame(sim, 1)
	if c := img.RGBAAt(8, 8); c.R == c.B {
		t.Errorf("expected the source marker at (8,8), got %v", c)
	}
}

func TestRecorder(t *testing.T) {
	gray := mustColormap(t, "gray", ColormapOptions{})
	v := NewVisualizer(gray, gray)
	r := NewRecorder(gray.Palette(), 4, 3)

	var buf bytes.Buffer
	if err := r.Encode(&buf); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}

	u := grid.New(8, 8)
	for i := 0; i < 5; i++ {
		u.Set(i, i, 1)
		r.Add(v.RenderField(u, 1))
	}
	if r.Len() != 3 {
		t.Errorf("expected the recorder to cap at 3 frames, got %d", r.Len())
	}

	path := filepath.Join(t.TempDir(), "out.gif")
	if err := r.Save(path); err != nil {
		t.Fatal(err)
	}
	if err := r.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 3 || anim.Delay[0] != 4 {
		t.Errorf("decoded %d frames with delay %d", len(anim.Image), anim.Delay[0])
	}

	if err := SavePNG(filepath.Join(t.TempDir(), "frame.png"), v.RenderField(u, 1)); err != nil {
		t.Fatal(err)
	}
}

func TestCanvasPlotThreshold(t *testing.T) {
	c := NewCanvas(4, 2)
	u := grid.New(8, 8)
	u.Set(0, 0, 1)
	c.PlotThreshold(u, 0.5)
	if c.Grid[0][0] == 0x2800 {
		t.Error("expected dots in the top-left cell")
	}
	if c.Grid[1][3] != 0x2800 {
		t.Error("expected the bottom-right cell to stay empty")
	}
	if !strings.HasSuffix(c.String(), "\n") {
		t.Error("canvas rows should end with a newline")
	}
}

func TestRenderSurface(t *testing.T) {
	c := NewCanvas(40, 12)
	u := grid.New(16, 16)
	u.Set(8, 8, 1)
	RenderSurface(c, u, NewCamera(), 2, 0.5)

	dots := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				dots++
			}
		}
	}
	if dots == 0 {
		t.Error("surface drew nothing")
	}
}

func TestLiveModel(t *testing.T) {
	gray := mustColormap(t, "gray", ColormapOptions{})
	hot := mustColormap(t, "afmhot", ColormapOptions{})
	build := func() (*wave.Simulator, error) {
		return wave.New(32, 32, []wave.SceneObject{
			scene.NewBorderDampening(32, 32, 4),
			scene.NewPointSource(16, 16, 0.2, 1),
		})
	}
	m, err := NewLiveModel(build, LiveOptions{
		Cols: 16, Rows: 8, StepsPerTick: 3,
		Colormaps: []*Colormap{gray, hot},
		GIFPath:   filepath.Join(t.TempDir(), "live.gif"),
	})
	if err != nil {
		t.Fatal(err)
	}

	next, _ := m.Update(TickMsg(time.Now()))
	m = next.(LiveModel)
	if m.Simulator().Frames() != 3 {
		t.Errorf("expected 3 frames after one tick, got %d", m.Simulator().Frames())
	}

	for _, key := range []string{" ", "v", "c"} {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
		m = next.(LiveModel)
	}
	if m.running || m.view != ViewIntensity || m.vis.FieldColormap != hot {
		t.Errorf("keys not applied: running=%v view=%d", m.running, m.view)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(LiveModel)
	if m.Simulator().Frames() != 0 {
		t.Error("reset should rebuild the simulator")
	}

	for view := 0; view < numViews; view++ {
		m.view = view
		if m.View() == "" {
			t.Errorf("view %s rendered nothing", viewNames[view])
		}
	}

	if _, err := NewLiveModel(build, LiveOptions{}); err == nil {
		t.Error("expected an error without colormaps")
	}
}
