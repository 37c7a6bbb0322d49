package export

import (
	"strings"
	"testing"

	"github.com/san-kum/wavesim/internal/analysis"
	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	svg := CanvasToSVG(c, 10, "#fff")
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document: %q", svg)
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `cx="5.0" cy="5.0"`) || !strings.Contains(svg, `cx="35.0" cy="35.0"`) {
		t.Errorf("dots at wrong positions: %s", svg)
	}
	if !strings.Contains(svg, `width="40" height="40"`) {
		t.Errorf("unexpected document size: %s", svg)
	}

	if CanvasToSVG(nil, 1, "#fff") != "" {
		t.Error("nil canvas should give an empty document")
	}
}

func TestContourSVG(t *testing.T) {
	u := grid.New(8, 8)
	u.Set(0, 0, 1)
	u.Set(7, 7, -1)

	svg := ContourSVG(u, 0.5, 4, 2, 1)
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots above threshold, got %d", n)
	}
	if strings.Count(ContourSVG(u, 2, 4, 2, 1), "<circle") != 0 {
		t.Error("no dot should pass a threshold of 2")
	}
}

func TestTraceSVG(t *testing.T) {
	svg := TraceSVG([]float64{0, 1, 2}, []float64{0, 1, 0}, 100, 50, "#ff0")
	if !strings.Contains(svg, `stroke="#ff0"`) {
		t.Errorf("stroke not applied: %s", svg)
	}
	if n := strings.Count(svg, " L"); n != 2 {
		t.Errorf("expected 2 line segments, got %d", n)
	}
	// first point at 10% padding from the left, bottom edge padded too
	if !strings.Contains(svg, "d=\"M8.3,45.8") {
		t.Errorf("unexpected first point: %s", svg)
	}

	if TraceSVG([]float64{0}, []float64{1}, 10, 10, "#fff") != "" {
		t.Error("a single sample should give an empty document")
	}
}

func TestPhaseSVG(t *testing.T) {
	p := analysis.NewPhasePortrait([]float64{0, 1, 0, -1, 0}, 1)
	if svg := PhaseSVG(p, 60, 60, "#0ff"); !strings.Contains(svg, "<path") {
		t.Errorf("expected a path: %s", svg)
	}
	if PhaseSVG(nil, 10, 10, "#fff") != "" {
		t.Error("nil portrait should give an empty document")
	}
}
