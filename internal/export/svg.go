package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/wavesim/internal/analysis"
	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// CanvasToSVG draws every set Braille dot of canvas as a circle. scale is
// the size of one dot cell in SVG units.
func CanvasToSVG(canvas *viz.Canvas, scale float64, fill string) string {
	if canvas == nil {
		return ""
	}

	var sb strings.Builder
	header(&sb, float64(canvas.Width)*scale*2, float64(canvas.Height)*scale*4)
	fmt.Fprintf(&sb, "<g fill=%q>\n", fill)

	r := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
				(float64(x)+0.5)*scale, (float64(y)+0.5)*scale, r)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// ContourSVG marks the cells of u whose magnitude exceeds threshold. The
// field is resampled onto a cols×rows Braille canvas first.
func ContourSVG(u *grid.Plane, threshold float64, cols, rows int, scale float64) string {
	c := viz.NewCanvas(cols, rows)
	c.PlotThreshold(u, threshold)
	return CanvasToSVG(c, scale, "#00ff88")
}

// TraceSVG draws a probe trace as a polyline with the time axis running
// left to right.
func TraceSVG(times, samples []float64, width, height int, stroke string) string {
	n := min(len(times), len(samples))
	points := make([]analysis.PhasePoint, n)
	for i := 0; i < n; i++ {
		points[i] = analysis.PhasePoint{X: times[i], Y: samples[i]}
	}
	return polylineSVG(points, width, height, stroke)
}

// PhaseSVG draws a phase portrait (value against rate of change).
func PhaseSVG(p *analysis.PhasePortrait2D, width, height int, stroke string) string {
	if p == nil {
		return ""
	}
	return polylineSVG(p.Points, width, height, stroke)
}

func polylineSVG(points []analysis.PhasePoint, width, height int, stroke string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	// 10% padding on each side.
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
