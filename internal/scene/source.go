package scene

import (
	"image"
	"image/color"
	"math"

	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/modulator"
)

var sourceMarker = color.RGBA{R: 255, G: 220, B: 0, A: 255}

// PointSource emits a sinusoid at one cell. It leaves wave speed and
// dampening untouched. A position outside the grid emits nothing.
type PointSource struct {
	X, Y int
	emitter
}

func NewPointSource(x, y int, frequency, amplitude float64, opts ...SourceOption) *PointSource {
	return &PointSource{X: x, Y: y, emitter: newEmitter(frequency, amplitude, opts)}
}

// SetModulator replaces the amplitude modulator; nil removes it.
func (p *PointSource) SetModulator(m modulator.Modulator) { p.Modulator = m }

func (p *PointSource) Render(field, waveSpeed, dampening *grid.Plane) error {
	return grid.CheckShape(field.Shape(), waveSpeed, dampening)
}

func (p *PointSource) UpdateField(field *grid.Plane, t float64) error {
	if !field.InBounds(p.X, p.Y) {
		return nil
	}
	p.Emission.write(field, field.Index(p.X, p.Y), p.value(t))
	return nil
}

func (p *PointSource) RenderVisualization(img *image.RGBA) {
	for d := -2; d <= 2; d++ {
		setIfInside(img, p.X+d, p.Y, sourceMarker)
		setIfInside(img, p.X, p.Y+d, sourceMarker)
	}
}

// Point is a position in cell coordinates.
type Point struct {
	X, Y float64
}

// LineSource emits the same sinusoid along a segment. The segment is
// sampled at floor(length)+1 evenly spaced points rounded to the nearest
// cell; samples outside the grid are dropped.
type LineSource struct {
	Start, End Point
	emitter
}

func NewLineSource(start, end Point, frequency, amplitude float64, opts ...SourceOption) *LineSource {
	return &LineSource{Start: start, End: end, emitter: newEmitter(frequency, amplitude, opts)}
}

func (l *LineSource) SetModulator(m modulator.Modulator) { l.Modulator = m }

func (l *LineSource) Render(field, waveSpeed, dampening *grid.Plane) error {
	return grid.CheckShape(field.Shape(), waveSpeed, dampening)
}

func (l *LineSource) UpdateField(field *grid.Plane, t float64) error {
	v := l.value(t)
	l.samples(func(x, y int) {
		if field.InBounds(x, y) {
			l.Emission.write(field, field.Index(x, y), v)
		}
	})
	return nil
}

// samples calls fn for every rasterized sample, including duplicates.
func (l *LineSource) samples(fn func(x, y int)) {
	dx, dy := l.End.X-l.Start.X, l.End.Y-l.Start.Y
	n := int(math.Sqrt(dx*dx+dy*dy)) + 1
	if n == 1 {
		fn(int(math.RoundToEven(l.Start.X)), int(math.RoundToEven(l.Start.Y)))
		return
	}
	for i := 0; i < n; i++ {
		f := float64(i) / float64(n-1)
		x := l.Start.X + dx*f
		y := l.Start.Y + dy*f
		if i == n-1 {
			x, y = l.End.X, l.End.Y
		}
		fn(int(math.RoundToEven(x)), int(math.RoundToEven(y)))
	}
}

func (l *LineSource) RenderVisualization(img *image.RGBA) {
	l.samples(func(x, y int) { setIfInside(img, x, y, sourceMarker) })
}

func setIfInside(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}
