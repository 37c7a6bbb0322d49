package scene

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/san-kum/wavesim/internal/grid"
)

var regionTint = color.RGBA{R: 60, G: 140, B: 255, A: 255}

// PolygonRefractiveIndex is a region layer: it blends
// c = c*(1-m) + m/clip(n, 0.9, 10) into the wave speed plane, where m is the
// anti-aliased coverage of the polygon at each cell. The clip applies here
// as in every refractive layer, so an index of 100 acts like 10 (c = 0.1).
// Cells outside the polygon keep the value left by earlier layers.
//
// Cell (x, y) covers the unit square [x, x+1)×[y, y+1).
type PolygonRefractiveIndex struct {
	Vertices        []Point
	RefractiveIndex float64

	mask *coverageMask
}

// coverageMask is the rasterized polygon clipped to one grid shape.
type coverageMask struct {
	shape  grid.Shape
	bounds image.Rectangle // in grid cells
	alpha  []float64       // row-major over bounds
}

func NewPolygonRefractiveIndex(vertices []Point, n float64) *PolygonRefractiveIndex {
	v := make([]Point, len(vertices))
	copy(v, vertices)
	return &PolygonRefractiveIndex{Vertices: v, RefractiveIndex: n}
}

// coverage returns the mask for shape, rebuilding it when the shape changed.
func (p *PolygonRefractiveIndex) coverage(shape grid.Shape) *coverageMask {
	if p.mask != nil && p.mask.shape == shape {
		return p.mask
	}
	p.mask = rasterize(p.Vertices, shape)
	return p.mask
}

func rasterize(vertices []Point, shape grid.Shape) *coverageMask {
	m := &coverageMask{shape: shape}
	if len(vertices) < 3 {
		return m
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range vertices {
		minX, maxX = math.Min(minX, v.X), math.Max(maxX, v.X)
		minY, maxY = math.Min(minY, v.Y), math.Max(maxY, v.Y)
	}
	b := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	b = b.Intersect(image.Rect(0, 0, shape.Width, shape.Height))
	if b.Empty() {
		return m
	}
	m.bounds = b

	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.DrawOp = draw.Src
	ox, oy := float64(b.Min.X), float64(b.Min.Y)
	r.MoveTo(float32(vertices[0].X-ox), float32(vertices[0].Y-oy))
	for _, v := range vertices[1:] {
		r.LineTo(float32(v.X-ox), float32(v.Y-oy))
	}
	r.ClosePath()

	dst := image.NewAlpha(image.Rect(0, 0, b.Dx(), b.Dy()))
	r.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	m.alpha = make([]float64, b.Dx()*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			m.alpha[y*b.Dx()+x] = float64(dst.Pix[y*dst.Stride+x]) / 255.0
		}
	}
	return m
}

// Coverage returns the mask value of cell (x, y) for the given grid shape.
func (p *PolygonRefractiveIndex) Coverage(shape grid.Shape, x, y int) float64 {
	m := p.coverage(shape)
	if !(image.Point{X: x, Y: y}).In(m.bounds) {
		return 0
	}
	return m.alpha[(y-m.bounds.Min.Y)*m.bounds.Dx()+(x-m.bounds.Min.X)]
}

func (p *PolygonRefractiveIndex) Render(field, waveSpeed, dampening *grid.Plane) error {
	if err := grid.CheckShape(field.Shape(), waveSpeed, dampening); err != nil {
		return err
	}
	m := p.coverage(waveSpeed.Shape())
	speed := WaveSpeed(p.RefractiveIndex)
	bw := m.bounds.Dx()
	for y := m.bounds.Min.Y; y < m.bounds.Max.Y; y++ {
		row := waveSpeed.Row(y)
		for x := m.bounds.Min.X; x < m.bounds.Max.X; x++ {
			a := m.alpha[(y-m.bounds.Min.Y)*bw+(x-m.bounds.Min.X)]
			if a == 0 {
				continue
			}
			row[x] = row[x]*(1-a) + a*speed
		}
	}
	return nil
}

func (p *PolygonRefractiveIndex) UpdateField(field *grid.Plane, t float64) error { return nil }

// RenderVisualization tints covered cells in proportion to their coverage.
func (p *PolygonRefractiveIndex) RenderVisualization(img *image.RGBA) {
	b := img.Bounds()
	m := p.coverage(grid.Shape{Width: b.Dx(), Height: b.Dy()})
	bw := m.bounds.Dx()
	for y := m.bounds.Min.Y; y < m.bounds.Max.Y; y++ {
		for x := m.bounds.Min.X; x < m.bounds.Max.X; x++ {
			a := m.alpha[(y-m.bounds.Min.Y)*bw+(x-m.bounds.Min.X)] * 0.35
			if a == 0 {
				continue
			}
			c := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			img.SetRGBA(b.Min.X+x, b.Min.Y+y, color.RGBA{
				R: mix(c.R, regionTint.R, a),
				G: mix(c.G, regionTint.G, a),
				B: mix(c.B, regionTint.B, a),
				A: 255,
			})
		}
	}
}

func mix(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a)*(1-f) + float64(b)*f))
}

// BoxRefractiveIndex is a rotated rectangle region, blended like a polygon.
type BoxRefractiveIndex struct {
	*PolygonRefractiveIndex
	Center Point
	Width  float64
	Height float64
	Angle  float64 // radians, counter-clockwise
}

func NewBoxRefractiveIndex(center Point, width, height, angle, n float64) *BoxRefractiveIndex {
	sin, cos := math.Sincos(angle)
	hw, hh := width/2, height/2
	corners := [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	vertices := make([]Point, 0, 4)
	for _, c := range corners {
		vertices = append(vertices, Point{
			X: center.X + c[0]*cos - c[1]*sin,
			Y: center.Y + c[0]*sin + c[1]*cos,
		})
	}
	return &BoxRefractiveIndex{
		PolygonRefractiveIndex: NewPolygonRefractiveIndex(vertices, n),
		Center:                 center,
		Width:                  width,
		Height:                 height,
		Angle:                  angle,
	}
}
