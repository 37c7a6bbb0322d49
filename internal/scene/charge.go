package scene

import (
	"image"
	"image/color"
	"math"

	"github.com/san-kum/wavesim/internal/grid"
)

var chargeMarker = color.RGBA{R: 255, G: 80, B: 80, A: 255}

// Charge is a Gaussian disturbance that oscillates around (X, Y) and is
// added to the field every frame. Unlike the sources it never overwrites,
// so overlapping charges accumulate. It fades in over the first 5π steps.
type Charge struct {
	X, Y      float64
	Frequency float64
	Amplitude float64 // vertical excursion in cells
	Sweep     float64 // horizontal excursion in cells
	Strength  float64

	kernel *grid.Plane
}

// NewCharge uses an 11×11 Gaussian footprint with sigma size/3.
func NewCharge(x, y, frequency, amplitude float64) *Charge {
	return &Charge{
		X: x, Y: y,
		Frequency: frequency,
		Amplitude: amplitude,
		Sweep:     200,
		Strength:  0.25,
		kernel:    gaussianKernel(11, 11.0/3.0),
	}
}

// gaussianKernel returns a normalized size×size Gaussian.
func gaussianKernel(size int, sigma float64) *grid.Plane {
	ax := make([]float64, size)
	for i := range ax {
		x := -float64(size-1)/2 + float64(i)
		ax[i] = math.Exp(-0.5 * x * x / (sigma * sigma))
	}
	k := grid.New(size, size)
	sum := 0.0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := ax[x] * ax[y]
			k.Set(x, y, v)
			sum += v
		}
	}
	for i := range k.Data {
		k.Data[i] /= sum
	}
	return k
}

// Position returns the cell the charge is centred on at time t.
func (c *Charge) Position(t float64) (int, int) {
	x := c.X + math.Sin(c.Frequency*t*0.05)*c.Sweep
	y := c.Y + math.Sin(c.Frequency*t)*c.Amplitude
	return int(x), int(y)
}

func (c *Charge) Render(field, waveSpeed, dampening *grid.Plane) error {
	return grid.CheckShape(field.Shape(), waveSpeed, dampening)
}

func (c *Charge) UpdateField(field *grid.Plane, t float64) error {
	fade := math.Sin(math.Min(t*0.1, math.Pi/2))
	cx, cy := c.Position(t)
	hw, hh := c.kernel.Width/2, c.kernel.Height/2
	for ky := 0; ky < c.kernel.Height; ky++ {
		for kx := 0; kx < c.kernel.Width; kx++ {
			x, y := cx-hw+kx, cy-hh+ky
			if !field.InBounds(x, y) {
				continue
			}
			field.Data[field.Index(x, y)] += c.kernel.At(kx, ky) * fade * c.Strength
		}
	}
	return nil
}

func (c *Charge) RenderVisualization(img *image.RGBA) {
	cx, cy := int(c.X), int(c.Y)
	for d := -3; d <= 3; d++ {
		setIfInside(img, cx+d, cy+d, chargeMarker)
		setIfInside(img, cx+d, cy-d, chargeMarker)
	}
}
