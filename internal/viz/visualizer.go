package viz

import (
	"image"

	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/wave"
)

// DefaultIntensityRate is the weight of the newest frame in the running
// intensity average.
const DefaultIntensityRate = 0.01

// Visualizer maps simulator planes to images. Besides the instantaneous
// field it keeps a smoothed intensity I ← I*(1-a) + u²*a, which shows
// standing wave patterns and interference fringes.
type Visualizer struct {
	FieldColormap     *Colormap
	IntensityColormap *Colormap
	IntensityRate     float64

	intensity *grid.Plane
}

func NewVisualizer(field, intensity *Colormap) *Visualizer {
	return &Visualizer{
		FieldColormap:     field,
		IntensityColormap: intensity,
		IntensityRate:     DefaultIntensityRate,
	}
}

// Update folds the current field into the intensity average.
func (v *Visualizer) Update(s *wave.Simulator) {
	u := s.Field()
	if v.intensity == nil || v.intensity.Shape() != u.Shape() {
		v.intensity = grid.New(u.Width, u.Height)
	}
	a := v.IntensityRate
	for i, x := range u.Data {
		v.intensity.Data[i] = v.intensity.Data[i]*(1-a) + x*x*a
	}
}

// Intensity returns the smoothed intensity, or nil before the first Update.
func (v *Visualizer) Intensity() *grid.Plane { return v.intensity }

// Reset drops the intensity history.
func (v *Visualizer) Reset() { v.intensity = nil }

// RenderField maps u*brightness from [-1,1] onto the field colormap.
func (v *Visualizer) RenderField(u *grid.Plane, brightness float64) *image.RGBA {
	return renderPlane(u, v.FieldColormap, func(x float64) float64 {
		return (x*brightness + 1) / 2
	})
}

// RenderIntensity maps intensity*brightness from [0,1] onto the intensity
// colormap. Before the first Update the image is the colormap's zero entry.
func (v *Visualizer) RenderIntensity(shape grid.Shape, brightness float64) *image.RGBA {
	in := v.intensity
	if in == nil || in.Shape() != shape {
		in = grid.New(shape.Width, shape.Height)
	}
	return renderPlane(in, v.IntensityColormap, func(x float64) float64 {
		return x * brightness
	})
}

// RenderFrame renders the field and lets scene objects draw their overlays.
func (v *Visualizer) RenderFrame(s *wave.Simulator, brightness float64) *image.RGBA {
	return s.RenderVisualization(v.RenderField(s.Field(), brightness))
}

func renderPlane(p *grid.Plane, cm *Colormap, norm func(float64) float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		row := p.Row(y)
		off := y * img.Stride
		for x, val := range row {
			c := cm.Map(norm(val))
			img.Pix[off+4*x+0] = c.R
			img.Pix[off+4*x+1] = c.G
			img.Pix[off+4*x+2] = c.B
			img.Pix[off+4*x+3] = c.A
		}
	}
	return img
}
