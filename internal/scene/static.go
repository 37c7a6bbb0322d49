package scene

import (
	"math"

	"github.com/san-kum/wavesim/internal/grid"
)

// Refractive indices are clamped into this range before conversion to wave
// speed. The lower bound keeps c*dt below the explicit scheme's stability
// limit; the upper bound avoids vanishing speeds.
const (
	MinRefractiveIndex = 0.9
	MaxRefractiveIndex = 10.0
)

// WaveSpeed converts a refractive index to a wave speed coefficient.
func WaveSpeed(n float64) float64 {
	return 1.0 / grid.Clamp(n, MinRefractiveIndex, MaxRefractiveIndex)
}

// StaticDampening is a base layer: Render overwrites the entire dampening
// plane. Place it first in the scene list.
type StaticDampening struct {
	d *grid.Plane
}

// NewStaticDampening clips d into [0,1] (1 means no dampening) and then
// overwrites a band of the given thickness along every edge with the ramp
// sqrt(i/border), where i is the distance to the edge. The ramp absorbs
// outgoing waves instead of reflecting them.
func NewStaticDampening(d *grid.Plane, border int) *StaticDampening {
	s := &StaticDampening{d: d.Clip(0, 1)}
	applyBorder(s.d, border)
	return s
}

// NewBorderDampening is a StaticDampening with no interior absorption.
func NewBorderDampening(width, height, border int) *StaticDampening {
	return NewStaticDampening(grid.Filled(width, height, 1.0), border)
}

func applyBorder(p *grid.Plane, border int) {
	w, h := p.Width, p.Height
	for i := 0; i < border; i++ {
		v := math.Sqrt(float64(i) / float64(border))
		top, bottom := i, h-1-i
		for x := i; x < w-i; x++ {
			if top < h {
				p.Set(x, top, v)
			}
			if bottom >= 0 {
				p.Set(x, bottom, v)
			}
		}
		left, right := i, w-1-i
		for y := i; y < h-i; y++ {
			if left < w {
				p.Set(left, y, v)
			}
			if right >= 0 {
				p.Set(right, y, v)
			}
		}
	}
}

// Values returns the dampening plane this layer writes. Do not modify it.
func (s *StaticDampening) Values() *grid.Plane { return s.d }

func (s *StaticDampening) Render(field, waveSpeed, dampening *grid.Plane) error {
	if err := grid.CheckShape(field.Shape(), waveSpeed, dampening); err != nil {
		return err
	}
	return dampening.CopyFrom(s.d)
}

func (s *StaticDampening) UpdateField(field *grid.Plane, t float64) error { return nil }

// StaticRefractiveIndex is a base layer: Render overwrites the entire wave
// speed plane with 1/clip(n, 0.9, 10).
type StaticRefractiveIndex struct {
	c *grid.Plane
}

func NewStaticRefractiveIndex(n *grid.Plane) *StaticRefractiveIndex {
	c := grid.New(n.Width, n.Height)
	for i, v := range n.Data {
		c.Data[i] = WaveSpeed(v)
	}
	return &StaticRefractiveIndex{c: c}
}

// NewUniformRefractiveIndex fills the whole grid with one index.
func NewUniformRefractiveIndex(width, height int, n float64) *StaticRefractiveIndex {
	return NewStaticRefractiveIndex(grid.Filled(width, height, n))
}

// Values returns the wave speed plane this layer writes. Do not modify it.
func (s *StaticRefractiveIndex) Values() *grid.Plane { return s.c }

func (s *StaticRefractiveIndex) Render(field, waveSpeed, dampening *grid.Plane) error {
	if err := grid.CheckShape(field.Shape(), waveSpeed, dampening); err != nil {
		return err
	}
	return waveSpeed.CopyFrom(s.c)
}

func (s *StaticRefractiveIndex) UpdateField(field *grid.Plane, t float64) error { return nil }
