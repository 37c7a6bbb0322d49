package metrics

import (
	"fmt"

	"github.com/san-kum/wavesim/internal/wave"
)

// Probe records the field value at one cell after every frame. A probe
// outside the grid records zeros.
type Probe struct {
	name    string
	X, Y    int
	times   []float64
	samples []float64
}

func NewProbe(name string, x, y int) *Probe {
	if name == "" {
		name = fmt.Sprintf("probe(%d,%d)", x, y)
	}
	return &Probe{name: name, X: x, Y: y}
}

func (p *Probe) Name() string { return p.name }

func (p *Probe) Observe(s *wave.Simulator) {
	var v float64
	if u := s.Field(); u.InBounds(p.X, p.Y) {
		v = u.At(p.X, p.Y)
	}
	p.times = append(p.times, s.Time())
	p.samples = append(p.samples, v)
}

// Value returns the latest sample.
func (p *Probe) Value() float64 {
	if len(p.samples) == 0 {
		return 0
	}
	return p.samples[len(p.samples)-1]
}

// Samples returns the recorded trace. Do not modify it.
func (p *Probe) Samples() []float64 { return p.samples }

// Times returns the simulation time of each sample.
func (p *Probe) Times() []float64 { return p.times }

func (p *Probe) Reset() {
	p.times = p.times[:0]
	p.samples = p.samples[:0]
}
