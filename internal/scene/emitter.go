package scene

import (
	"math"

	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/modulator"
)

// EmissionMode selects how an emitter writes into the field.
type EmissionMode int

const (
	// Overwrite replaces the field value with the source value.
	Overwrite EmissionMode = iota
	// Blend mixes: field = field*opacity + value*(1-opacity). A non-zero
	// opacity lets incoming waves pass partly through the source pixel.
	Blend
)

type Emission struct {
	Mode    EmissionMode
	Opacity float64
}

// BlendEmission returns a Blend policy with opacity clamped into [0,1].
func BlendEmission(opacity float64) Emission {
	return Emission{Mode: Blend, Opacity: grid.Clamp(opacity, 0, 1)}
}

func (e Emission) write(field *grid.Plane, idx int, v float64) {
	if e.Mode == Blend {
		field.Data[idx] = field.Data[idx]*e.Opacity + v*(1-e.Opacity)
		return
	}
	field.Data[idx] = v
}

// emitter is the waveform shared by point and line sources.
type emitter struct {
	Frequency float64
	Amplitude float64
	Phase     float64
	Modulator modulator.Modulator
	Emission  Emission
}

// value is sin(phase + frequency*t) scaled by the (modulated) amplitude.
func (e *emitter) value(t float64) float64 {
	amp := e.Amplitude
	if e.Modulator != nil {
		amp *= e.Modulator.Amplitude(t)
	}
	return math.Sin(e.Phase+e.Frequency*t) * amp
}

// SourceOption configures a point or line source.
type SourceOption func(*emitter)

func WithPhase(phase float64) SourceOption {
	return func(e *emitter) { e.Phase = phase }
}

func WithModulator(m modulator.Modulator) SourceOption {
	return func(e *emitter) { e.Modulator = m }
}

func WithEmission(em Emission) SourceOption {
	return func(e *emitter) { e.Emission = em }
}

func newEmitter(frequency, amplitude float64, opts []SourceOption) emitter {
	e := emitter{Frequency: frequency, Amplitude: amplitude}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}
