// Package modulator provides amplitude envelopes for emitters.
//
// Modulators are a closed set of value types behind the [Modulator]
// interface. They hold only their construction parameters, so one value
// may be shared between emitters.
package modulator

import (
	"math"
	"math/rand"
)

// Modulator maps simulation time to an amplitude factor.
type Modulator interface {
	Amplitude(t float64) float64
}

// SmoothSquare is a square wave in [0,1] with rounded transitions, built
// from an arctangent-sharpened sine. Smaller smoothness gives sharper
// edges.
type SmoothSquare struct {
	Frequency  float64
	Phase      float64
	Smoothness float64
}

// NewSmoothSquare clamps smoothness into [1e-4, 1].
func NewSmoothSquare(frequency, phase, smoothness float64) SmoothSquare {
	return SmoothSquare{
		Frequency:  frequency,
		Phase:      phase,
		Smoothness: math.Min(math.Max(smoothness, 1e-4), 1.0),
	}
}

func (m SmoothSquare) Amplitude(t float64) float64 {
	s := math.Pow(m.Smoothness, 4.0)
	return (0.5/math.Atan(1.0/s))*math.Atan(math.Sin(t*m.Frequency+m.Phase)/s) + 0.5
}

// DefaultTransitionSlope is the default steepness of DiscreteSignal
// transitions.
const DefaultTransitionSlope = 8.0

// DiscreteSignal plays a sequence of levels as a looping signal. Time is
// scaled by TimeFactor, so one level lasts 1/TimeFactor steps. Neighbouring
// levels are joined by a smooth step whose width is set by TransitionSlope.
type DiscreteSignal struct {
	Levels          []float64
	TimeFactor      float64
	TransitionSlope float64
}

func NewDiscreteSignal(levels []float64, timeFactor, transitionSlope float64) DiscreteSignal {
	l := make([]float64, len(levels))
	copy(l, levels)
	return DiscreteSignal{Levels: l, TimeFactor: timeFactor, TransitionSlope: transitionSlope}
}

// RandomBinary builds a DiscreteSignal of n random 0/1 levels. The same
// seed always yields the same signal.
func RandomBinary(n int, seed int64, timeFactor float64) DiscreteSignal {
	r := rand.New(rand.NewSource(seed))
	levels := make([]float64, n)
	for i := range levels {
		levels[i] = float64(r.Intn(2))
	}
	return DiscreteSignal{Levels: levels, TimeFactor: timeFactor, TransitionSlope: DefaultTransitionSlope}
}

func (m DiscreteSignal) Amplitude(t float64) float64 {
	n := len(m.Levels)
	if n == 0 {
		return 0
	}

	p := math.Mod(t*m.TimeFactor, float64(n))
	if p < 0 {
		p += float64(n)
	}
	lo := int(p)
	if lo >= n {
		lo = n - 1
	}
	hi := (lo + 1) % n

	tf := (p-float64(lo)-0.5)*m.TransitionSlope + 0.5
	tf = math.Max(0, math.Min(1, tf))
	l := smoothStep(tf)

	return (1-l)*m.Levels[lo] + l*m.Levels[hi]
}

func smoothStep(x float64) float64 {
	return x * x * (3 - 2*x)
}
