package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/wave"
)

// SimulationFactory builds a fresh simulator for one run. Options passed
// in must be forwarded to wave.New.
type SimulationFactory func(opts ...wave.Option) (*wave.Simulator, error)

// SensitivityExponent estimates how fast a small disturbance grows. Two
// runs are built from the same factory; the second starts with a bump of
// size perturbation at the grid centre. The result is the mean of
// ln(|u_b - u_a| / perturbation) per unit time over steps frames.
//
// Linear scenes give a value <= 0. Media that depend on the field, such as
// strain-coupled refraction, can make it positive.
func SensitivityExponent(build SimulationFactory, perturbation float64, steps int) (float64, error) {
	if perturbation <= 0 || steps <= 0 {
		return 0, nil
	}

	a, err := build()
	if err != nil {
		return 0, err
	}
	shape := a.Shape()
	bump := a.Field().Clone()
	cx, cy := shape.Width/2, shape.Height/2
	bump.Set(cx, cy, bump.At(cx, cy)+perturbation)

	b, err := build(wave.WithInitialField(bump))
	if err != nil {
		return 0, err
	}

	sumLog := 0.0
	count := 0
	for i := 0; i < steps; i++ {
		if err := a.Step(); err != nil {
			return 0, fmt.Errorf("reference run: %w", err)
		}
		if err := b.Step(); err != nil {
			return 0, fmt.Errorf("perturbed run: %w", err)
		}

		sep := separation(a.Field(), b.Field())
		if sep > 0 && !math.IsInf(sep, 0) {
			sumLog += math.Log(sep / perturbation)
			count++
		}
	}

	if count == 0 {
		return 0, nil
	}
	return sumLog / (float64(count) * a.Dt()), nil
}

func separation(a, b *grid.Plane) float64 {
	sep := 0.0
	for i := range a.Data {
		diff := b.Data[i] - a.Data[i]
		sep += diff * diff
	}
	return math.Sqrt(sep)
}
