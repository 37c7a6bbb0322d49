package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrTooShort = errors.New("analysis: trace too short")

// Spectrum is the one-sided magnitude spectrum of a real trace.
type Spectrum struct {
	Frequencies []float64 // angular, rad per unit time
	Magnitude   []float64
}

// NextPow2 returns the smallest power of two >= n.
func NextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Hann returns an n-point symmetric Hann window.
func Hann(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// ComputeSpectrum removes the mean of samples, applies a Hann window,
// zero-pads to a power of two and transforms.
func ComputeSpectrum(samples []float64, dt float64) (*Spectrum, error) {
	if len(samples) < 2 {
		return nil, ErrTooShort
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	n := NextPow2(len(samples))
	window := Hann(len(samples))
	x := make([]float64, n)
	for i, v := range samples {
		x[i] = (v - mean) * window[i]
	}

	coeffs := fft.FFTReal(x)
	half := n/2 + 1
	s := &Spectrum{
		Frequencies: make([]float64, half),
		Magnitude:   make([]float64, half),
	}
	for k := 0; k < half; k++ {
		s.Frequencies[k] = 2 * math.Pi * float64(k) / (float64(n) * dt)
		s.Magnitude[k] = cmplx.Abs(coeffs[k])
	}
	return s, nil
}

// Peak returns the frequency of the largest non-DC bin.
func (s *Spectrum) Peak() float64 {
	best := 1
	for k := 2; k < len(s.Magnitude); k++ {
		if s.Magnitude[k] > s.Magnitude[best] {
			best = k
		}
	}
	if best >= len(s.Frequencies) {
		return 0
	}
	return s.Frequencies[best]
}

// DominantFrequency is ComputeSpectrum followed by Peak.
func DominantFrequency(samples []float64, dt float64) (float64, error) {
	s, err := ComputeSpectrum(samples, dt)
	if err != nil {
		return 0, err
	}
	return s.Peak(), nil
}
