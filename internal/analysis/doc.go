// Package analysis turns probe traces and repeated simulations into
// numbers and plots.
//
//   - [ComputeSpectrum], [DominantFrequency]: windowed FFT of a probe trace
//   - [SensitivityExponent]: growth rate of a small field perturbation
//   - [Sweep]: parameter sweep recording the values a probe settles into
//   - [NewPhasePortrait], [StroboscopicSection]: (u, du/dt) plots
//
// Frequencies are angular, in radians per unit time, the same unit point
// sources take:
//
//	spec, _ := analysis.ComputeSpectrum(probe.Samples(), sim.Dt())
//	f := spec.Peak() // ≈ source frequency
package analysis
