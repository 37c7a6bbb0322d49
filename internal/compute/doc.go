// Package compute provides the numeric kernels behind a simulation step.
//
// A [Backend] evaluates the two bulk operations of a frame: the discrete
// Laplacian of the field and the damped leapfrog update. Backends must
// produce the same values as a serial evaluation; parallel backends only
// split the grid into disjoint row ranges.
//
//   - cpu: row chunks spread over runtime.NumCPU() goroutines
//   - serial: single goroutine, useful for profiling and benchmarks
//   - gpu: recognised but not implemented; selecting it fails
//
// Select a backend by name:
//
//	b, err := compute.Select("cpu")
package compute
