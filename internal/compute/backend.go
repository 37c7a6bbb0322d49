package compute

import (
	"fmt"
	"strings"

	"github.com/san-kum/wavesim/internal/grid"
)

// Step carries the planes and scalars of one leapfrog update.
type Step struct {
	Field     *grid.Plane // u, overwritten with the new field
	Prev      *grid.Plane // u_prev, overwritten with the old u
	Laplacian *grid.Plane
	WaveSpeed *grid.Plane
	Dampening *grid.Plane

	GlobalDampening float64
	Dt              float64
}

func (s Step) check() error {
	return grid.CheckShape(s.Field.Shape(), s.Prev, s.Laplacian, s.WaveSpeed, s.Dampening)
}

type Backend interface {
	Name() string
	Available() bool
	// Laplacian convolves src with k into dst, zero outside the grid.
	Laplacian(dst, src *grid.Plane, k grid.Kernel) error
	// Leapfrog applies u_new = u + (u-u_prev)*d*g + lap*(c*dt)^2 and
	// shifts the history.
	Leapfrog(s Step) error
	Cleanup()
}

// Names lists the backend names accepted by Select.
func Names() []string { return []string{"auto", "cpu", "serial", "gpu"} }

// Select returns the backend with the given name. "auto" and "" pick the
// best available one.
func Select(name string) (Backend, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return AutoSelectBackend(), nil
	case "cpu":
		return NewCPUBackend(), nil
	case "serial":
		return NewSerialBackend(), nil
	case "gpu", "cuda":
		gpu := NewGPUBackend()
		if !gpu.Available() {
			return nil, fmt.Errorf("compute: backend %q: %w", name, grid.ErrNotImplemented)
		}
		return gpu, nil
	}
	return nil, fmt.Errorf("compute: unknown backend %q (available: %s)", name, strings.Join(Names(), ", "))
}

func AutoSelectBackend() Backend {
	gpu := NewGPUBackend()
	if gpu.Available() {
		return gpu
	}
	return NewCPUBackend()
}

// leapfrogRange applies the update to cells [start, end).
func leapfrogRange(s Step, start, end int) {
	u, up, lap := s.Field.Data, s.Prev.Data, s.Laplacian.Data
	c, d := s.WaveSpeed.Data, s.Dampening.Data
	for i := start; i < end; i++ {
		cdt := c[i] * s.Dt
		v := (u[i] - up[i]) * d[i] * s.GlobalDampening
		next := u[i] + v + lap[i]*cdt*cdt
		up[i] = u[i]
		u[i] = next
	}
}
