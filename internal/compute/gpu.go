package compute

import (
	"fmt"

	"github.com/san-kum/wavesim/internal/grid"
)

// GPUBackend is a placeholder for a device implementation. No device kernels
// ship with wavesim, so it always reports itself unavailable and every
// operation fails with grid.ErrNotImplemented.
type GPUBackend struct{}

func NewGPUBackend() *GPUBackend {
	return &GPUBackend{}
}

func (g *GPUBackend) Name() string    { return "gpu (not available)" }
func (g *GPUBackend) Available() bool { return false }
func (g *GPUBackend) Cleanup()        {}

func (g *GPUBackend) Laplacian(dst, src *grid.Plane, k grid.Kernel) error {
	return fmt.Errorf("compute: gpu laplacian: %w", grid.ErrNotImplemented)
}

func (g *GPUBackend) Leapfrog(s Step) error {
	return fmt.Errorf("compute: gpu leapfrog: %w", grid.ErrNotImplemented)
}
