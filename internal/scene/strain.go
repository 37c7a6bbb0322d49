package scene

import (
	"math"

	"github.com/san-kum/wavesim/internal/grid"
)

// StrainRefractiveIndex couples the medium to the field: every frame the
// local strain of the field is measured and the refractive index becomes
// offset + strain*coupling. Render overwrites the entire wave speed plane,
// so this is a base layer.
type StrainRefractiveIndex struct {
	Offset   float64
	Coupling float64

	kernel   grid.Kernel
	gradient bool

	// scratch, reallocated when the grid shape changes
	strain *grid.Plane
	gy     *grid.Plane
}

type StrainOption func(*StrainRefractiveIndex)

// WithStrainKernel replaces the Laplacian-like strain stencil.
func WithStrainKernel(k grid.Kernel) StrainOption {
	return func(s *StrainRefractiveIndex) { s.kernel = k }
}

// WithGradientStrain measures strain as the gradient magnitude of the field
// instead of its Laplacian.
func WithGradientStrain() StrainOption {
	return func(s *StrainRefractiveIndex) { s.gradient = true }
}

func NewStrainRefractiveIndex(offset, coupling float64, opts ...StrainOption) *StrainRefractiveIndex {
	s := &StrainRefractiveIndex{Offset: offset, Coupling: coupling, kernel: grid.LaplacianSoft}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *StrainRefractiveIndex) Render(field, waveSpeed, dampening *grid.Plane) error {
	shape := field.Shape()
	if err := grid.CheckShape(shape, waveSpeed, dampening); err != nil {
		return err
	}
	if s.strain == nil || s.strain.Shape() != shape {
		s.strain = grid.New(shape.Width, shape.Height)
		s.gy = grid.New(shape.Width, shape.Height)
	}

	if s.gradient {
		grid.ConvolveRows(s.strain, field, grid.SobelX, 0, shape.Height)
		grid.ConvolveRows(s.gy, field, grid.SobelY, 0, shape.Height)
		for i, gx := range s.strain.Data {
			s.strain.Data[i] = math.Hypot(gx, s.gy.Data[i])
		}
	} else {
		grid.ConvolveRows(s.strain, field, s.kernel, 0, shape.Height)
	}

	for i, e := range s.strain.Data {
		waveSpeed.Data[i] = WaveSpeed(s.Offset + e*s.Coupling)
	}
	return nil
}

func (s *StrainRefractiveIndex) UpdateField(field *grid.Plane, t float64) error { return nil }
