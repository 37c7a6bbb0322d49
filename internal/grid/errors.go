package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch indicates planes whose dimensions disagree.
	ErrShapeMismatch = errors.New("grid: plane shape mismatch")

	// ErrEmptyGrid indicates a plane with zero width or height.
	ErrEmptyGrid = errors.New("grid: width and height must be positive")

	// ErrNotImplemented marks features that are recognised but not built.
	// Returned instead of silently doing nothing.
	ErrNotImplemented = errors.New("not implemented")
)

// CheckShape returns an error wrapping ErrShapeMismatch if any plane does not
// have the wanted shape.
func CheckShape(want Shape, planes ...*Plane) error {
	for i, p := range planes {
		if p == nil {
			return fmt.Errorf("%w: plane %d is nil, want %s", ErrShapeMismatch, i, want)
		}
		if got := p.Shape(); got != want {
			return fmt.Errorf("%w: plane %d is %s, want %s", ErrShapeMismatch, i, got, want)
		}
	}
	return nil
}
