package wave

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a simulator option outside its valid range.
	ErrInvalidConfig = errors.New("wave: invalid simulator configuration")

	// ErrUnstable indicates the field diverged to NaN or Inf.
	ErrUnstable = errors.New("wave: field diverged (NaN or Inf detected)")
)

// SceneError wraps a failure raised by one scene object during a frame.
type SceneError struct {
	Index   int
	Phase   string
	Time    float64
	Wrapped error
}

func (e *SceneError) Error() string {
	return fmt.Sprintf("scene object %d: %s at t=%.1f: %v", e.Index, e.Phase, e.Time, e.Wrapped)
}

func (e *SceneError) Unwrap() error {
	return e.Wrapped
}
