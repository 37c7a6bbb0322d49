package wave

import (
	"image"

	"github.com/san-kum/wavesim/internal/grid"
)

// SceneObject is anything that shapes the simulated scene: emitters,
// absorbers, refractive regions.
//
// Render is called once per frame, before any UpdateField, in list order.
// It may read field and must write its contribution into waveSpeed and/or
// dampening. Base layers overwrite the whole plane; localized regions blend
// into what earlier objects left there.
//
// UpdateField is called once per frame after all renders, in list order, and
// writes directly into the live field.
//
// Implementations must not keep references to the planes between calls.
type SceneObject interface {
	Render(field, waveSpeed, dampening *grid.Plane) error
	UpdateField(field *grid.Plane, t float64) error
}

// Visualizer is implemented by scene objects that can draw a debug overlay.
// It never affects simulation state.
type Visualizer interface {
	RenderVisualization(img *image.RGBA)
}

// Metric observes the simulator after each field update.
type Metric interface {
	Name() string
	Observe(s *Simulator)
	Value() float64
	Reset()
}
