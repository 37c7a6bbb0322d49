package wave

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/san-kum/wavesim/internal/compute"
	"github.com/san-kum/wavesim/internal/grid"
)

// DefaultDt is the fixed time step. Units are chosen so a wave travels one
// cell per step at c = 1.
const DefaultDt = 1.0

type Simulator struct {
	shape grid.Shape

	u     *grid.Plane // field
	uPrev *grid.Plane // field one step earlier
	c     *grid.Plane // wave speed
	d     *grid.Plane // dampening
	lap   *grid.Plane // scratch for the laplacian

	kernel          grid.Kernel
	globalDampening float64
	t, dt           float64
	frames          int

	backend compute.Backend
	objects []SceneObject
	metrics []Metric
}

type options struct {
	initial         *grid.Plane
	kernel          grid.Kernel
	globalDampening float64
	backend         compute.Backend
}

// Option configures a Simulator at construction.
type Option func(*options)

// WithInitialField seeds both the field and the previous field, so the
// initial state starts at rest. It must match the simulator's shape.
func WithInitialField(p *grid.Plane) Option {
	return func(o *options) { o.initial = p }
}

// WithKernel selects the Laplacian stencil. Trajectories depend on it.
func WithKernel(k grid.Kernel) Option {
	return func(o *options) { o.kernel = k }
}

// WithGlobalDampening scales the velocity term of every cell; 1 disables it.
func WithGlobalDampening(g float64) Option {
	return func(o *options) { o.globalDampening = g }
}

func WithBackend(b compute.Backend) Option {
	return func(o *options) { o.backend = b }
}

// New creates a simulator for a width×height grid with the given scene
// objects, which may be nil.
func New(width, height int, objects []SceneObject, opts ...Option) (*Simulator, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", grid.ErrEmptyGrid, width, height)
	}

	o := options{kernel: grid.LaplacianDefault, globalDampening: 1.0}
	for _, opt := range opts {
		opt(&o)
	}
	if o.globalDampening < 0 || o.globalDampening > 1 {
		return nil, fmt.Errorf("%w: global dampening %v outside [0,1]", ErrInvalidConfig, o.globalDampening)
	}
	if o.backend == nil {
		o.backend = compute.AutoSelectBackend()
	}

	s := &Simulator{
		shape:           grid.Shape{Width: width, Height: height},
		u:               grid.New(width, height),
		uPrev:           grid.New(width, height),
		c:               grid.Filled(width, height, 1.0),
		d:               grid.Filled(width, height, 1.0),
		lap:             grid.New(width, height),
		kernel:          o.kernel,
		globalDampening: o.globalDampening,
		dt:              DefaultDt,
		backend:         o.backend,
		objects:         objects,
		metrics:         make([]Metric, 0),
	}

	if o.initial != nil {
		if err := s.u.CopyFrom(o.initial); err != nil {
			return nil, fmt.Errorf("initial field: %w", err)
		}
		_ = s.uPrev.CopyFrom(o.initial)
	}

	return s, nil
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// SceneObjects returns the current scene object list.
func (s *Simulator) SceneObjects() []SceneObject { return s.objects }

// SetSceneObjects replaces the scene object list. It takes effect on the
// next UpdateScene.
func (s *Simulator) SetSceneObjects(objects []SceneObject) { s.objects = objects }

// ResetTime sets the clock back to zero without touching the field.
func (s *Simulator) ResetTime() { s.t = 0 }

func (s *Simulator) Time() float64                { return s.t }
func (s *Simulator) Dt() float64                  { return s.dt }
func (s *Simulator) Frames() int                  { return s.frames }
func (s *Simulator) Shape() grid.Shape            { return s.shape }
func (s *Simulator) Kernel() grid.Kernel          { return s.kernel }
func (s *Simulator) Backend() compute.Backend     { return s.backend }
func (s *Simulator) GlobalDampening() float64     { return s.globalDampening }
func (s *Simulator) SetGlobalDampening(g float64) { s.globalDampening = grid.Clamp(g, 0, 1) }

// Field returns the live field plane. Callers must treat it as read-only;
// clone it to keep a snapshot.
func (s *Simulator) Field() *grid.Plane { return s.u }

// PreviousField returns the field one step earlier.
func (s *Simulator) PreviousField() *grid.Plane { return s.uPrev }

func (s *Simulator) WaveSpeed() *grid.Plane { return s.c }
func (s *Simulator) Dampening() *grid.Plane { return s.d }

// UpdateScene composes the scene for the next step: wave speed and
// dampening are reset to 1.0, then every object renders, then every object
// updates the field. The first failing object aborts the frame.
func (s *Simulator) UpdateScene() error {
	s.c.Fill(1.0)
	s.d.Fill(1.0)

	for i, obj := range s.objects {
		if err := obj.Render(s.u, s.c, s.d); err != nil {
			return &SceneError{Index: i, Phase: "render", Time: s.t, Wrapped: err}
		}
	}

	for i, obj := range s.objects {
		if err := obj.UpdateField(s.u, s.t); err != nil {
			return &SceneError{Index: i, Phase: "update field", Time: s.t, Wrapped: err}
		}
	}

	return nil
}

// UpdateField advances the field by one time step:
//
//	v     = (u - u_prev) * d * globalDampening
//	u_new = u + v + laplacian(u) * (c*dt)^2
func (s *Simulator) UpdateField() error {
	if err := s.backend.Laplacian(s.lap, s.u, s.kernel); err != nil {
		return err
	}

	err := s.backend.Leapfrog(compute.Step{
		Field:           s.u,
		Prev:            s.uPrev,
		Laplacian:       s.lap,
		WaveSpeed:       s.c,
		Dampening:       s.d,
		GlobalDampening: s.globalDampening,
		Dt:              s.dt,
	})
	if err != nil {
		return err
	}

	s.t += s.dt
	s.frames++

	for _, m := range s.metrics {
		m.Observe(s)
	}
	return nil
}

// Step runs UpdateScene followed by UpdateField.
func (s *Simulator) Step() error {
	if err := s.UpdateScene(); err != nil {
		return err
	}
	return s.UpdateField()
}

// Run advances the simulation by steps frames. Every `every` frames (and
// after the last one) callback is invoked; returning false stops the run.
// Cancellation is checked between frames only.
func (s *Simulator) Run(ctx context.Context, steps, every int, callback func(*Simulator) bool) error {
	if every <= 0 {
		every = 1
	}
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.Step(); err != nil {
			return fmt.Errorf("frame %d: %w", s.frames, err)
		}

		if callback != nil && ((i+1)%every == 0 || i == steps-1) {
			if !callback(s) {
				return nil
			}
		}
	}
	return nil
}

// CheckStable reports ErrUnstable once the field holds NaN or Inf.
func (s *Simulator) CheckStable() error {
	if !s.u.IsValid() {
		return fmt.Errorf("%w at t=%.1f", ErrUnstable, s.t)
	}
	return nil
}

// Metrics returns the current value of every registered metric.
func (s *Simulator) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// RenderVisualization lets every scene object that implements Visualizer
// draw its overlay into img. A black image of the grid's size is allocated
// when img is nil.
func (s *Simulator) RenderVisualization(img *image.RGBA) *image.RGBA {
	if img == nil {
		img = image.NewRGBA(image.Rect(0, 0, s.shape.Width, s.shape.Height))
		draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	}
	for _, obj := range s.objects {
		if v, ok := obj.(Visualizer); ok {
			v.RenderVisualization(img)
		}
	}
	return img
}
