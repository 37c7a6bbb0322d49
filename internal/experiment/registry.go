package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/modulator"
	"github.com/san-kum/wavesim/internal/scene"
	"github.com/san-kum/wavesim/internal/wave"
)

var ErrUnknownKind = errors.New("experiment: unknown kind")

// BuildContext carries what a builder may need beyond its own object config.
type BuildContext struct {
	Width, Height int
	Seed          int64
	// Index is the position of the object in the scene list.
	Index int
}

// ObjectBuilder turns one configured object into a scene object.
type ObjectBuilder func(o config.ObjectConfig, ctx BuildContext) (wave.SceneObject, error)

// ModulatorBuilder turns a modulator config into a modulator.
type ModulatorBuilder func(m *config.ModulatorConfig, seed int64) (modulator.Modulator, error)

type Registry struct {
	objects    map[string]ObjectBuilder
	modulators map[string]ModulatorBuilder
}

func NewRegistry() *Registry {
	r := &Registry{
		objects:    make(map[string]ObjectBuilder),
		modulators: make(map[string]ModulatorBuilder),
	}

	r.objects["border"] = buildBorder
	r.objects["refractive"] = buildUniform
	r.objects["strain"] = buildStrain
	r.objects["polygon"] = buildPolygon
	r.objects["box"] = buildBox
	r.objects["image"] = buildImage
	r.objects["charge"] = func(o config.ObjectConfig, _ BuildContext) (wave.SceneObject, error) {
		return scene.NewCharge(o.Param("x", 0), o.Param("y", 0), o.Param("frequency", 0.1), o.Param("amplitude", 1)), nil
	}
	r.objects["point"] = func(o config.ObjectConfig, ctx BuildContext) (wave.SceneObject, error) {
		opts, err := r.sourceOptions(o, ctx)
		if err != nil {
			return nil, err
		}
		x, y := int(o.Param("x", 0)), int(o.Param("y", 0))
		return scene.NewPointSource(x, y, o.Param("frequency", 0.1), o.Param("amplitude", 1), opts...), nil
	}
	r.objects["line"] = func(o config.ObjectConfig, ctx BuildContext) (wave.SceneObject, error) {
		if len(o.Points) != 2 {
			return nil, fmt.Errorf("line source needs 2 points, got %d", len(o.Points))
		}
		opts, err := r.sourceOptions(o, ctx)
		if err != nil {
			return nil, err
		}
		start := scene.Point{X: o.Points[0][0], Y: o.Points[0][1]}
		end := scene.Point{X: o.Points[1][0], Y: o.Points[1][1]}
		return scene.NewLineSource(start, end, o.Param("frequency", 0.1), o.Param("amplitude", 1), opts...), nil
	}

	r.modulators["smooth_square"] = func(m *config.ModulatorConfig, _ int64) (modulator.Modulator, error) {
		return modulator.NewSmoothSquare(m.Frequency, m.Phase, m.Smoothness), nil
	}
	r.modulators["discrete"] = func(m *config.ModulatorConfig, _ int64) (modulator.Modulator, error) {
		if len(m.Levels) == 0 {
			return nil, fmt.Errorf("discrete modulator needs levels")
		}
		return modulator.NewDiscreteSignal(m.Levels, m.TimeFactor, modulator.DefaultTransitionSlope), nil
	}
	r.modulators["random"] = func(m *config.ModulatorConfig, seed int64) (modulator.Modulator, error) {
		n := m.Count
		if n <= 0 {
			n = 16
		}
		return modulator.RandomBinary(n, seed, m.TimeFactor), nil
	}

	return r
}

// Register adds or replaces the builder for kind.
func (r *Registry) Register(kind string, b ObjectBuilder) { r.objects[kind] = b }

func (r *Registry) Build(o config.ObjectConfig, ctx BuildContext) (wave.SceneObject, error) {
	fn, ok := r.objects[o.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: object %q", ErrUnknownKind, o.Kind)
	}
	return fn(o, ctx)
}

// BuildScene builds every object of cfg in order.
func (r *Registry) BuildScene(cfg *config.Config) ([]wave.SceneObject, error) {
	objects := make([]wave.SceneObject, 0, len(cfg.Objects))
	for i, o := range cfg.Objects {
		ctx := BuildContext{Width: cfg.Width, Height: cfg.Height, Seed: cfg.Seed + int64(i), Index: i}
		obj, err := r.Build(o, ctx)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, o.Kind, err)
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func (r *Registry) Modulator(m *config.ModulatorConfig, seed int64) (modulator.Modulator, error) {
	fn, ok := r.modulators[m.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: modulator %q", ErrUnknownKind, m.Kind)
	}
	return fn(m, seed)
}

func (r *Registry) ListKinds() []string {
	names := make([]string, 0, len(r.objects))
	for name := range r.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) sourceOptions(o config.ObjectConfig, ctx BuildContext) ([]scene.SourceOption, error) {
	var opts []scene.SourceOption
	if phase := o.Param("phase", 0); phase != 0 {
		opts = append(opts, scene.WithPhase(phase))
	}
	if opacity := o.Param("opacity", 0); opacity > 0 {
		opts = append(opts, scene.WithEmission(scene.BlendEmission(opacity)))
	}
	if o.Modulator != nil {
		m, err := r.Modulator(o.Modulator, ctx.Seed)
		if err != nil {
			return nil, err
		}
		opts = append(opts, scene.WithModulator(m))
	}
	return opts, nil
}

func buildBorder(o config.ObjectConfig, ctx BuildContext) (wave.SceneObject, error) {
	border := int(o.Param("border", 32))
	if border < 0 {
		return nil, fmt.Errorf("border %d must not be negative", border)
	}
	return scene.NewBorderDampening(ctx.Width, ctx.Height, border), nil
}

func buildUniform(o config.ObjectConfig, ctx BuildContext) (wave.SceneObject, error) {
	return scene.NewUniformRefractiveIndex(ctx.Width, ctx.Height, o.Param("n", 1)), nil
}

func buildStrain(o config.ObjectConfig, _ BuildContext) (wave.SceneObject, error) {
	var opts []scene.StrainOption
	if o.Param("gradient", 0) != 0 {
		opts = append(opts, scene.WithGradientStrain())
	}
	return scene.NewStrainRefractiveIndex(o.Param("offset", 1), o.Param("coupling", 1), opts...), nil
}

func buildPolygon(o config.ObjectConfig, _ BuildContext) (wave.SceneObject, error) {
	if len(o.Points) < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 points, got %d", len(o.Points))
	}
	vertices := make([]scene.Point, len(o.Points))
	for i, p := range o.Points {
		vertices[i] = scene.Point{X: p[0], Y: p[1]}
	}
	return scene.NewPolygonRefractiveIndex(vertices, o.Param("n", 1)), nil
}

func buildBox(o config.ObjectConfig, _ BuildContext) (wave.SceneObject, error) {
	center := scene.Point{X: o.Param("cx", 0), Y: o.Param("cy", 0)}
	w, h := o.Param("w", 0), o.Param("h", 0)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("box size %vx%v must be positive", w, h)
	}
	return scene.NewBoxRefractiveIndex(center, w, h, o.Param("angle", 0), o.Param("n", 1)), nil
}

func buildImage(o config.ObjectConfig, ctx BuildContext) (wave.SceneObject, error) {
	img, err := scene.LoadImage(o.Path)
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() != ctx.Width || b.Dy() != ctx.Height {
		return nil, fmt.Errorf("image %s is %dx%d, grid is %dx%d", o.Path, b.Dx(), b.Dy(), ctx.Width, ctx.Height)
	}
	opts := scene.DefaultImageOptions()
	opts.SourceAmplitude = o.Param("amplitude", opts.SourceAmplitude)
	opts.FrequencyScale = o.Param("frequency_scale", opts.FrequencyScale)
	opts.SourceOpacity = o.Param("opacity", opts.SourceOpacity)
	opts.Border = int(o.Param("border", float64(opts.Border)))
	return scene.NewImageScene(img, opts), nil
}
