package scene

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"

	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/wave"
)

// ImageOptions tunes how an RGB scene image is interpreted.
type ImageOptions struct {
	SourceAmplitude float64
	FrequencyScale  float64
	// SourceOpacity is the blend opacity of source pixels; 0 overwrites.
	SourceOpacity float64
	Border        int
}

func DefaultImageOptions() ImageOptions {
	return ImageOptions{
		SourceAmplitude: 1.0,
		FrequencyScale:  1.0,
		SourceOpacity:   0.9,
		Border:          48,
	}
}

// ImageScene is a complete scene authored as an 8-bit RGB image:
//
//   - red: refractive index × 100 (150 means n = 1.5)
//   - green: any non-zero value marks a source cell; the value sets its
//     frequency as green/255 * 0.5 * FrequencyScale. Do not anti-alias
//     this channel.
//   - blue: absorption; 0 is none, 255 damps the velocity term fully
//
// It behaves like a StaticDampening, a StaticRefractiveIndex and one
// blended PointSource per green pixel, in that order.
type ImageScene struct {
	dampening  *StaticDampening
	refractive *StaticRefractiveIndex
	sources    []*PointSource
}

func NewImageScene(img image.Image, opts ImageOptions) *ImageScene {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	n := grid.New(w, h)
	d := grid.New(w, h)
	s := &ImageScene{}

	emission := BlendEmission(opts.SourceOpacity)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			r8, g8, b8 := r>>8, g>>8, bl>>8
			n.Set(x, y, float64(r8)/100)
			d.Set(x, y, 1.0-float64(b8)/255)
			if g8 > 0 {
				freq := float64(g8) / 255 * 0.5 * opts.FrequencyScale
				s.sources = append(s.sources, NewPointSource(x, y, freq, opts.SourceAmplitude, WithEmission(emission)))
			}
		}
	}

	s.dampening = NewStaticDampening(d, opts.Border)
	s.refractive = NewStaticRefractiveIndex(n)
	return s
}

// Objects returns the equivalent scene object list.
func (s *ImageScene) Objects() []wave.SceneObject {
	objs := []wave.SceneObject{s.dampening, s.refractive}
	for _, src := range s.sources {
		objs = append(objs, src)
	}
	return objs
}

// Sources returns the point sources found in the green channel.
func (s *ImageScene) Sources() []*PointSource { return s.sources }

func (s *ImageScene) Render(field, waveSpeed, dampening *grid.Plane) error {
	if err := grid.CheckShape(field.Shape(), waveSpeed, dampening); err != nil {
		return err
	}
	if err := s.dampening.Render(field, waveSpeed, dampening); err != nil {
		return err
	}
	return s.refractive.Render(field, waveSpeed, dampening)
}

func (s *ImageScene) UpdateField(field *grid.Plane, t float64) error {
	for _, src := range s.sources {
		if err := src.UpdateField(field, t); err != nil {
			return err
		}
	}
	return nil
}

// LoadImage decodes a PNG, GIF or BMP scene image. Vector and JSON scene
// formats are recognised but not supported yet.
func LoadImage(path string) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".svg":
		return nil, fmt.Errorf("scene: load %s: %w", path, grid.ErrNotImplemented)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("scene: decode %s: %w", path, err)
	}
	return img, nil
}
