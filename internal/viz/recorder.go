package viz

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"os"
)

var ErrNoFrames = errors.New("viz: no frames recorded")

// Recorder collects rendered frames into an animated GIF. Frames are
// quantized against a fixed palette, usually the field colormap's, so
// the animation shows the same colors as single snapshots.
type Recorder struct {
	palette   color.Palette
	delay     int // hundredths of a second
	maxFrames int
	frames    []*image.Paletted
}

// NewRecorder keeps at most maxFrames frames (0 means unbounded) and shows
// each for delay hundredths of a second.
func NewRecorder(palette color.Palette, delay, maxFrames int) *Recorder {
	if len(palette) > 256 {
		palette = palette[:256]
	}
	return &Recorder{palette: palette, delay: delay, maxFrames: maxFrames}
}

// Add copies img into the recording.
func (r *Recorder) Add(img image.Image) {
	if r.maxFrames > 0 && len(r.frames) >= r.maxFrames {
		return
	}
	p := image.NewPaletted(img.Bounds(), r.palette)
	draw.Draw(p, p.Bounds(), img, img.Bounds().Min, draw.Src)
	r.frames = append(r.frames, p)
}

func (r *Recorder) Len() int { return len(r.frames) }

func (r *Recorder) Reset() { r.frames = r.frames[:0] }

func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}
	return gif.EncodeAll(w, &anim)
}

// Save writes the animation to path.
func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// SavePNG writes a single frame.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
