package viz

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

var ErrUnknownColormap = errors.New("viz: unknown colormap")

// LUTSize is the number of entries in every colormap.
const LUTSize = 256

// control points, low to high
var colormapStops = map[string][]string{
	"wave1": {"#00ffff", "#0050ff", "#000000", "#ff5000", "#ffff00"},
	"wave4": {"#ff60ff", "#3020a0", "#000000", "#20a030", "#ffff80"},
	"rdbu":  {"#67001f", "#d6604d", "#f7f7f7", "#4393c3", "#053061"},
	"gray":  {"#000000", "#ffffff"},
}

// ColormapOptions adjusts a named map when the lookup table is built.
type ColormapOptions struct {
	Invert bool
	// BlackLevel remaps every channel as (c - b)/(1 - b). Positive values
	// crush dark entries to black, negative values lift them.
	BlackLevel float64
	// Symmetric makes v and 1-v map to the same color, using the upper
	// half of the base map for both.
	Symmetric bool
}

// Colormap is a 256-entry lookup table from normalized scalars to colors.
type Colormap struct {
	Name string
	lut  [LUTSize]color.RGBA
}

// ColormapNames lists the built-in maps.
func ColormapNames() []string {
	names := []string{"afmhot"}
	for name := range colormapStops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func NewColormap(name string, opts ColormapOptions) (*Colormap, error) {
	var base [LUTSize]colorful.Color
	switch stops, ok := colormapStops[name]; {
	case name == "afmhot":
		for i := range base {
			x := float64(i) / (LUTSize - 1)
			base[i] = colorful.Color{R: 2 * x, G: 2*x - 0.5, B: 2*x - 1}.Clamped()
		}
	case ok:
		if err := blendStops(base[:], stops); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownColormap, name)
	}

	cm := &Colormap{Name: name}
	for i := range cm.lut {
		j := i
		if opts.Symmetric {
			j = min(int(LUTSize/2+math.Abs(float64(i)-(LUTSize-1)/2.0)), LUTSize-1)
		}
		if opts.Invert {
			j = LUTSize - 1 - j
		}
		c := base[j]
		if opts.BlackLevel != 0 && opts.BlackLevel < 1 {
			b := opts.BlackLevel
			c = colorful.Color{R: (c.R - b) / (1 - b), G: (c.G - b) / (1 - b), B: (c.B - b) / (1 - b)}.Clamped()
		}
		r, g, bl := c.RGB255()
		cm.lut[i] = color.RGBA{R: r, G: g, B: bl, A: 255}
	}
	return cm, nil
}

// blendStops fills lut by interpolating evenly spaced stops in Lab space.
func blendStops(lut []colorful.Color, stops []string) error {
	cols := make([]colorful.Color, len(stops))
	for i, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			return fmt.Errorf("viz: colormap stop %q: %w", s, err)
		}
		cols[i] = c
	}
	segments := float64(len(cols) - 1)
	for i := range lut {
		x := float64(i) / float64(len(lut)-1) * segments
		k := min(int(x), len(cols)-2)
		lut[i] = cols[k].BlendLab(cols[k+1], x-float64(k)).Clamped()
	}
	return nil
}

// At returns entry i, clamped into the table.
func (c *Colormap) At(i int) color.RGBA {
	return c.lut[min(max(i, 0), LUTSize-1)]
}

// Map looks up v in [0,1]. Values outside are clamped; NaN maps to entry 0.
func (c *Colormap) Map(v float64) color.RGBA {
	if math.IsNaN(v) {
		return c.lut[0]
	}
	v = min(max(v, 0), 1)
	return c.lut[int(math.Round(v*(LUTSize-1)))]
}

// Palette returns the table as a GIF palette.
func (c *Colormap) Palette() color.Palette {
	p := make(color.Palette, LUTSize)
	for i, col := range c.lut {
		p[i] = col
	}
	return p
}
