package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/wavesim/internal/wave"
)

// SweepPoint holds the distinct probe values seen for one parameter value.
type SweepPoint struct {
	Param  float64
	Values []float64
}

// SweepOptions controls a parameter sweep. The probe cell is sampled after
// every frame of the record window, following a transient that is
// discarded.
type SweepOptions struct {
	Min, Max   float64
	Steps      int
	ProbeX     int
	ProbeY     int
	Transient  int
	Record     int
	Resolution float64 // values closer than this count as one
}

// Sweep builds one simulator per parameter value and records where the
// probe settles. It is the field analogue of a bifurcation diagram: a
// single value means a steady state, a spread of values an oscillation.
func Sweep(build func(param float64) (*wave.Simulator, error), opts SweepOptions) ([]SweepPoint, error) {
	steps := opts.Steps
	if steps <= 1 {
		steps = 2
	}
	res := opts.Resolution
	if res <= 0 {
		res = 1e-3
	}
	paramStep := (opts.Max - opts.Min) / float64(steps-1)

	results := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		param := opts.Min + float64(i)*paramStep
		sim, err := build(param)
		if err != nil {
			return nil, fmt.Errorf("param %g: %w", param, err)
		}

		for f := 0; f < opts.Transient; f++ {
			if err := sim.Step(); err != nil {
				return nil, fmt.Errorf("param %g: %w", param, err)
			}
		}

		values := make([]float64, 0, 16)
		seen := make(map[int64]bool)
		for f := 0; f < opts.Record; f++ {
			if err := sim.Step(); err != nil {
				return nil, fmt.Errorf("param %g: %w", param, err)
			}
			u := sim.Field()
			if !u.InBounds(opts.ProbeX, opts.ProbeY) {
				continue
			}
			val := u.At(opts.ProbeX, opts.ProbeY)
			key := int64(val / res)
			if !seen[key] {
				seen[key] = true
				values = append(values, val)
			}
		}

		results = append(results, SweepPoint{Param: param, Values: values})
	}
	return results, nil
}

// SweepToASCII plots sweep data with the parameter on the x axis.
func SweepToASCII(data []SweepPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	foundFirst := false
	for _, p := range data {
		for _, v := range p.Values {
			if !foundFirst {
				minVal, maxVal = v, v
				foundFirst = true
				continue
			}
			minVal = min(minVal, v)
			maxVal = max(maxVal, v)
		}
	}
	if !foundFirst {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := newCanvas(width, height)
	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}
	return canvasString(canvas)
}

func newCanvas(width, height int) [][]rune {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}
	return canvas
}

func canvasString(canvas [][]rune) string {
	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
