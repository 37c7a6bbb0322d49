package metrics

import (
	"math"

	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/wave"
)

// FieldEnergy is the discrete wave energy of the current frame: kinetic
// 0.5*((u-u_prev)/dt)^2 plus potential 0.5*c^2*|grad u|^2, summed over
// the grid. Gradients use forward differences with zero outside the grid.
func FieldEnergy(u, prev, c *grid.Plane, dt float64) float64 {
	w, h := u.Width, u.Height
	var kinetic, potential float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			v := (u.Data[i] - prev.Data[i]) / dt
			kinetic += v * v

			var right, down float64
			if x+1 < w {
				right = u.Data[i+1]
			}
			if y+1 < h {
				down = u.Data[i+w]
			}
			gx, gy := right-u.Data[i], down-u.Data[i]
			potential += c.Data[i] * c.Data[i] * (gx*gx + gy*gy)
		}
	}
	return 0.5 * (kinetic + potential)
}

// Energy averages FieldEnergy over the observed frames.
type Energy struct {
	name        string
	last        float64
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s *wave.Simulator) {
	e.last = FieldEnergy(s.Field(), s.PreviousField(), s.WaveSpeed(), s.Dt())
	e.totalEnergy += e.last
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

// Last returns the energy of the most recent frame.
func (e *Energy) Last() float64 { return e.last }

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.last = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative deviation from the first
// non-zero energy seen. In a scene without sources or dampening this
// measures how well the scheme conserves energy.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s *wave.Simulator) {
	energy := FieldEnergy(s.Field(), s.PreviousField(), s.WaveSpeed(), s.Dt())
	e.currentEnergy = energy

	if e.initialEnergy == 0 {
		e.initialEnergy = energy
		return
	}

	drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
}
