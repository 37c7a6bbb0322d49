package metrics

import (
	"math"

	"github.com/san-kum/wavesim/internal/wave"
)

// Activity is the mean absolute per-cell field change per frame, averaged
// over the observed frames.
type Activity struct {
	name    string
	sum     float64
	samples int
}

func NewActivity() *Activity {
	return &Activity{
		name: "activity",
	}
}

func (a *Activity) Name() string {
	return a.name
}

func (a *Activity) Observe(s *wave.Simulator) {
	u, prev := s.Field().Data, s.PreviousField().Data
	var sum float64
	for i := range u {
		sum += math.Abs(u[i] - prev[i])
	}
	a.sum += sum / float64(len(u))
	a.samples++
}

func (a *Activity) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *Activity) Reset() {
	a.sum = 0
	a.samples = 0
}
