package scene_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/modulator"
	"github.com/san-kum/wavesim/internal/scene"
)

type constModulator float64

func (c constModulator) Amplitude(float64) float64 { return float64(c) }

var _ = Describe("PointSource", func() {
	It("writes sin(phase + f*t)*amplitude at its cell", func() {
		field := grid.New(8, 8)
		src := scene.NewPointSource(3, 5, 0.2, 2.0, scene.WithPhase(0.5))
		Expect(src.UpdateField(field, 7)).To(Succeed())

		Expect(field.At(3, 5)).To(Equal(math.Sin(0.5+0.2*7) * 2.0))
		field.Set(3, 5, 0)
		Expect(field.MaxAbs()).To(Equal(0.0))
	})

	It("is deterministic", func() {
		a, b := grid.New(4, 4), grid.New(4, 4)
		src := scene.NewPointSource(1, 1, 0.3, 1)
		Expect(src.UpdateField(a, 12.5)).To(Succeed())
		Expect(src.UpdateField(b, 12.5)).To(Succeed())
		Expect(a.Data).To(Equal(b.Data))
	})

	It("scales by its modulator", func() {
		field := grid.New(4, 4)
		src := scene.NewPointSource(2, 2, 0.1, 1, scene.WithModulator(constModulator(0.5)))
		Expect(src.UpdateField(field, 3)).To(Succeed())
		Expect(field.At(2, 2)).To(BeNumerically("~", 0.5*math.Sin(0.3), 1e-15))

		src.SetModulator(nil)
		Expect(src.UpdateField(field, 3)).To(Succeed())
		Expect(field.At(2, 2)).To(BeNumerically("~", math.Sin(0.3), 1e-15))
	})

	It("goes silent during the low phase of a square modulator", func() {
		field := grid.Filled(4, 4, 0)
		sq := modulator.NewSmoothSquare(1, -math.Pi/2, 1e-4)
		src := scene.NewPointSource(0, 0, 1, 1, scene.WithModulator(sq))
		Expect(src.UpdateField(field, 0)).To(Succeed())
		Expect(field.At(0, 0)).To(BeNumerically("~", 0, 1e-9))
	})

	It("blends with the existing value when asked to", func() {
		field := grid.Filled(4, 4, 0.5)
		src := scene.NewPointSource(1, 2, 0.1, 1, scene.WithEmission(scene.BlendEmission(0.9)))
		Expect(src.UpdateField(field, 5)).To(Succeed())
		want := 0.5*0.9 + math.Sin(0.5)*0.1
		Expect(field.At(1, 2)).To(BeNumerically("~", want, 1e-15))
		Expect(field.At(0, 0)).To(Equal(0.5))
	})

	It("clamps blend opacity", func() {
		Expect(scene.BlendEmission(3).Opacity).To(Equal(1.0))
		Expect(scene.BlendEmission(-1).Opacity).To(Equal(0.0))
	})

	It("emits nothing from outside the grid", func() {
		field := grid.New(4, 4)
		for _, pos := range [][2]int{{-1, 0}, {4, 0}, {0, 9}} {
			src := scene.NewPointSource(pos[0], pos[1], 1, 1)
			Expect(src.UpdateField(field, 1)).To(Succeed())
		}
		Expect(field.MaxAbs()).To(Equal(0.0))
	})

	It("leaves the medium untouched", func() {
		c, d := grid.Filled(4, 4, 0.7), grid.Filled(4, 4, 0.3)
		Expect(scene.NewPointSource(1, 1, 1, 1).Render(grid.New(4, 4), c, d)).To(Succeed())
		Expect(c.Data).To(HaveEach(0.7))
		Expect(d.Data).To(HaveEach(0.3))
	})
})

var _ = Describe("LineSource", func() {
	It("covers every cell of an axis-aligned segment", func() {
		field := grid.New(16, 4)
		src := scene.NewLineSource(scene.Point{X: 0, Y: 1}, scene.Point{X: 10, Y: 1}, 0.25, 1)
		Expect(src.UpdateField(field, 2)).To(Succeed())

		v := math.Sin(0.5)
		for x := 0; x <= 10; x++ {
			Expect(field.At(x, 1)).To(Equal(v), "x=%d", x)
		}
		for x := 11; x < 16; x++ {
			Expect(field.At(x, 1)).To(Equal(0.0))
		}
		Expect(field.Row(0)).To(HaveEach(0.0))
	})

	It("hits both endpoints of a diagonal", func() {
		field := grid.New(8, 8)
		src := scene.NewLineSource(scene.Point{X: 1, Y: 1}, scene.Point{X: 6, Y: 5}, 0, 1, scene.WithPhase(math.Pi/2))
		Expect(src.UpdateField(field, 0)).To(Succeed())
		Expect(field.At(1, 1)).To(Equal(1.0))
		Expect(field.At(6, 5)).To(Equal(1.0))
	})

	It("drops samples outside the grid", func() {
		field := grid.New(8, 8)
		src := scene.NewLineSource(scene.Point{X: -5, Y: 2}, scene.Point{X: 5, Y: 2}, 0, 1, scene.WithPhase(math.Pi/2))
		Expect(src.UpdateField(field, 0)).To(Succeed())
		for x := 0; x <= 5; x++ {
			Expect(field.At(x, 2)).To(Equal(1.0))
		}
		Expect(field.At(6, 2)).To(Equal(0.0))
	})

	It("degenerates to a single cell", func() {
		field := grid.New(4, 4)
		p := scene.Point{X: 2, Y: 2}
		Expect(scene.NewLineSource(p, p, 0, 1, scene.WithPhase(math.Pi/2)).UpdateField(field, 0)).To(Succeed())
		Expect(field.At(2, 2)).To(Equal(1.0))
		Expect(field.SumSquares()).To(Equal(1.0))
	})
})

var _ = Describe("Charge", func() {
	newStill := func() *scene.Charge {
		c := scene.NewCharge(32, 32, 0.1, 0)
		c.Sweep = 0
		return c
	}

	It("adds a normalized Gaussian scaled by its strength", func() {
		field := grid.New(64, 64)
		Expect(newStill().UpdateField(field, 100)).To(Succeed())

		sum := 0.0
		for _, v := range field.Data {
			sum += v
		}
		Expect(sum).To(BeNumerically("~", 0.25, 1e-12))
		Expect(field.At(32, 32)).To(BeNumerically(">", field.At(30, 32)))
	})

	It("accumulates instead of overwriting", func() {
		once, twice := grid.New(64, 64), grid.New(64, 64)
		c := newStill()
		Expect(c.UpdateField(once, 100)).To(Succeed())
		Expect(c.UpdateField(twice, 100)).To(Succeed())
		Expect(c.UpdateField(twice, 100)).To(Succeed())
		Expect(twice.At(32, 32)).To(BeNumerically("~", 2*once.At(32, 32), 1e-15))
	})

	It("fades in from zero", func() {
		field := grid.New(64, 64)
		Expect(newStill().UpdateField(field, 0)).To(Succeed())
		Expect(field.MaxAbs()).To(Equal(0.0))
	})

	It("clips its footprint at the grid edge", func() {
		field := grid.New(16, 16)
		c := scene.NewCharge(0, 0, 0.1, 0)
		c.Sweep = 0
		Expect(c.UpdateField(field, 100)).To(Succeed())
		Expect(field.IsValid()).To(BeTrue())
		Expect(field.At(0, 0)).To(BeNumerically(">", 0))
	})
})
