package scene_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/scene"
)

func borderDistance(x, y, w, h int) int {
	return min(x, y, w-1-x, h-1-y)
}

var _ = Describe("StaticDampening", func() {
	const (
		w, h   = 20, 12
		border = 4
	)

	var (
		input *grid.Plane
		layer *scene.StaticDampening
	)

	BeforeEach(func() {
		input = grid.Filled(w, h, 1.5)
		input.Set(10, 6, 0.3)
		input.Set(11, 6, -2)
		input.Set(0, 0, 0.7)
		layer = scene.NewStaticDampening(input, border)
	})

	It("ramps sqrt(i/border) inside the border band", func() {
		d := layer.Values()
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := borderDistance(x, y, w, h)
				if i >= border {
					continue
				}
				Expect(d.At(x, y)).To(BeNumerically("~", math.Sqrt(float64(i)/border), 1e-12),
					"cell (%d,%d) at distance %d", x, y, i)
			}
		}
	})

	It("is non-decreasing towards the interior", func() {
		d := layer.Values()
		for x := 1; x < w/2; x++ {
			Expect(d.At(x, h/2)).To(BeNumerically(">=", d.At(x-1, h/2)))
		}
	})

	It("keeps the clipped input beyond the border band", func() {
		d := layer.Values()
		Expect(d.At(10, 6)).To(Equal(0.3))
		Expect(d.At(11, 6)).To(Equal(0.0))
		Expect(d.At(border, border)).To(Equal(1.0))
	})

	It("lets the border override interior values", func() {
		Expect(layer.Values().At(0, 0)).To(Equal(0.0))
	})

	It("does not modify its input", func() {
		Expect(input.At(11, 6)).To(Equal(-2.0))
	})

	It("overwrites the whole dampening plane", func() {
		field, c, d := grid.New(w, h), grid.New(w, h), grid.Filled(w, h, 0.123)
		Expect(layer.Render(field, c, d)).To(Succeed())
		Expect(d.Data).To(Equal(layer.Values().Data))
		Expect(c.Data).To(HaveEach(0.0))
	})

	It("fails fast on a mismatched plane", func() {
		err := layer.Render(grid.New(w, h), grid.New(w, h), grid.New(w, h+1))
		Expect(err).To(MatchError(grid.ErrShapeMismatch))
	})

	It("tolerates a border thicker than half the grid", func() {
		l := scene.NewBorderDampening(6, 4, 10)
		Expect(l.Values().IsValid()).To(BeTrue())
		Expect(l.Values().At(0, 0)).To(Equal(0.0))
	})
})

var _ = Describe("StaticRefractiveIndex", func() {
	DescribeTable("converts a uniform index to 1/clip(n, 0.9, 10)",
		func(n, want float64) {
			layer := scene.NewUniformRefractiveIndex(8, 6, n)
			c := grid.New(8, 6)
			Expect(layer.Render(grid.New(8, 6), c, grid.New(8, 6))).To(Succeed())
			for _, v := range c.Data {
				Expect(v).To(BeNumerically("~", want, 1e-12))
			}
		},
		Entry("glass", 1.5, 1/1.5),
		Entry("vacuum", 1.0, 1.0),
		Entry("below the lower bound", 0.5, 1/0.9),
		Entry("negative", -3.0, 1/0.9),
		Entry("above the upper bound", 20.0, 0.1),
	)

	It("fails fast on a mismatched plane", func() {
		layer := scene.NewUniformRefractiveIndex(8, 6, 1.5)
		err := layer.Render(grid.New(8, 6), grid.New(6, 8), grid.New(8, 6))
		Expect(err).To(MatchError(grid.ErrShapeMismatch))
	})
})

var _ = Describe("StrainRefractiveIndex", func() {
	It("uses the offset on a flat field", func() {
		layer := scene.NewStrainRefractiveIndex(1.2, 0.5)
		c := grid.New(9, 9)
		Expect(layer.Render(grid.New(9, 9), c, grid.New(9, 9))).To(Succeed())
		Expect(c.Data).To(HaveEach(BeNumerically("~", 1/1.2, 1e-12)))
	})

	It("couples the index to the local strain", func() {
		field := grid.New(9, 9)
		field.Set(4, 4, 1)
		c := grid.New(9, 9)

		layer := scene.NewStrainRefractiveIndex(2.0, 0.5)
		Expect(layer.Render(field, c, grid.New(9, 9))).To(Succeed())

		// centre strain is -1: n = 2 - 0.5
		Expect(c.At(4, 4)).To(BeNumerically("~", 1/1.5, 1e-12))
		// edge neighbour strain is 0.2: n = 2.1
		Expect(c.At(5, 4)).To(BeNumerically("~", 1/2.1, 1e-12))
		Expect(c.At(0, 0)).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("clamps strong coupling into the stable range", func() {
		field := grid.New(5, 5)
		field.Set(2, 2, 10)
		c := grid.New(5, 5)
		layer := scene.NewStrainRefractiveIndex(1.0, 1.0)
		Expect(layer.Render(field, c, grid.New(5, 5))).To(Succeed())
		Expect(c.At(2, 2)).To(BeNumerically("~", 1/0.9, 1e-12))
	})

	It("supports gradient-magnitude strain", func() {
		field := grid.New(7, 7)
		for y := 0; y < 7; y++ {
			for x := 0; x < 7; x++ {
				field.Set(x, y, float64(x))
			}
		}
		c := grid.New(7, 7)
		layer := scene.NewStrainRefractiveIndex(1.0, 1.0, scene.WithGradientStrain())
		Expect(layer.Render(field, c, grid.New(7, 7))).To(Succeed())
		// unit ramp: gradient magnitude 1 in the interior, n = 2
		Expect(c.At(3, 3)).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("fails fast on a mismatched plane", func() {
		layer := scene.NewStrainRefractiveIndex(1.0, 1.0)
		err := layer.Render(grid.New(5, 5), grid.New(5, 4), grid.New(5, 5))
		Expect(err).To(MatchError(grid.ErrShapeMismatch))
	})
})
