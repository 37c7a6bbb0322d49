package scene_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/scene"
)

func square(x0, y0, x1, y1 float64) []scene.Point {
	return []scene.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

var _ = Describe("PolygonRefractiveIndex", func() {
	var c *grid.Plane

	BeforeEach(func() {
		c = grid.Filled(10, 10, 1.0)
	})

	render := func(o interface {
		Render(field, waveSpeed, dampening *grid.Plane) error
	}) {
		ExpectWithOffset(1, o.Render(grid.New(10, 10), c, grid.New(10, 10))).To(Succeed())
	}

	It("replaces fully covered cells and leaves the rest alone", func() {
		render(scene.NewPolygonRefractiveIndex(square(2, 2, 6, 6), 2.0))
		for y := 0; y < 10; y++ {
			for x := 0; x < 10; x++ {
				want := 1.0
				if x >= 2 && x < 6 && y >= 2 && y < 6 {
					want = 0.5
				}
				Expect(c.At(x, y)).To(BeNumerically("~", want, 1e-9), "cell (%d,%d)", x, y)
			}
		}
	})

	It("blends partially covered cells", func() {
		render(scene.NewPolygonRefractiveIndex(square(2.5, 2, 6, 6), 2.0))
		Expect(c.At(2, 3)).To(BeNumerically("~", 0.75, 0.01))
		Expect(c.At(3, 3)).To(BeNumerically("~", 0.5, 1e-9))
	})

	It("blends over an earlier base layer", func() {
		Expect(scene.NewUniformRefractiveIndex(10, 10, 1.5).Render(grid.New(10, 10), c, grid.New(10, 10))).To(Succeed())
		render(scene.NewPolygonRefractiveIndex(square(0, 0, 5, 10), 4.0))
		Expect(c.At(1, 1)).To(BeNumerically("~", 0.25, 1e-9))
		Expect(c.At(8, 1)).To(BeNumerically("~", 1/1.5, 1e-12))
	})

	It("clamps the region index", func() {
		render(scene.NewPolygonRefractiveIndex(square(0, 0, 10, 10), 0.1))
		Expect(c.At(5, 5)).To(BeNumerically("~", 1/0.9, 1e-9))
	})

	It("clamps a mirror-like index to 10", func() {
		render(scene.NewBoxRefractiveIndex(scene.Point{X: 5, Y: 5}, 4, 4, 0, 100))
		Expect(c.At(5, 5)).To(BeNumerically("~", 0.1, 1e-9))
	})

	It("clips polygons that extend past the grid", func() {
		render(scene.NewPolygonRefractiveIndex(square(-20, -20, 3, 30), 2.0))
		Expect(c.At(0, 0)).To(BeNumerically("~", 0.5, 1e-9))
		Expect(c.At(2, 9)).To(BeNumerically("~", 0.5, 1e-9))
		Expect(c.At(3, 0)).To(Equal(1.0))
	})

	It("ignores polygons entirely outside the grid", func() {
		render(scene.NewPolygonRefractiveIndex(square(20, 20, 30, 30), 2.0))
		Expect(c.Data).To(HaveEach(1.0))
	})

	It("ignores degenerate polygons", func() {
		render(scene.NewPolygonRefractiveIndex([]scene.Point{{X: 1, Y: 1}, {X: 5, Y: 5}}, 2.0))
		Expect(c.Data).To(HaveEach(1.0))
	})

	It("rebuilds its mask when the grid shape changes", func() {
		p := scene.NewPolygonRefractiveIndex(square(0, 0, 8, 8), 2.0)
		Expect(p.Coverage(grid.Shape{Width: 4, Height: 4}, 3, 3)).To(BeNumerically("~", 1, 1e-9))
		Expect(p.Coverage(grid.Shape{Width: 4, Height: 4}, 5, 5)).To(Equal(0.0))
		Expect(p.Coverage(grid.Shape{Width: 10, Height: 10}, 5, 5)).To(BeNumerically("~", 1, 1e-9))
	})
})

var _ = Describe("BoxRefractiveIndex", func() {
	It("covers an axis-aligned box around its centre", func() {
		box := scene.NewBoxRefractiveIndex(scene.Point{X: 5, Y: 5}, 4, 2, 0, 2.0)
		shape := grid.Shape{Width: 10, Height: 10}
		Expect(box.Coverage(shape, 3, 4)).To(BeNumerically("~", 1, 1e-9))
		Expect(box.Coverage(shape, 6, 5)).To(BeNumerically("~", 1, 1e-9))
		Expect(box.Coverage(shape, 7, 5)).To(Equal(0.0))
		Expect(box.Coverage(shape, 5, 6)).To(Equal(0.0))
	})

	It("rotates by its angle in radians", func() {
		box := scene.NewBoxRefractiveIndex(scene.Point{X: 5, Y: 5}, 4, 2, math.Pi/2, 2.0)
		shape := grid.Shape{Width: 10, Height: 10}
		Expect(box.Coverage(shape, 4, 3)).To(BeNumerically("~", 1, 1e-6))
		Expect(box.Coverage(shape, 3, 4)).To(BeNumerically("<", 1e-6))
	})
})
