package scene_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/scene"
	"github.com/san-kum/wavesim/internal/wave"
)

var _ = Describe("Render plane shapes", func() {
	const w, h = 8, 6

	variants := map[string]func() wave.SceneObject{
		"StaticDampening":        func() wave.SceneObject { return scene.NewBorderDampening(w, h, 2) },
		"StaticRefractiveIndex":  func() wave.SceneObject { return scene.NewUniformRefractiveIndex(w, h, 1.5) },
		"StrainRefractiveIndex":  func() wave.SceneObject { return scene.NewStrainRefractiveIndex(1.5, 1) },
		"PolygonRefractiveIndex": func() wave.SceneObject { return scene.NewPolygonRefractiveIndex(square(1, 1, 4, 4), 2) },
		"BoxRefractiveIndex": func() wave.SceneObject {
			return scene.NewBoxRefractiveIndex(scene.Point{X: 4, Y: 3}, 3, 2, 0.3, 2)
		},
		"PointSource": func() wave.SceneObject { return scene.NewPointSource(1, 1, 0.1, 1) },
		"LineSource": func() wave.SceneObject {
			return scene.NewLineSource(scene.Point{X: 1, Y: 1}, scene.Point{X: 6, Y: 1}, 0.1, 1)
		},
		"Charge": func() wave.SceneObject { return scene.NewCharge(4, 3, 0.1, 1) },
		"ImageScene": func() wave.SceneObject {
			opts := scene.DefaultImageOptions()
			opts.Border = 1
			return scene.NewImageScene(testSceneImage(), opts)
		},
	}

	It("accepts matching planes", func() {
		for name, build := range variants {
			err := build().Render(grid.New(w, h), grid.Filled(w, h, 1), grid.Filled(w, h, 1))
			Expect(err).NotTo(HaveOccurred(), name)
		}
	})

	DescribeTable("rejects a mismatched plane",
		func(field, waveSpeed, dampening *grid.Plane) {
			for name, build := range variants {
				err := build().Render(field, waveSpeed, dampening)
				Expect(err).To(MatchError(grid.ErrShapeMismatch), name)
			}
		},
		Entry("field", grid.New(3, 3), grid.Filled(w, h, 1), grid.New(w, h)),
		Entry("wave speed", grid.New(w, h), grid.Filled(10, 10, 1), grid.New(w, h)),
		Entry("dampening", grid.New(w, h), grid.Filled(w, h, 1), grid.New(5, 5)),
	)

	It("leaves the planes untouched when rejecting", func() {
		c, d := grid.Filled(w, h, 0.7), grid.Filled(w, h+1, 0.3)
		for name, build := range variants {
			Expect(build().Render(grid.New(w, h), c, d)).NotTo(Succeed(), name)
			Expect(c.Data).To(HaveEach(0.7), name)
			Expect(d.Data).To(HaveEach(0.3), name)
		}
	})
})
