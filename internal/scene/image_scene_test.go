package scene_test

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/scene"
)

func testSceneImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 100, A: 255})
		}
	}
	img.SetNRGBA(3, 4, color.NRGBA{R: 150, G: 51, A: 255})
	img.SetNRGBA(6, 1, color.NRGBA{R: 0, G: 255, A: 255})
	img.SetNRGBA(1, 1, color.NRGBA{R: 100, B: 255, A: 255})
	return img
}

var _ = Describe("ImageScene", func() {
	var (
		s    *scene.ImageScene
		opts scene.ImageOptions
	)

	BeforeEach(func() {
		opts = scene.DefaultImageOptions()
		opts.Border = 0
		s = scene.NewImageScene(testSceneImage(), opts)
	})

	It("decodes the medium from red and blue", func() {
		field, c, d := grid.New(8, 6), grid.New(8, 6), grid.New(8, 6)
		Expect(s.Render(field, c, d)).To(Succeed())

		Expect(c.At(0, 0)).To(BeNumerically("~", 1.0, 1e-12))
		Expect(c.At(3, 4)).To(BeNumerically("~", 1/1.5, 1e-12))
		Expect(c.At(6, 1)).To(BeNumerically("~", 1/0.9, 1e-12))
		Expect(d.At(1, 1)).To(Equal(0.0))
		Expect(d.At(0, 0)).To(Equal(1.0))
	})

	It("finds one source per green pixel", func() {
		srcs := s.Sources()
		Expect(srcs).To(HaveLen(2))
		Expect(s.Objects()).To(HaveLen(4))

		byPos := map[[2]int]*scene.PointSource{}
		for _, src := range srcs {
			byPos[[2]int{src.X, src.Y}] = src
		}
		Expect(byPos).To(HaveKey([2]int{3, 4}))
		Expect(byPos[[2]int{3, 4}].Frequency).To(BeNumerically("~", 0.1, 1e-12))
		Expect(byPos[[2]int{6, 1}].Frequency).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("blends its sources into the field", func() {
		field := grid.New(8, 6)
		Expect(s.UpdateField(field, 10)).To(Succeed())
		Expect(field.At(3, 4)).To(BeNumerically("~", math.Sin(1.0)*0.1, 1e-12))
		Expect(field.At(0, 0)).To(Equal(0.0))
	})

	It("applies the absorbing border", func() {
		opts.Border = 2
		s = scene.NewImageScene(testSceneImage(), opts)
		field, c, d := grid.New(8, 6), grid.New(8, 6), grid.New(8, 6)
		Expect(s.Render(field, c, d)).To(Succeed())
		Expect(d.At(0, 3)).To(Equal(0.0))
		Expect(d.At(1, 3)).To(BeNumerically("~", math.Sqrt(0.5), 1e-12))
		Expect(d.At(3, 3)).To(Equal(1.0))
	})

	It("round-trips through a PNG file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "scene.png")
		f, err := os.Create(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(png.Encode(f, testSceneImage())).To(Succeed())
		Expect(f.Close()).To(Succeed())

		img, err := scene.LoadImage(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(scene.NewImageScene(img, opts).Sources()).To(HaveLen(2))
	})

	DescribeTable("rejects unsupported scene formats",
		func(name string) {
			_, err := scene.LoadImage(name)
			Expect(err).To(MatchError(grid.ErrNotImplemented))
		},
		Entry("json", "scene.json"),
		Entry("svg", "scene.SVG"),
	)

	It("reports missing files", func() {
		_, err := scene.LoadImage(filepath.Join(GinkgoT().TempDir(), "missing.png"))
		Expect(err).To(MatchError(os.ErrNotExist))
	})
})
