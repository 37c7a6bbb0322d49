package grid

// Convolve writes the 2D convolution of src with k into dst. The output has
// the same shape as src; neighbours outside the grid count as zero.
func Convolve(dst, src *Plane, k Kernel) error {
	if err := CheckShape(src.Shape(), dst); err != nil {
		return err
	}
	ConvolveRows(dst, src, k, 0, src.Height)
	return nil
}

// ConvolveRows is Convolve restricted to output rows [y0, y1). Shapes are
// not checked. Rows are independent, so disjoint ranges may run
// concurrently.
func ConvolveRows(dst, src *Plane, k Kernel, y0, y1 int) {
	w, h := src.Width, src.Height
	for y := y0; y < y1; y++ {
		out := dst.Data[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			sum := 0.0
			for i := 0; i < 3; i++ {
				sy := y + 1 - i
				if sy < 0 || sy >= h {
					continue
				}
				row := src.Data[sy*w : (sy+1)*w]
				for j := 0; j < 3; j++ {
					sx := x + 1 - j
					if sx < 0 || sx >= w {
						continue
					}
					sum += k[i][j] * row[sx]
				}
			}
			out[x] = sum
		}
	}
}
