// Package grid provides the 2D planes shared by the wave simulator and
// its scene objects.
//
// A [Plane] is a row-major H×W array of float64 values. The simulator
// owns four planes of identical shape:
//
//   - field: current wave amplitude
//   - previous field: amplitude one step earlier
//   - wave speed: derived from refractive index, rebuilt every frame
//   - dampening: velocity damping in [0,1], rebuilt every frame
//
// Operations that receive planes of different shapes fail with
// [ErrShapeMismatch]; callers are expected to treat that as a broken
// precondition rather than something to retry.
//
// # Convolution
//
// [Convolve] computes a "same"-sized 2D convolution against a 3×3
// [Kernel], treating neighbours outside the grid as zero:
//
//	lap := grid.New(w, h)
//	if err := grid.Convolve(lap, field, grid.LaplacianDefault); err != nil {
//	    return err
//	}
package grid
