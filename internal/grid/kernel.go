package grid

import "fmt"

// Kernel is a 3×3 stencil indexed [row][col], centred on [1][1].
type Kernel [3][3]float64

// Discrete Laplacian stencils. All have centre -1 and sum to zero; they
// differ in how much weight goes to the diagonal neighbours.
var (
	LaplacianDefault = Kernel{
		{0.066, 0.184, 0.066},
		{0.184, -1.0, 0.184},
		{0.066, 0.184, 0.066},
	}
	LaplacianSoft = Kernel{
		{0.05, 0.2, 0.05},
		{0.2, -1.0, 0.2},
		{0.05, 0.2, 0.05},
	}
	LaplacianIsotropic = Kernel{
		{0.103, 0.147, 0.103},
		{0.147, -1.0, 0.147},
		{0.103, 0.147, 0.103},
	}
)

// Sobel derivative stencils, used for gradient-magnitude strain.
var (
	SobelX = Kernel{
		{-0.125, 0, 0.125},
		{-0.25, 0, 0.25},
		{-0.125, 0, 0.125},
	}
	SobelY = Kernel{
		{-0.125, -0.25, -0.125},
		{0, 0, 0},
		{0.125, 0.25, 0.125},
	}
)

// Sum returns the sum of all nine weights.
func (k Kernel) Sum() float64 {
	s := 0.0
	for _, row := range k {
		for _, v := range row {
			s += v
		}
	}
	return s
}

var laplacians = map[string]Kernel{
	"default":   LaplacianDefault,
	"soft":      LaplacianSoft,
	"isotropic": LaplacianIsotropic,
}

// LaplacianNames lists the names accepted by LaplacianByName.
func LaplacianNames() []string { return []string{"default", "soft", "isotropic"} }

// LaplacianByName returns a named Laplacian stencil. The empty name is the
// default stencil.
func LaplacianByName(name string) (Kernel, error) {
	if name == "" {
		return LaplacianDefault, nil
	}
	k, ok := laplacians[name]
	if !ok {
		return Kernel{}, fmt.Errorf("grid: unknown laplacian %q", name)
	}
	return k, nil
}
