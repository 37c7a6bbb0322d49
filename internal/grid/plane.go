package grid

import (
	"fmt"
	"math"
)

// Shape is the width and height of a plane in cells.
type Shape struct {
	Width, Height int
}

func (s Shape) Len() int { return s.Width * s.Height }

func (s Shape) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// Plane is a row-major Height×Width grid of scalars. Cell (x, y) lives at
// Data[y*Width+x].
type Plane struct {
	Width, Height int
	Data          []float64
}

func New(width, height int) *Plane {
	return &Plane{Width: width, Height: height, Data: make([]float64, width*height)}
}

// Filled returns a plane with every cell set to v.
func Filled(width, height int, v float64) *Plane {
	p := New(width, height)
	p.Fill(v)
	return p
}

// FromRows builds a plane from a slice of equally long rows.
func FromRows(rows [][]float64) (*Plane, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	w := len(rows[0])
	p := New(w, len(rows))
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrShapeMismatch, y, len(row), w)
		}
		copy(p.Data[y*w:(y+1)*w], row)
	}
	return p, nil
}

func (p *Plane) Shape() Shape { return Shape{p.Width, p.Height} }

func (p *Plane) Index(x, y int) int { return y*p.Width + x }

func (p *Plane) At(x, y int) float64 { return p.Data[y*p.Width+x] }

func (p *Plane) Set(x, y int, v float64) { p.Data[y*p.Width+x] = v }

func (p *Plane) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < p.Width && y < p.Height
}

// Row returns the backing slice of row y.
func (p *Plane) Row(y int) []float64 { return p.Data[y*p.Width : (y+1)*p.Width] }

func (p *Plane) Fill(v float64) {
	for i := range p.Data {
		p.Data[i] = v
	}
}

// CopyFrom overwrites p with the contents of src.
func (p *Plane) CopyFrom(src *Plane) error {
	if err := CheckShape(p.Shape(), src); err != nil {
		return err
	}
	copy(p.Data, src.Data)
	return nil
}

func (p *Plane) Clone() *Plane {
	c := &Plane{Width: p.Width, Height: p.Height, Data: make([]float64, len(p.Data))}
	copy(c.Data, p.Data)
	return c
}

// Clip returns a copy of p with every value limited to [lo, hi].
func (p *Plane) Clip(lo, hi float64) *Plane {
	c := p.Clone()
	for i, v := range c.Data {
		c.Data[i] = Clamp(v, lo, hi)
	}
	return c
}

// IsValid reports whether every value is finite.
func (p *Plane) IsValid() bool {
	for _, v := range p.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (p *Plane) MaxAbs() float64 {
	m := 0.0
	for _, v := range p.Data {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// SumSquares returns the sum of v*v over all cells.
func (p *Plane) SumSquares() float64 {
	sum := 0.0
	for _, v := range p.Data {
		sum += v * v
	}
	return sum
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
