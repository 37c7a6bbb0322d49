package viz

import (
	"math"
	"sort"

	"github.com/san-kum/wavesim/internal/grid"
)

type Vec3 struct {
	X, Y, Z float64
}

// Camera orbits the origin and projects with a simple perspective divide.
type Camera struct {
	Distance   float64
	RotX, RotZ float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 50, RotX: -1.0, RotZ: 0.6, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) rotate(p Vec3) Vec3 {
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	return p
}

// Project converts world coordinates to dot coordinates on a sw×sh
// screen. It returns x, y, depth and whether the point is visible.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, float64, bool) {
	r := c.rotate(p)
	r = Vec3{r.X * c.Zoom, r.Y * c.Zoom, r.Z * c.Zoom}
	if r.Z >= c.Distance-0.1 {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - r.Z)
	pScale := float64(min(sw, sh)) / 3.0
	sx := int(r.X*scale*pScale) + sw/2
	sy := int(-r.Y*scale*pScale) + sh/2
	return sx, sy, r.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// RenderSurface draws u as a wireframe height map. Every stride-th cell
// becomes a vertex; the grid is normalized to [-1,1] in x and y and the
// field is scaled by height.
func RenderSurface(c *Canvas, u *grid.Plane, cam *Camera, stride int, height float64) {
	if c == nil || u == nil || cam == nil {
		return
	}
	stride = max(stride, 1)
	sw, sh := c.Width*2, c.Height*4
	span := float64(max(u.Width, u.Height))
	vertex := func(x, y int) Vec3 {
		return Vec3{
			X: (2*float64(x) - float64(u.Width)) / span,
			Y: (2*float64(y) - float64(u.Height)) / span,
			Z: u.At(x, y) * height,
		}
	}

	var edges []projectedEdge
	add := func(a, b Vec3) {
		x1, y1, d1, v1 := cam.Project(a, sw, sh)
		x2, y2, d2, v2 := cam.Project(b, sw, sh)
		if v1 || v2 {
			edges = append(edges, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	for y := 0; y < u.Height; y += stride {
		for x := 0; x < u.Width; x += stride {
			p := vertex(x, y)
			if x+stride < u.Width {
				add(p, vertex(x+stride, y))
			}
			if y+stride < u.Height {
				add(p, vertex(x, y+stride))
			}
		}
	}

	// painter's order
	sort.Slice(edges, func(i, j int) bool { return edges[i].depth < edges[j].depth })
	for _, e := range edges {
		c.DrawLine(e.x1, e.y1, e.x2, e.y2)
	}
}
