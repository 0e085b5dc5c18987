package viz

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is an orthographic view of the simulation space, rotated about
// the x, y and z axes in that order.
type Camera struct {
	RotX, RotY, RotZ float64
	Zoom             float64
	// Extent is the half-width of the visible region at zoom 1.
	Extent float64
}

func NewCamera(extent float64) *Camera {
	if !(extent > 0) {
		extent = 1
	}
	return &Camera{Zoom: 1, Extent: extent}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(100, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.01, c.Zoom/1.2) }

// Fit grows Extent so that p stays visible.
func (c *Camera) Fit(p r3.Vec) {
	if e := 1.1 * math.Max(math.Abs(p.X), math.Abs(p.Y)); e > c.Extent {
		c.Extent = e
	}
}

func (c *Camera) rotate(p r3.Vec) r3.Vec {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project maps p to pixel coordinates on a sw x sh pixel screen.
func (c *Camera) Project(p r3.Vec, sw, sh int) (x, y int) {
	rot := c.rotate(p)
	half := math.Min(float64(sw), float64(sh)) / 2
	scale := half * c.Zoom / c.Extent
	return int(math.Round(rot.X*scale)) + sw/2, int(math.Round(-rot.Y*scale)) + sh/2
}
