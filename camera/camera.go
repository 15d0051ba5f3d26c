// Package camera provides the perspective camera looking down onto the field
// plane, with screen-to-world picking on z=0.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is a perspective camera on the +z axis looking at the origin.
type Camera struct {
	// Position is the eye position in world coordinates
	Position r3.Vec
	Target   r3.Vec
	Up       r3.Vec

	// FovY is the vertical field of view in degrees
	FovY float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32
}

// New creates a camera at distance units above the origin.
func New(viewportW, viewportH float32, distance, fovY float64) *Camera {
	return &Camera{
		Position:  r3.Vec{Z: distance},
		Up:        r3.Vec{Y: 1},
		FovY:      fovY,
		ViewportW: viewportW,
		ViewportH: viewportH,
	}
}

// Resize updates the viewport after a window size change.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Aspect returns the viewport width over height.
func (c *Camera) Aspect() float64 {
	if c.ViewportH <= 0 {
		return 1
	}
	return float64(c.ViewportW) / float64(c.ViewportH)
}

func (c *Camera) tanHalfFov() float64 {
	return math.Tan(c.FovY * math.Pi / 360)
}

// basis returns the forward, right and up unit vectors of the view.
func (c *Camera) basis() (f, r, u r3.Vec) {
	f = r3.Unit(r3.Sub(c.Target, c.Position))
	r = r3.Unit(r3.Cross(f, c.Up))
	u = r3.Cross(r, f)
	return f, r, u
}

// Ray returns the origin and unit direction of the view ray through a screen point.
func (c *Camera) Ray(sx, sy float32) (origin, dir r3.Vec) {
	f, r, u := c.basis()
	th := c.tanHalfFov()

	ndcX := 2*float64(sx)/float64(c.ViewportW) - 1
	ndcY := 1 - 2*float64(sy)/float64(c.ViewportH)

	dir = r3.Add(f, r3.Add(
		r3.Scale(ndcX*th*c.Aspect(), r),
		r3.Scale(ndcY*th, u),
	))
	return c.Position, r3.Unit(dir)
}

// ScreenToWorld intersects the view ray through (sx, sy) with the z=0 plane.
// ok is false when the ray is parallel to or points away from the plane.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32, ok bool) {
	p, ok := c.Project(r2.Vec{X: float64(sx), Y: float64(sy)})
	return float32(p.X), float32(p.Y), ok
}

// Project is ScreenToWorld in float64 form, usable as a systems.Projector.
func (c *Camera) Project(screen r2.Vec) (r2.Vec, bool) {
	if c.ViewportW <= 0 || c.ViewportH <= 0 {
		return r2.Vec{}, false
	}
	origin, dir := c.Ray(float32(screen.X), float32(screen.Y))
	if math.Abs(dir.Z) < 1e-12 {
		return r2.Vec{}, false
	}
	s := -origin.Z / dir.Z
	if s < 0 {
		return r2.Vec{}, false
	}
	hit := r3.Add(origin, r3.Scale(s, dir))
	return r2.Vec{X: hit.X, Y: hit.Y}, true
}

// WorldToScreen projects a point on the z=0 plane to screen coordinates.
// ok is false for points behind the camera.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32, ok bool) {
	f, r, u := c.basis()
	rel := r3.Sub(r3.Vec{X: float64(wx), Y: float64(wy)}, c.Position)

	depth := r3.Dot(rel, f)
	if depth <= 0 {
		return 0, 0, false
	}
	th := c.tanHalfFov()
	ndcX := r3.Dot(rel, r) / (depth * th * c.Aspect())
	ndcY := r3.Dot(rel, u) / (depth * th)

	sx = float32((ndcX + 1) / 2 * float64(c.ViewportW))
	sy = float32((1 - ndcY) / 2 * float64(c.ViewportH))
	return sx, sy, true
}

// VisibleSize returns the width and height of the z=0 plane that fills the
// viewport. Only exact for a camera on the z axis looking at the origin.
func (c *Camera) VisibleSize() (w, h float32) {
	d := r3.Norm(r3.Sub(c.Position, c.Target))
	hh := 2 * d * c.tanHalfFov()
	return float32(hh * c.Aspect()), float32(hh)
}
