// Package systems contains the particle field simulation.
package systems

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Bounds represents the visible extent of the world plane, centred on the origin.
type Bounds struct {
	Width, Height float32
}

// Contains reports whether (x, y) lies inside the bounds.
func (b Bounds) Contains(x, y float32) bool {
	hw, hh := b.Width/2, b.Height/2
	return x >= -hw && x <= hw && y >= -hh && y <= hh
}

// forces are the per-particle scalar outputs for one step.
type forces struct {
	radial     float64
	tangential float64
	noise      r2.Vec
}

// integrate advances a single particle one step. dir must be a unit vector or
// zero. The tangent is dir rotated 90 degrees counter-clockwise.
func integrate(pos, vel, dir r2.Vec, f forces, radialScale, tangentialScale, friction float64) (r2.Vec, r2.Vec) {
	tangent := r2.Vec{X: -dir.Y, Y: dir.X}

	vel = r2.Add(vel, r2.Scale(f.radial*radialScale, dir))
	vel = r2.Add(vel, r2.Scale(f.tangential*tangentialScale, tangent))
	vel = r2.Add(vel, f.noise)

	// Friction removes a fraction of the velocity; 1 stops the particle dead.
	vel = r2.Sub(vel, r2.Scale(friction, vel))

	return r2.Add(pos, vel), vel
}
