// Package components defines ECS components for the particle field.
package components

// Position represents a particle's position on the z=0 world plane.
type Position struct {
	X, Y float32
}

// Velocity represents a particle's per-step displacement.
type Velocity struct {
	X, Y float32
}

// Particle tags field particles and records their spawn order.
// Index is stable for the lifetime of the field and maps to the render instance slot.
type Particle struct {
	Index int32
}
