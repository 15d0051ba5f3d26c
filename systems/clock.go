package systems

import "math"

// Clock measures simulated seconds since the last reset.
type Clock struct {
	elapsed float64
}

// Advance moves the clock forward. Negative or non-finite deltas are ignored
// so elapsed time never decreases.
func (c *Clock) Advance(dt float64) {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return
	}
	c.elapsed += dt
}

// Reset zeroes the clock.
func (c *Clock) Reset() {
	c.elapsed = 0
}

// Elapsed returns seconds since the last reset.
func (c *Clock) Elapsed() float64 {
	return c.elapsed
}
