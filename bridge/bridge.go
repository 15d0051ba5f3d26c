// Package bridge copies simulated particle positions into per-instance render
// transforms once per frame.
package bridge

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/folio/components"
)

// ErrPopulationMismatch is returned when the source population differs from the
// frame size.
var ErrPopulationMismatch = errors.New("bridge: population size mismatch")

// Source is anything that can enumerate particle positions by index.
type Source interface {
	Count() int
	Each(fn func(idx int32, pos *components.Position, vel *components.Velocity))
}

// Translation is the offset of one render instance. Instances share rotation
// and scale, so translation is the whole per-instance transform.
type Translation struct {
	X, Y, Z float32
}

// Frame holds one translation per particle, indexed by particle index.
type Frame struct {
	translations []Translation
	captures     uint64
}

// New allocates a frame for n particles.
func New(n int) *Frame {
	return &Frame{translations: make([]Translation, n)}
}

// Capture copies every position from src. Particles lie on z=0.
// Must be called after the step has completed for the frame.
func (f *Frame) Capture(src Source) error {
	n := len(f.translations)
	if src.Count() != n {
		return fmt.Errorf("%w: frame has %d instances, source has %d", ErrPopulationMismatch, n, src.Count())
	}

	var bad int32
	var outOfRange bool
	src.Each(func(idx int32, pos *components.Position, _ *components.Velocity) {
		if idx < 0 || int(idx) >= n {
			bad, outOfRange = idx, true
			return
		}
		f.translations[idx] = Translation{X: pos.X, Y: pos.Y}
	})
	if outOfRange {
		return fmt.Errorf("%w: particle index %d outside frame of %d", ErrPopulationMismatch, bad, n)
	}

	f.captures++
	return nil
}

// Translations returns the captured instance offsets. The slice is reused
// across captures.
func (f *Frame) Translations() []Translation {
	return f.translations
}

// Len returns the number of instances.
func (f *Frame) Len() int {
	return len(f.translations)
}

// Captures returns the number of successful captures.
func (f *Frame) Captures() uint64 {
	return f.captures
}
