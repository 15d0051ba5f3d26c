package systems

import (
	"math"
	"sync"
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/folio/forcefn"
)

// State is the simulator's force state.
type State uint8

const (
	StateIdle   State = iota // No profile compiled yet; forces are zero
	StateActive              // User profiles installed
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "idle"
}

// Params are the live tuning knobs read fresh every step.
type Params struct {
	Noise    float64 `json:"noise"`
	Friction float64 `json:"friction"`
}

// Clamped returns p with noise and friction in [0, 1]. NaN becomes 0.
func (p Params) Clamped() Params {
	p.Noise = clampUnit(p.Noise)
	p.Friction = clampUnit(p.Friction)
	return p
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, 1)
}

// Snap rounds v to the nearest multiple of step and clamps it to [lo, hi].
func Snap(v, step, lo, hi float64) float64 {
	if step > 0 {
		v = math.Round(v/step) * step
	}
	return math.Min(math.Max(v, lo), hi)
}

// SliderChange returns the snapped value for a float32 slider reading and
// whether it differs from current. An untouched slider reports no change, so a
// value set off the grid elsewhere is left alone.
func SliderChange(slider float32, current, step, lo, hi float64) (float64, bool) {
	if slider == float32(current) {
		return current, false
	}
	snapped := Snap(float64(slider), step, lo, hi)
	return snapped, snapped != current
}

// ProfileSet is an installed pair of force profiles. Values are immutable once
// published; a new install replaces the whole set.
type ProfileSet struct {
	Radial        forcefn.Profile
	Tangential    forcefn.Profile
	RadialSrc     string
	TangentialSrc string
	State         State
	Generation    uint64 // Incremented on every install
}

type pointerSnapshot struct {
	pos r2.Vec
	set bool
}

// Controls is the hand-off point between input handlers and the step loop.
// Every value is published as an atomic snapshot so the step never observes a
// torn pointer or a half-installed profile pair, even when writers run on
// another goroutine (see the remote package).
type Controls struct {
	params   atomic.Pointer[Params]
	profiles atomic.Pointer[ProfileSet]
	pointer  atomic.Pointer[pointerSnapshot]
	viewport atomic.Pointer[r2.Vec]

	resets   atomic.Uint64
	restarts atomic.Uint64

	// installMu serializes profile installs so generations stay ordered.
	installMu sync.Mutex
}

// NewControls creates controls in the idle state with the given parameters.
func NewControls(params Params) *Controls {
	c := &Controls{}
	c.SetParams(params)
	zero := forcefn.Zero()
	c.profiles.Store(&ProfileSet{
		Radial:        zero.Profile(),
		Tangential:    zero.Profile(),
		RadialSrc:     zero.Source(),
		TangentialSrc: zero.Source(),
		State:         StateIdle,
	})
	c.pointer.Store(&pointerSnapshot{})
	c.viewport.Store(&r2.Vec{})
	return c
}

// Params returns the current parameter snapshot.
func (c *Controls) Params() Params {
	return *c.params.Load()
}

// SetParams publishes new parameters after clamping.
func (c *Controls) SetParams(p Params) {
	p = p.Clamped()
	c.params.Store(&p)
}

// SetNoise updates only the noise amplitude.
func (c *Controls) SetNoise(v float64) {
	p := c.Params()
	p.Noise = v
	c.SetParams(p)
}

// SetFriction updates only the friction coefficient.
func (c *Controls) SetFriction(v float64) {
	p := c.Params()
	p.Friction = v
	c.SetParams(p)
}

// Profiles returns the installed profile set.
func (c *Controls) Profiles() *ProfileSet {
	return c.profiles.Load()
}

// State reports whether user profiles have been installed.
func (c *Controls) State() State {
	return c.Profiles().State
}

// Apply compiles both expressions and installs them together. If either fails
// to compile, nothing changes and the *forcefn.ParseError is returned.
// A successful apply restarts the simulation clock.
func (c *Controls) Apply(radial, tangential string) error {
	rp, err := forcefn.Compile(radial)
	if err != nil {
		return err
	}
	tp, err := forcefn.Compile(tangential)
	if err != nil {
		return err
	}
	c.Install(rp.Profile(), tp.Profile(), rp.Source(), tp.Source())
	c.restarts.Add(1)
	return nil
}

// Install publishes an already built profile pair and moves to StateActive.
func (c *Controls) Install(radial, tangential forcefn.Profile, radialSrc, tangentialSrc string) {
	c.installMu.Lock()
	defer c.installMu.Unlock()

	prev := c.profiles.Load()
	c.profiles.Store(&ProfileSet{
		Radial:        radial,
		Tangential:    tangential,
		RadialSrc:     radialSrc,
		TangentialSrc: tangentialSrc,
		State:         StateActive,
		Generation:    prev.Generation + 1,
	})
}

// SetPointer records the pointer position in screen space.
func (c *Controls) SetPointer(x, y float32) {
	c.pointer.Store(&pointerSnapshot{pos: r2.Vec{X: float64(x), Y: float64(y)}, set: true})
}

// CenterPointer moves the pointer to the centre of the viewport.
func (c *Controls) CenterPointer() {
	vp := *c.viewport.Load()
	c.pointer.Store(&pointerSnapshot{pos: r2.Scale(0.5, vp), set: true})
}

// SetViewport records the screen size used for the no-input fallback.
func (c *Controls) SetViewport(w, h float32) {
	c.viewport.Store(&r2.Vec{X: float64(w), Y: float64(h)})
}

// Pointer returns the pointer in screen space, or the viewport centre if no
// input has been received yet.
func (c *Controls) Pointer() r2.Vec {
	if p := c.pointer.Load(); p.set {
		return p.pos
	}
	return r2.Scale(0.5, *c.viewport.Load())
}

// HasPointer reports whether any pointer input has been recorded.
func (c *Controls) HasPointer() bool {
	return c.pointer.Load().set
}

// Reset requests regeneration of all particles and a clock reset on the next step.
func (c *Controls) Reset() {
	c.resets.Add(1)
}

// ResetCount returns the number of reset requests so far.
func (c *Controls) ResetCount() uint64 {
	return c.resets.Load()
}

// RestartCount returns the number of clock restarts requested by Apply.
func (c *Controls) RestartCount() uint64 {
	return c.restarts.Load()
}
