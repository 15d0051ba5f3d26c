package systems

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/folio/components"
	"github.com/pthm-cable/folio/config"
	"github.com/pthm-cable/folio/forcefn"
)

// Projector maps a screen-space point to the z=0 world plane. ok is false when
// the view ray does not meet the plane.
type Projector func(screen r2.Vec) (world r2.Vec, ok bool)

// StepStats summarises the most recent step.
type StepStats struct {
	Tick             int64
	Elapsed          float64
	Target           r2.Vec
	TargetFallback   bool // Projection failed; the origin was used
	RadialFaults     int
	TangentialFaults int
}

// Field owns the particle population and advances it each frame.
type Field struct {
	world  *ecs.World
	mapper *ecs.Map3[components.Position, components.Velocity, components.Particle]
	filter *ecs.Filter3[components.Position, components.Velocity, components.Particle]

	count  int
	bounds Bounds

	radialScale     float64
	tangentialScale float64
	noiseScale      float64

	controls *Controls
	project  Projector
	rng      *rand.Rand

	clock        Clock
	tick         int64
	seenResets   uint64
	seenRestarts uint64

	radialFaults     faultStreak
	tangentialFaults faultStreak
	stats            StepStats
}

// NewField creates cfg.Count particles spread uniformly over bounds, at rest.
func NewField(cfg config.FieldConfig, bounds Bounds, controls *Controls, project Projector, rng *rand.Rand) *Field {
	world := ecs.NewWorld()
	f := &Field{
		world:            world,
		mapper:           ecs.NewMap3[components.Position, components.Velocity, components.Particle](world),
		filter:           ecs.NewFilter3[components.Position, components.Velocity, components.Particle](world),
		count:            cfg.Count,
		bounds:           bounds,
		radialScale:      cfg.RadialScale,
		tangentialScale:  cfg.TangentialScale,
		noiseScale:       cfg.NoiseScale,
		controls:         controls,
		project:          project,
		rng:              rng,
		seenResets:       controls.ResetCount(),
		seenRestarts:     controls.RestartCount(),
		radialFaults:     faultStreak{name: "radial"},
		tangentialFaults: faultStreak{name: "tangential"},
	}

	for i := 0; i < cfg.Count; i++ {
		pos := f.randomPosition()
		vel := components.Velocity{}
		p := components.Particle{Index: int32(i)}
		f.mapper.NewEntity(&pos, &vel, &p)
	}

	slog.Info("field created",
		"particles", cfg.Count,
		"width", bounds.Width,
		"height", bounds.Height,
	)
	return f
}

// Step advances every particle by one frame. dt only drives the clock; the
// integration itself is per step, matching a fixed frame cadence.
func (f *Field) Step(dt float64) {
	f.syncControls()

	f.clock.Advance(dt)
	f.tick++
	t := f.clock.Elapsed()

	params := f.controls.Params()
	profiles := f.controls.Profiles()
	target, fallback := f.target()

	noiseAmp := params.Noise * f.noiseScale

	query := f.filter.Query()
	for query.Next() {
		pos, vel, _ := query.Get()

		p := r2.Vec{X: float64(pos.X), Y: float64(pos.Y)}
		v := r2.Vec{X: float64(vel.X), Y: float64(vel.Y)}

		var fs forces
		var dir r2.Vec
		delta := r2.Sub(p, target)
		// A particle sitting exactly on the target has no direction and feels
		// no radial or tangential force this step.
		if dist := r2.Norm(delta); dist > 0 {
			dir = r2.Scale(1/dist, delta)
			fs.radial = f.radialFaults.eval(profiles.Radial, dist, t)
			fs.tangential = f.tangentialFaults.eval(profiles.Tangential, dist, t)
		}
		fs.noise = r2.Vec{
			X: (f.rng.Float64() - 0.5) * noiseAmp,
			Y: (f.rng.Float64() - 0.5) * noiseAmp,
		}

		p, v = integrate(p, v, dir, fs, f.radialScale, f.tangentialScale, params.Friction)

		np := components.Position{X: float32(p.X), Y: float32(p.Y)}
		nv := components.Velocity{X: float32(v.X), Y: float32(v.Y)}
		if !finite32(np.X, np.Y, nv.X, nv.Y) {
			// A finite force can still push the state past float32 range; the
			// particle keeps its previous state and the step counts as a fault.
			f.recordOverflow(fs)
			continue
		}
		*pos, *vel = np, nv
	}

	f.stats = StepStats{
		Tick:             f.tick,
		Elapsed:          t,
		Target:           target,
		TargetFallback:   fallback,
		RadialFaults:     f.radialFaults.endStep(profiles.Generation, profiles.RadialSrc, f.tick),
		TangentialFaults: f.tangentialFaults.endStep(profiles.Generation, profiles.TangentialSrc, f.tick),
	}
}

// recordOverflow charges an out-of-range step to the profiles that pushed the
// particle this step, or to the radial profile when neither did.
func (f *Field) recordOverflow(fs forces) {
	err := fmt.Errorf("%w: particle state exceeds float32 range", forcefn.ErrNonFinite)
	if fs.radial != 0 || fs.tangential == 0 {
		f.radialFaults.record(err)
	}
	if fs.tangential != 0 {
		f.tangentialFaults.record(err)
	}
}

// syncControls applies reset and clock-restart requests made since the last step.
func (f *Field) syncControls() {
	if n := f.controls.ResetCount(); n != f.seenResets {
		f.seenResets = n
		f.Reset()
	}
	if n := f.controls.RestartCount(); n != f.seenRestarts {
		f.seenRestarts = n
		f.clock.Reset()
	}
}

// target returns the attraction point on the world plane.
func (f *Field) target() (r2.Vec, bool) {
	if f.project == nil {
		return r2.Vec{}, true
	}
	w, ok := f.project(f.controls.Pointer())
	if !ok || !finite(w) {
		return r2.Vec{}, true
	}
	return w, false
}

// Reset regenerates all positions, zeroes velocities and restarts the clock.
func (f *Field) Reset() {
	f.Respawn()
	f.clock.Reset()
	slog.Info("field reset", "particles", f.count)
}

// Respawn regenerates positions and zeroes velocities, keeping the clock.
func (f *Field) Respawn() {
	query := f.filter.Query()
	for query.Next() {
		pos, vel, _ := query.Get()
		*pos = f.randomPosition()
		*vel = components.Velocity{}
	}
}

// SetBounds changes the spawn area. Existing particles are not moved.
func (f *Field) SetBounds(b Bounds) {
	f.bounds = b
}

// Bounds returns the current spawn area.
func (f *Field) Bounds() Bounds {
	return f.bounds
}

func (f *Field) randomPosition() components.Position {
	return components.Position{
		X: float32((f.rng.Float64() - 0.5) * float64(f.bounds.Width)),
		Y: float32((f.rng.Float64() - 0.5) * float64(f.bounds.Height)),
	}
}

// Each calls fn for every particle. fn must not retain the pointers.
func (f *Field) Each(fn func(idx int32, pos *components.Position, vel *components.Velocity)) {
	query := f.filter.Query()
	for query.Next() {
		pos, vel, p := query.Get()
		fn(p.Index, pos, vel)
	}
}

// Count returns the fixed population size.
func (f *Field) Count() int { return f.count }

// State reports whether user profiles are installed.
func (f *Field) State() State { return f.controls.State() }

// Elapsed returns seconds since the last clock reset.
func (f *Field) Elapsed() float64 { return f.clock.Elapsed() }

// Tick returns the number of steps taken.
func (f *Field) Tick() int64 { return f.tick }

// Stats returns the summary of the most recent step.
func (f *Field) Stats() StepStats { return f.stats }

// TotalFaults returns cumulative radial and tangential evaluation faults.
func (f *Field) TotalFaults() (radial, tangential uint64) {
	return f.radialFaults.total, f.tangentialFaults.total
}

// Controls returns the controls the field reads from.
func (f *Field) Controls() *Controls { return f.controls }

func finite32(vs ...float32) bool {
	for _, v := range vs {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return false
		}
	}
	return true
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
