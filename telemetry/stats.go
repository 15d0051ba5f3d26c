package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/folio/components"
	"github.com/pthm-cable/folio/systems"
)

// FieldStats holds aggregated particle statistics for a time window.
type FieldStats struct {
	Tick      int64   `csv:"tick"`
	SimTime   float64 `csv:"sim_time"`
	State     string  `csv:"state"`
	Particles int     `csv:"particles"`

	// Speed distribution (units per step), sampled at window end
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	// Spatial distribution
	CentroidX float64 `csv:"centroid_x"`
	CentroidY float64 `csv:"centroid_y"`
	SpreadStd float64 `csv:"spread_std"` // Std dev of distance from centroid

	// Faults during the window
	RadialFaults     int `csv:"radial_faults"`
	TangentialFaults int `csv:"tangential_faults"`
	FallbackSteps    int `csv:"fallback_steps"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("tick", s.Tick),
		slog.String("state", s.State),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("spread_std", s.SpreadStd),
		slog.Int("radial_faults", s.RadialFaults),
		slog.Int("tangential_faults", s.TangentialFaults),
	)
}

// Percentile calculates the p-th percentile of a sorted slice using linear
// interpolation. p is in [0, 1]. Returns 0 for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	if lo+1 >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

// SpeedStats returns mean, p50, p90 and max of speeds. speeds is sorted in place.
func SpeedStats(speeds []float64) (mean, p50, p90, max float64) {
	if len(speeds) == 0 {
		return 0, 0, 0, 0
	}
	sort.Float64s(speeds)
	mean = stat.Mean(speeds, nil)
	return mean, Percentile(speeds, 0.5), Percentile(speeds, 0.9), floats.Max(speeds)
}

// Spread returns the centroid of the points and the population standard
// deviation of their distances from it.
func Spread(xs, ys []float64) (cx, cy, std float64) {
	n := len(xs)
	if n == 0 || len(ys) != n {
		return 0, 0, 0
	}
	cx = stat.Mean(xs, nil)
	cy = stat.Mean(ys, nil)

	dists := make([]float64, n)
	for i := range xs {
		dists[i] = math.Hypot(xs[i]-cx, ys[i]-cy)
	}
	_, std = stat.PopMeanStdDev(dists, nil)
	return cx, cy, std
}

// FieldCollector accumulates step results and emits FieldStats once per window.
type FieldCollector struct {
	window  float64
	elapsed float64

	radialFaults     int
	tangentialFaults int
	fallbackSteps    int

	speeds, xs, ys []float64
}

// NewFieldCollector creates a collector with a window in simulated seconds.
func NewFieldCollector(windowSec float64) *FieldCollector {
	if windowSec <= 0 {
		windowSec = 1
	}
	return &FieldCollector{window: windowSec}
}

// Record adds one step's results.
func (c *FieldCollector) Record(dt float64, st systems.StepStats) {
	c.elapsed += dt
	c.radialFaults += st.RadialFaults
	c.tangentialFaults += st.TangentialFaults
	if st.TargetFallback {
		c.fallbackSteps++
	}
}

// Ready reports whether a full window has elapsed.
func (c *FieldCollector) Ready() bool {
	return c.elapsed >= c.window
}

// Flush samples the field, returns the window's stats and starts a new window.
func (c *FieldCollector) Flush(f *systems.Field) FieldStats {
	c.speeds, c.xs, c.ys = c.speeds[:0], c.xs[:0], c.ys[:0]
	f.Each(func(_ int32, pos *components.Position, vel *components.Velocity) {
		c.speeds = append(c.speeds, math.Hypot(float64(vel.X), float64(vel.Y)))
		c.xs = append(c.xs, float64(pos.X))
		c.ys = append(c.ys, float64(pos.Y))
	})

	out := FieldStats{
		Tick:             f.Tick(),
		SimTime:          f.Elapsed(),
		State:            f.State().String(),
		Particles:        len(c.speeds),
		RadialFaults:     c.radialFaults,
		TangentialFaults: c.tangentialFaults,
		FallbackSteps:    c.fallbackSteps,
	}
	out.SpeedMean, out.SpeedP50, out.SpeedP90, out.SpeedMax = SpeedStats(c.speeds)
	out.CentroidX, out.CentroidY, out.SpreadStd = Spread(c.xs, c.ys)

	c.elapsed = 0
	c.radialFaults, c.tangentialFaults, c.fallbackSteps = 0, 0, 0
	return out
}
