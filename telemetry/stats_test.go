package telemetry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/folio/config"
	"github.com/pthm-cable/folio/systems"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestSpeedStats(t *testing.T) {
	speeds := []float64{0.9, 0.1, 0.5, 0.3, 0.7, 0.2, 0.8, 0.4, 0.6, 1.0}
	mean, p50, p90, max := SpeedStats(speeds)

	if math.Abs(mean-0.55) > 1e-9 {
		t.Errorf("mean = %v, want 0.55", mean)
	}
	if math.Abs(p50-0.55) > 1e-9 {
		t.Errorf("p50 = %v, want 0.55", p50)
	}
	if math.Abs(p90-0.91) > 1e-9 {
		t.Errorf("p90 = %v, want 0.91", p90)
	}
	if max != 1.0 {
		t.Errorf("max = %v, want 1", max)
	}
}

func TestSpeedStatsEmpty(t *testing.T) {
	mean, p50, p90, max := SpeedStats(nil)
	if mean != 0 || p50 != 0 || p90 != 0 || max != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestSpread(t *testing.T) {
	// Four points on a circle of radius 2 around (1, 1).
	xs := []float64{3, 1, -1, 1}
	ys := []float64{1, 3, 1, -1}

	cx, cy, std := Spread(xs, ys)
	if math.Abs(cx-1) > 1e-9 || math.Abs(cy-1) > 1e-9 {
		t.Errorf("centroid = (%v, %v), want (1, 1)", cx, cy)
	}
	if math.Abs(std) > 1e-9 {
		t.Errorf("equidistant points should have zero spread, got %v", std)
	}

	if _, _, std := Spread([]float64{0, 4}, []float64{0, 0}); std != 0 {
		t.Errorf("two points are equidistant from their midpoint, got %v", std)
	}
}

func TestFieldCollector(t *testing.T) {
	cfg := config.FieldConfig{Count: 100, RadialScale: 0.01, TangentialScale: 0.01, NoiseScale: 0.1}
	controls := systems.NewControls(systems.Params{Noise: 1, Friction: 0.05})
	field := systems.NewField(cfg, systems.Bounds{Width: 20, Height: 10}, controls, nil, rand.New(rand.NewSource(3)))
	c := NewFieldCollector(0.5)

	steps := 0
	for !c.Ready() {
		field.Step(0.1)
		c.Record(0.1, field.Stats())
		steps++
	}
	if steps != 5 && steps != 6 {
		t.Errorf("expected window to fill after ~5 steps, took %d", steps)
	}

	stats := c.Flush(field)
	if stats.Particles != 100 {
		t.Errorf("expected 100 particles sampled, got %d", stats.Particles)
	}
	if stats.SpeedMean <= 0 {
		t.Error("noise should give particles some speed")
	}
	if stats.FallbackSteps != steps {
		t.Errorf("no projector means every step falls back, got %d of %d", stats.FallbackSteps, steps)
	}
	if stats.State != "idle" {
		t.Errorf("expected idle state, got %q", stats.State)
	}
	if c.Ready() {
		t.Error("flush should start a new window")
	}
}
