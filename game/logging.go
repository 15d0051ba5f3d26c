package game

import (
	"log/slog"

	"github.com/pthm-cable/folio/telemetry"
)

// logWindow writes one structured record per stats window.
func (g *Game) logWindow(stats telemetry.FieldStats, perf telemetry.PerfStats) {
	attrs := []any{
		"field", stats,
		"perf", perf,
		"generation", g.controls.Profiles().Generation,
	}
	if stats.RadialFaults > 0 || stats.TangentialFaults > 0 {
		slog.Warn("stats window with profile faults", attrs...)
		return
	}
	slog.Info("stats window", attrs...)
}
