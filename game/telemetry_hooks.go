package game

import (
	"log/slog"
)

// flushTelemetry emits field and perf stats once per stats window.
func (g *Game) flushTelemetry() {
	if !g.fieldStats.Ready() {
		return
	}

	stats := g.fieldStats.Flush(g.field)
	perfStats := g.perf.Stats()

	if g.logStats {
		g.logWindow(stats, perfStats)
	}

	if err := g.output.WriteField(stats); err != nil {
		slog.Error("failed to write field stats", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.Tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}
