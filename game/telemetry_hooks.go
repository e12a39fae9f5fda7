package game

import (
	"log/slog"
	"time"
)

// observe feeds one frame into the stats window and flushes it when due.
func (g *Game) observe(dt time.Duration, steps int) {
	g.collector.Advance(dt, steps)
	if steps > 0 {
		g.collector.Record(g.session.Density(), g.session.Activity())
	}
	g.flushTelemetry()
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush() {
		return
	}

	gen := g.session.Generation()
	stats := g.collector.Flush(gen, g.session.Population(), g.session.Snapshot())
	perfStats := g.perf.Stats()

	if g.logStats {
		stats.LogStats()
		slog.Info("perf", "stats", perfStats)
	}

	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.output.WritePerf(perfStats, gen); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarks.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// resetDetection forgets bookmark history after the grid or rules change.
func (g *Game) resetDetection() {
	g.bookmarks.Reset()
}
