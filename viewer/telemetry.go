package viewer

import (
	"log/slog"

	"github.com/pthm-cable/windlayer/telemetry"
)

// flushTelemetry writes a stats window when one is complete.
func (v *Viewer) flushTelemetry() {
	if !v.collector.ShouldFlush(v.frame) {
		return
	}

	stats := v.collector.Flush(v.frame, telemetry.Sample{
		Particles: v.engine.Count(),
		Lines:     len(v.engine.Trails().Lines),
		Counters:  v.engine.Counters(),
		OffGlobe:  v.layer.OffGlobe(),
		Viewport:  v.layer.Viewport(),
		Speeds:    v.engine.Speeds(nil),
	})
	perfStats := v.perf.Stats()

	if v.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if v.outputManager != nil {
		if err := v.outputManager.WriteWindow(stats); err != nil {
			slog.Error("failed to write window stats", "error", err)
		}
		if err := v.outputManager.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
