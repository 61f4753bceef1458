package telemetry

import (
	"github.com/pthm-cable/windlayer/particles"
	"github.com/pthm-cable/windlayer/viewport"
)

// Collector accumulates events within frame windows and produces
// WindowStats.
type Collector struct {
	windowFrames int64
	dt           float64

	windowStartFrame int64
	lastCounters     particles.Counters
	lastOffGlobe     int

	dataChanges    int
	optionsChanges int
}

// NewCollector creates a collector flushing every windowSec seconds of
// frames at dt seconds per frame.
func NewCollector(windowSec, dt float64) *Collector {
	frames := int64(windowSec / dt)
	if frames < 1 {
		frames = 1
	}
	return &Collector{windowFrames: frames, dt: dt}
}

// RecordDataChange counts a wind data swap.
func (c *Collector) RecordDataChange() {
	c.dataChanges++
}

// RecordOptionsChange counts an options update.
func (c *Collector) RecordOptionsChange() {
	c.optionsChanges++
}

// ShouldFlush returns true if the window is complete.
func (c *Collector) ShouldFlush(frame int64) bool {
	return frame-c.windowStartFrame >= c.windowFrames
}

// Sample is the state read at the end of a window.
type Sample struct {
	Particles int
	Lines     int
	Counters  particles.Counters
	OffGlobe  int
	Viewport  viewport.State
	Speeds    []float64
}

// Flush produces a WindowStats and resets counters for the next window.
// Respawn and off-globe figures are deltas against the previous flush.
func (c *Collector) Flush(frame int64, s Sample) WindowStats {
	mean, std, p10, p50, p90 := ComputeSpeedStats(s.Speeds)

	ws := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   frame,
		ElapsedSec:       float64(frame) * c.dt,
		Particles:        s.Particles,
		Lines:            s.Lines,
		Drops:            s.Counters.Drops - c.lastCounters.Drops,
		OutOfBounds:      s.Counters.OutOfBounds - c.lastCounters.OutOfBounds,
		Masked:           s.Counters.Masked - c.lastCounters.Masked,
		DataChanges:      c.dataChanges,
		OptionsChanges:   c.optionsChanges,
		OffGlobe:         s.OffGlobe - c.lastOffGlobe,
		LonMin:           s.Viewport.LonRange[0],
		LonMax:           s.Viewport.LonRange[1],
		LatMin:           s.Viewport.LatRange[0],
		LatMax:           s.Viewport.LatRange[1],
		PixelSize:        s.Viewport.PixelSize,
		SceneMode:        s.Viewport.SceneMode.String(),
		SpeedMean:        mean,
		SpeedStd:         std,
		SpeedP10:         p10,
		SpeedP50:         p50,
		SpeedP90:         p90,
	}

	c.windowStartFrame = frame
	c.lastCounters = s.Counters
	c.lastOffGlobe = s.OffGlobe
	c.dataChanges = 0
	c.optionsChanges = 0
	return ws
}
