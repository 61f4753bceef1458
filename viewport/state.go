// Package viewport tracks which part of a wind field is visible and how far
// the camera is zoomed into it.
package viewport

import (
	"log/slog"

	"github.com/pthm-cable/windlayer/scene"
)

// MaxPixelSize is the upper bound of State.PixelSize.
const MaxPixelSize = 1000

// State describes the visible part of the field. It is a derived cache
// rewritten by the Tracker, not a versioned snapshot.
type State struct {
	LonRange [2]float64
	LatRange [2]float64
	// PixelSize is 1000 times the visible fraction of the field along its
	// tighter axis, in [0, MaxPixelSize].
	PixelSize float64
	SceneMode scene.Mode
}

// FullGlobe returns the state used before the first recompute.
func FullGlobe(mode scene.Mode) State {
	return State{
		LonRange:  [2]float64{-180, 180},
		LatRange:  [2]float64{-90, 90},
		PixelSize: 0,
		SceneMode: mode,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s State) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("lon_min", s.LonRange[0]),
		slog.Float64("lon_max", s.LonRange[1]),
		slog.Float64("lat_min", s.LatRange[0]),
		slog.Float64("lat_max", s.LatRange[1]),
		slog.Float64("pixel_size", s.PixelSize),
		slog.String("scene_mode", s.SceneMode.String()),
	)
}
