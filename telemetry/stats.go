package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame int64   `csv:"-"`
	WindowEndFrame   int64   `csv:"window_end"`
	ElapsedSec       float64 `csv:"elapsed"`

	// Population and drawing at window end
	Particles int `csv:"particles"`
	Lines     int `csv:"lines"`

	// Respawns during the window, by cause
	Drops       int `csv:"drops"`
	OutOfBounds int `csv:"out_of_bounds"`
	Masked      int `csv:"masked"`

	// Layer activity during the window
	DataChanges    int `csv:"data_changes"`
	OptionsChanges int `csv:"options_changes"`
	OffGlobe       int `csv:"off_globe"`

	// Viewport at window end
	LonMin    float64 `csv:"lon_min"`
	LonMax    float64 `csv:"lon_max"`
	LatMin    float64 `csv:"lat_min"`
	LatMax    float64 `csv:"lat_max"`
	PixelSize float64 `csv:"pixel_size"`
	SceneMode string  `csv:"scene_mode"`

	// Wind speed under the particles at window end
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
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

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats calculates mean, population std and percentiles.
func ComputeSpeedStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartFrame),
		slog.Int64("window_end", s.WindowEndFrame),
		slog.Int("particles", s.Particles),
		slog.Int("lines", s.Lines),
		slog.Int("drops", s.Drops),
		slog.Int("out_of_bounds", s.OutOfBounds),
		slog.Int("masked", s.Masked),
		slog.Int("off_globe", s.OffGlobe),
		slog.Float64("pixel_size", s.PixelSize),
		slog.String("scene_mode", s.SceneMode),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p90", s.SpeedP90),
	)
}

// LogStats logs the window stats.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
