package field

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the speed distribution over valid cells.
type Stats struct {
	Cells      int     `csv:"cells"`
	ValidCells int     `csv:"valid_cells"`
	CalmCells  int     `csv:"calm_cells"`
	SpeedMin   float64 `csv:"speed_min"`
	SpeedMax   float64 `csv:"speed_max"`
	SpeedMean  float64 `csv:"speed_mean"`
	SpeedStd   float64 `csv:"speed_std"`
	SpeedP10   float64 `csv:"speed_p10"`
	SpeedP50   float64 `csv:"speed_p50"`
	SpeedP90   float64 `csv:"speed_p90"`
}

// ComputeStats scans the field once. Cells with mask 0 are skipped; calm
// (zero speed) cells are counted but left out of the distribution, matching
// the range used by Normalize.
func ComputeStats(f *Field) Stats {
	s := Stats{Cells: f.Len()}

	speeds := make([]float64, 0, f.Len())
	for i, sp := range f.Speed.Array {
		if f.Mask.Array[i] == 0 {
			continue
		}
		s.ValidCells++
		if sp == 0 {
			s.CalmCells++
			continue
		}
		speeds = append(speeds, float64(sp))
	}
	if len(speeds) == 0 {
		return s
	}

	sort.Float64s(speeds)
	s.SpeedMin = floats.Min(speeds)
	s.SpeedMax = floats.Max(speeds)
	s.SpeedMean, s.SpeedStd = stat.MeanStdDev(speeds, nil)
	s.SpeedP10 = stat.Quantile(0.10, stat.Empirical, speeds, nil)
	s.SpeedP50 = stat.Quantile(0.50, stat.Empirical, speeds, nil)
	s.SpeedP90 = stat.Quantile(0.90, stat.Empirical, speeds, nil)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("cells", s.Cells),
		slog.Int("valid_cells", s.ValidCells),
		slog.Int("calm_cells", s.CalmCells),
		slog.Float64("speed_min", s.SpeedMin),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p50", s.SpeedP50),
	)
}
