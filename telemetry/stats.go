package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartGen uint64  `csv:"-"`
	WindowEndGen   uint64  `csv:"generation"`
	SimTimeSec     float64 `csv:"sim_time"`

	// Steps executed during the window and the measured rate
	Steps int     `csv:"steps"`
	UPS   float64 `csv:"ups"`

	// Population at window end
	Population int  `csv:"population"`
	Extinct    bool `csv:"extinct"`

	// Live fraction, sampled once per frame
	DensityMean float64 `csv:"density_mean"`
	DensityStd  float64 `csv:"density_std"`
	DensityP10  float64 `csv:"density_p10"`
	DensityP50  float64 `csv:"density_p50"`
	DensityP90  float64 `csv:"density_p90"`

	// Fraction of cells that flipped in the sampled step
	ActivityMean float64 `csv:"activity_mean"`
	ActivityStd  float64 `csv:"activity_std"`

	// Rules in effect at window end
	Radius        int    `csv:"radius"`
	IncludeCenter bool   `csv:"include_center"`
	SurviveLow    int    `csv:"survive_low"`
	SurviveHigh   int    `csv:"survive_high"`
	BirthLow      int    `csv:"birth_low"`
	BirthHigh     int    `csv:"birth_high"`
	Boundary      string `csv:"boundary"`
}

// SeriesStats summarizes a sample series.
type SeriesStats struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeSeriesStats calculates mean, population std, and percentiles.
func ComputeSeriesStats(values []float64) SeriesStats {
	if len(values) == 0 {
		return SeriesStats{}
	}

	mean, std := stat.PopMeanStdDev(values, nil)

	// Sort for percentiles
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return SeriesStats{
		Mean: mean,
		Std:  std,
		P10:  stat.Quantile(0.10, stat.LinInterp, sorted, nil),
		P50:  stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		P90:  stat.Quantile(0.90, stat.LinInterp, sorted, nil),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartGen),
		slog.Uint64("window_end", s.WindowEndGen),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("steps", s.Steps),
		slog.Float64("ups", s.UPS),
		slog.Int("population", s.Population),
		slog.Bool("extinct", s.Extinct),
		slog.Float64("density_mean", s.DensityMean),
		slog.Float64("density_std", s.DensityStd),
		slog.Float64("density_p10", s.DensityP10),
		slog.Float64("density_p50", s.DensityP50),
		slog.Float64("density_p90", s.DensityP90),
		slog.Float64("activity_mean", s.ActivityMean),
		slog.Float64("activity_std", s.ActivityStd),
		slog.Int("radius", s.Radius),
		slog.Bool("include_center", s.IncludeCenter),
		slog.Int("survive_low", s.SurviveLow),
		slog.Int("survive_high", s.SurviveHigh),
		slog.Int("birth_low", s.BirthLow),
		slog.Int("birth_high", s.BirthHigh),
		slog.String("boundary", s.Boundary),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
