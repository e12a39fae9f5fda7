package telemetry

import (
	"time"

	"github.com/pthm-cable/cellular/rules"
)

// Collector accumulates per-frame samples within time windows and produces
// WindowStats.
type Collector struct {
	window time.Duration

	// Current window tracking
	elapsed        time.Duration
	total          time.Duration
	windowStartGen uint64
	steps          int

	density  []float64
	activity []float64
}

// NewCollector creates a new stats collector. window is measured in frame
// time, including time spent paused.
func NewCollector(window time.Duration) *Collector {
	if window <= 0 {
		window = 5 * time.Second
	}
	return &Collector{window: window}
}

// Advance adds one frame of dt during which steps generations ran.
func (c *Collector) Advance(dt time.Duration, steps int) {
	c.elapsed += dt
	c.total += dt
	c.steps += steps
}

// Record adds a density and activity sample for the current frame.
func (c *Collector) Record(density, activity float64) {
	c.density = append(c.density, density)
	c.activity = append(c.activity, activity)
}

// ShouldFlush returns true if the window has elapsed.
func (c *Collector) ShouldFlush() bool {
	return c.elapsed >= c.window
}

// Flush produces a WindowStats and resets the window.
func (c *Collector) Flush(generation uint64, population int, snap rules.Snapshot) WindowStats {
	d := ComputeSeriesStats(c.density)
	a := ComputeSeriesStats(c.activity)

	var ups float64
	if c.elapsed > 0 {
		ups = float64(c.steps) / c.elapsed.Seconds()
	}

	stats := WindowStats{
		WindowStartGen: c.windowStartGen,
		WindowEndGen:   generation,
		SimTimeSec:     c.total.Seconds(),

		Steps: c.steps,
		UPS:   ups,

		Population: population,
		Extinct:    population == 0,

		DensityMean: d.Mean,
		DensityStd:  d.Std,
		DensityP10:  d.P10,
		DensityP50:  d.P50,
		DensityP90:  d.P90,

		ActivityMean: a.Mean,
		ActivityStd:  a.Std,

		Radius:        snap.Radius,
		IncludeCenter: snap.IncludeCenter,
		SurviveLow:    snap.Survive.Low,
		SurviveHigh:   snap.Survive.High,
		BirthLow:      snap.Birth.Low,
		BirthHigh:     snap.Birth.High,
		Boundary:      snap.Boundary.String(),
	}

	// Reset for next window
	c.windowStartGen = generation
	c.elapsed = 0
	c.steps = 0
	c.density = c.density[:0]
	c.activity = c.activity[:0]

	return stats
}

// Window returns the configured window length.
func (c *Collector) Window() time.Duration {
	return c.window
}
