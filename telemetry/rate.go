package telemetry

import "time"

// RateMeter measures frames and evolution steps per second over fixed
// windows. Values are published at the end of each window and held until
// the next one completes.
type RateMeter struct {
	window  time.Duration
	elapsed time.Duration
	frames  int
	steps   int

	fps, ups float64
}

// NewRateMeter creates a meter publishing every window.
func NewRateMeter(window time.Duration) *RateMeter {
	if window <= 0 {
		window = 500 * time.Millisecond
	}
	return &RateMeter{window: window}
}

// Tick records one frame of dt that ran steps generations. It reports
// whether new rates were published.
func (m *RateMeter) Tick(dt time.Duration, steps int) bool {
	m.elapsed += dt
	m.frames++
	m.steps += steps
	if m.elapsed < m.window {
		return false
	}

	secs := m.elapsed.Seconds()
	m.fps = float64(m.frames) / secs
	m.ups = float64(m.steps) / secs
	m.elapsed = 0
	m.frames = 0
	m.steps = 0
	return true
}

// FPS returns the last published frame rate.
func (m *RateMeter) FPS() float64 { return m.fps }

// UPS returns the last published update rate.
func (m *RateMeter) UPS() float64 { return m.ups }
