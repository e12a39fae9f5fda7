package systems

import "time"

// DefaultMaxFrameDelta is the frame delta above which a frame is treated as
// a stall and contributes no simulated time.
const DefaultMaxFrameDelta = 500 * time.Millisecond

// Scheduler converts wall-clock frame deltas into a whole number of
// simulation steps at a fixed updates-per-second rate. Leftover time carries
// over between frames.
//
// The accumulator is kept in rate-scaled nanoseconds (elapsed × rate), so a
// second of frames always yields exactly rate steps however it is split.
type Scheduler struct {
	scaled   int64 // accumulated nanoseconds × rate
	rate     int
	running  bool
	maxDelta time.Duration
}

// NewScheduler creates a running scheduler at rate updates per second.
func NewScheduler(rate int) *Scheduler {
	if rate < 0 {
		rate = 0
	}
	return &Scheduler{rate: rate, running: true, maxDelta: DefaultMaxFrameDelta}
}

// Advance adds dt to the accumulator and returns how many steps to run now.
// While paused it resets the accumulator and returns 0. A dt above the stall
// limit is discarded.
func (s *Scheduler) Advance(dt time.Duration) int {
	if !s.running || s.rate == 0 {
		s.scaled = 0
		return 0
	}
	if dt < 0 || (s.maxDelta > 0 && dt > s.maxDelta) {
		dt = 0
	}

	s.scaled += int64(dt) * int64(s.rate)
	steps := s.scaled / int64(time.Second)
	if steps > 0 {
		s.scaled -= steps * int64(time.Second)
	}
	return int(steps)
}

// Accumulated returns the leftover simulated time not yet consumed by a step.
func (s *Scheduler) Accumulated() time.Duration {
	if s.rate == 0 {
		return 0
	}
	return time.Duration(s.scaled / int64(s.rate))
}

// Rate returns the updates-per-second target.
func (s *Scheduler) Rate() int { return s.rate }

// SetRate changes the target rate. A change resets the accumulator so a rate
// increase does not release a burst of catch-up steps.
func (s *Scheduler) SetRate(rate int) {
	if rate < 0 {
		rate = 0
	}
	if rate == s.rate {
		return
	}
	s.rate = rate
	s.scaled = 0
}

// Running reports whether the scheduler is producing steps.
func (s *Scheduler) Running() bool { return s.running }

// SetRunning pauses or resumes. A state change resets the accumulator.
func (s *Scheduler) SetRunning(running bool) {
	if running == s.running {
		return
	}
	s.running = running
	s.scaled = 0
}

// Toggle flips the pause state and returns the new running state.
func (s *Scheduler) Toggle() bool {
	s.SetRunning(!s.running)
	return s.running
}

// SetMaxFrameDelta sets the stall limit; zero disables it.
func (s *Scheduler) SetMaxFrameDelta(d time.Duration) { s.maxDelta = d }
