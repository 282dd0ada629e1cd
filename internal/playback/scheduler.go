// Package playback schedules animation frame advancement on a cooperative timer.
package playback

import (
	"math"
	"time"
)

// MinTickDelay is the floor for a single tick so a zero-delay animation can
// never starve the GUI thread with a timer storm.
const MinTickDelay = 30 * time.Millisecond

// Speeds is the fixed set of selectable playback multipliers.
var Speeds = []float64{0.5, 1.0, 2.0}

// State is the scheduler's playback state.
type State int

const (
	Stopped State = iota
	Playing
)

// Scheduler arms one deadline at a time and advances frames when it fires.
// Cancellation is cooperative: arming bumps a generation counter, and a
// deadline only fires while it is still the current generation in the
// Playing state. The GUI loop polls Due each frame; there is no background
// timer thread.
type Scheduler struct {
	state      State
	speed      float64
	generation uint64
	armedGen   uint64
	deadline   time.Time
}

// New creates a stopped scheduler at the given speed multiplier. Values
// outside the fixed speed set fall back to 1.0.
func New(speed float64) *Scheduler {
	s := &Scheduler{speed: 1.0}
	s.SetSpeed(speed)
	return s
}

// State returns the current playback state.
func (s *Scheduler) State() State {
	return s.state
}

// Playing reports whether playback is active.
func (s *Scheduler) Playing() bool {
	return s.state == Playing
}

// Speed returns the current speed multiplier.
func (s *Scheduler) Speed() float64 {
	return s.speed
}

// SetSpeed selects a playback multiplier from the fixed set. It may be
// called mid-playback; the new speed applies on the next re-arm, never to
// the in-flight deadline. Returns false for values outside the set.
func (s *Scheduler) SetSpeed(speed float64) bool {
	for _, v := range Speeds {
		if v == speed {
			s.speed = speed
			return true
		}
	}
	return false
}

// TickDelay returns the delay for one tick of a frame with the given
// duration at the current speed.
func (s *Scheduler) TickDelay(frameDuration time.Duration) time.Duration {
	d := time.Duration(math.Round(float64(frameDuration) / s.speed))
	if d < MinTickDelay {
		d = MinTickDelay
	}
	return d
}

// Play starts playback and arms a deadline for the current frame's duration.
// A no-op while already playing.
func (s *Scheduler) Play(now time.Time, frameDuration time.Duration) {
	if s.state == Playing {
		return
	}
	s.state = Playing
	s.arm(now, frameDuration)
}

// Pause stops playback and cancels the outstanding deadline. A no-op while
// already stopped.
func (s *Scheduler) Pause() {
	if s.state == Stopped {
		return
	}
	s.state = Stopped
	// Invalidate the armed deadline so a poll that already saw it cannot
	// fire it later.
	s.generation++
}

// Due reports whether the armed deadline has fired. It stays false while
// stopped, before the deadline, and for deadlines canceled by Pause.
func (s *Scheduler) Due(now time.Time) bool {
	if s.state != Playing {
		return false
	}
	if s.armedGen != s.generation {
		return false
	}
	return !now.Before(s.deadline)
}

// Advance re-arms the deadline after the caller has moved to the next frame.
func (s *Scheduler) Advance(now time.Time, frameDuration time.Duration) {
	if s.state != Playing {
		return
	}
	s.arm(now, frameDuration)
}

// arm replaces any outstanding deadline. There is never more than one armed
// deadline per scheduler.
func (s *Scheduler) arm(now time.Time, frameDuration time.Duration) {
	s.generation++
	s.armedGen = s.generation
	s.deadline = now.Add(s.TickDelay(frameDuration))
}
