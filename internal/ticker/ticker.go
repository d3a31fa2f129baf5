// Package ticker implements the polling loop that decides when the pattern
// changes.
package ticker

import (
	"context"
	"time"
)

// Defaults for the loop.
const (
	// DefaultInterval is the time between pattern changes.
	DefaultInterval = 3000 * time.Millisecond
	// DefaultTick is the time the loop sleeps between polls.
	DefaultTick = 50 * time.Millisecond
)

// Clock is a monotonic clock. Now returns the time elapsed since an
// arbitrary origin.
type Clock interface {
	Now() time.Duration
	Sleep(d time.Duration)
}

type systemClock struct{ start time.Time }

// SystemClock returns a Clock backed by the time package. Its origin is the
// moment SystemClock is called.
func SystemClock() Clock {
	return systemClock{start: time.Now()}
}

func (c systemClock) Now() time.Duration    { return time.Since(c.start) }
func (c systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Scheduler tracks the time of the last pattern change.
type Scheduler struct {
	// Interval is the minimum time between two changes.
	Interval time.Duration
	last     time.Duration
}

// NewScheduler creates a scheduler that was last triggered at now.
func NewScheduler(interval time.Duration, now time.Duration) *Scheduler {
	return &Scheduler{Interval: interval, last: now}
}

// Reset marks now as the time of the last change.
func (s *Scheduler) Reset(now time.Duration) {
	s.last = now
}

// Last returns the time of the last change.
func (s *Scheduler) Last() time.Duration {
	return s.last
}

// Due reports whether at least Interval has passed since the last change. If
// it has, now becomes the time of the last change.
func (s *Scheduler) Due(now time.Duration) bool {
	if now-s.last < s.Interval {
		return false
	}
	s.last = now
	return true
}

// Loop polls a scheduler until its context is canceled.
type Loop struct {
	Clock     Clock
	Scheduler *Scheduler
	// Tick is how long the loop sleeps after every poll.
	Tick time.Duration
	// OnChange is called with the current time whenever the scheduler is due.
	OnChange func(now time.Duration)
}

// Run runs the loop. It returns ctx.Err() once the context is canceled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.Poll()
		l.Clock.Sleep(l.Tick)
	}
}

// Poll runs one iteration of the loop without sleeping. It returns true if
// OnChange was called.
func (l *Loop) Poll() bool {
	now := l.Clock.Now()
	if !l.Scheduler.Due(now) {
		return false
	}
	l.OnChange(now)
	return true
}
