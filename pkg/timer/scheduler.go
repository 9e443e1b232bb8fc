// Package timer turns one-shot and periodic timers into due-flags that the main loop polls.
package timer

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Tag names a logical timer consumer. Each tag owns exactly one due-flag.
type Tag int

const (
	Blink      Tag = iota // screen blink and hold phases
	Sample                // spacing of raw reads inside a measurement burst
	Background            // periodic background sampler while the result is shown
	numTags
)

func (t Tag) String() string {
	switch t {
	case Blink:
		return "blink"
	case Sample:
		return "sample"
	case Background:
		return "background"
	default:
		return fmt.Sprintf("tag(%d)", int(t))
	}
}

func (t Tag) valid() bool {
	return t >= 0 && t < numTags
}

// DefaultPollInterval is how often Wait re-checks a due-flag.
const DefaultPollInterval = time.Millisecond

// Scheduler arms timers whose expiry only sets a due-flag. Nothing blocks on a timer
// except Wait, which is bounded.
//
// Arming a tag supersedes whatever was armed on it before: the previous timer is
// stopped, its late expiry is ignored and the flag starts cleared.
type Scheduler struct {
	clock Clock
	poll  time.Duration

	due [numTags]atomic.Bool
	gen [numTags]atomic.Uint64

	mu     sync.Mutex
	timers [numTags]Timer
}

// NewScheduler creates a scheduler on clock. A non-positive poll uses DefaultPollInterval.
func NewScheduler(clock Clock, poll time.Duration) *Scheduler {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Scheduler{clock: clock, poll: poll}
}

// Clock returns the time source of the scheduler.
func (s *Scheduler) Clock() Clock {
	return s.clock
}

// ScheduleOnce arms tag to become due after delay.
func (s *Scheduler) ScheduleOnce(delay time.Duration, tag Tag) {
	if !tag.valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.rearm(tag)
	s.timers[tag] = s.clock.AfterFunc(delay, func() {
		if s.gen[tag].Load() == g {
			s.due[tag].Store(true)
		}
	})
}

// SchedulePeriodic arms tag to become due every interval until Cancel or another
// Schedule call on the same tag. Deadlines do not drift with callback latency.
func (s *Scheduler) SchedulePeriodic(interval time.Duration, tag Tag) {
	if !tag.valid() || interval <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.rearm(tag)
	s.armPeriodic(tag, g, s.clock.Now()+interval, interval)
}

// armPeriodic arms the next expiry of a periodic tag. The caller holds s.mu.
func (s *Scheduler) armPeriodic(tag Tag, g uint64, at, interval time.Duration) {
	s.timers[tag] = s.clock.AfterFunc(at-s.clock.Now(), func() {
		if s.gen[tag].Load() != g {
			return
		}
		s.due[tag].Store(true)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen[tag].Load() == g {
			s.armPeriodic(tag, g, at+interval, interval)
		}
	})
}

// rearm invalidates and stops the current timer of tag and clears its flag.
// The caller holds s.mu.
func (s *Scheduler) rearm(tag Tag) uint64 {
	g := s.gen[tag].Add(1)
	if s.timers[tag] != nil {
		s.timers[tag].Stop()
		s.timers[tag] = nil
	}
	s.due[tag].Store(false)
	return g
}

// Cancel stops tag and clears its flag.
func (s *Scheduler) Cancel(tag Tag) {
	if !tag.valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rearm(tag)
}

// Due reports whether tag has expired and was not yet consumed.
func (s *Scheduler) Due(tag Tag) bool {
	return tag.valid() && s.due[tag].Load()
}

// Clear drops a pending expiry of tag.
func (s *Scheduler) Clear(tag Tag) {
	if tag.valid() {
		s.due[tag].Store(false)
	}
}

// Consume clears the flag of tag and reports whether it was set.
func (s *Scheduler) Consume(tag Tag) bool {
	return tag.valid() && s.due[tag].CompareAndSwap(true, false)
}

// Wait blocks until tag is due or limit has elapsed, and consumes the flag.
// It returns false when the limit ran out first.
func (s *Scheduler) Wait(tag Tag, limit time.Duration) bool {
	if !tag.valid() {
		return false
	}
	deadline := s.clock.Now() + limit
	for {
		if s.Consume(tag) {
			return true
		}
		if s.clock.Now() >= deadline {
			return false
		}
		s.clock.Sleep(s.poll)
	}
}

// Delay arms tag once and waits for it, bounded by limit.
func (s *Scheduler) Delay(d time.Duration, tag Tag, limit time.Duration) bool {
	s.ScheduleOnce(d, tag)
	return s.Wait(tag, limit)
}
