package timer

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the callback
	// already ran or the timer was already stopped.
	Stop() bool
}

// Clock is the time source of the instrument. Now is monotonic and measured from the
// moment the clock was created, like the microsecond counter of the board.
type Clock interface {
	Now() time.Duration
	AfterFunc(d time.Duration, f func()) Timer
	Sleep(d time.Duration)
}

// System returns a Clock backed by the runtime timers.
func System() Clock {
	return &systemClock{start: time.Now()}
}

type systemClock struct {
	start time.Time
}

func (c *systemClock) Now() time.Duration {
	return time.Since(c.start)
}

func (c *systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (c *systemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Fake is a manually driven Clock for tests and step-by-step simulation.
// Time moves only through Advance or Sleep; due callbacks run synchronously on the
// goroutine that moves the clock, in deadline order.
type Fake struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*fakeTimer
	sleeps []time.Duration
}

var _ Clock = (*Fake)(nil)

type fakeTimer struct {
	clock *Fake
	at    time.Duration
	seq   uint64
	f     func()
	done  bool
}

// NewFake creates a fake clock starting at start.
func NewFake(start time.Duration) *Fake {
	return &Fake{now: start}
}

// Now returns the current fake time.
func (c *Fake) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f to run once the clock has advanced by d.
func (c *Fake) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &fakeTimer{clock: c, at: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Sleep records d and advances the clock by it.
func (c *Fake) Sleep(d time.Duration) {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.mu.Unlock()
	c.Advance(d)
}

// Sleeps returns every duration passed to Sleep, in call order.
func (c *Fake) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (c *Fake) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Advance moves the clock forward by d, running every callback that falls due.
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	end := c.now + d
	for {
		t := c.popDue(end)
		if t == nil {
			break
		}
		if t.at > c.now {
			c.now = t.at
		}
		c.mu.Unlock()
		t.f()
		c.mu.Lock()
	}
	if end > c.now {
		c.now = end
	}
	c.mu.Unlock()
}

// popDue removes and returns the earliest timer due at or before end.
// The caller holds c.mu.
func (c *Fake) popDue(end time.Duration) *fakeTimer {
	if len(c.timers) == 0 {
		return nil
	}
	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].at != c.timers[j].at {
			return c.timers[i].at < c.timers[j].at
		}
		return c.timers[i].seq < c.timers[j].seq
	})
	t := c.timers[0]
	if t.at > end {
		return nil
	}
	c.timers = c.timers[1:]
	t.done = true
	return t
}

func (t *fakeTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	for i, p := range c.timers {
		if p == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			break
		}
	}
	return true
}
