package clock

import (
	"sync"
	"time"

	"github.com/xvierd/prep-cli/internal/ports"
)

// Fake is a manually advanced clock for tests. Callbacks run synchronously
// inside Advance, in due-time order and then in scheduling order.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*fakeTimer
}

// Ensure Fake implements ports.Clock.
var _ ports.Clock = (*Fake)(nil)

type fakeTimer struct {
	clock    *Fake
	seq      uint64
	due      time.Time
	interval time.Duration
	fn       func()
}

func (t *fakeTimer) Cancel() {
	t.clock.remove(t)
}

// NewFake creates a fake clock set to start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// ScheduleRepeating registers fn to fire every interval.
func (f *Fake) ScheduleRepeating(interval time.Duration, fn func()) ports.Handle {
	return f.add(interval, interval, fn)
}

// ScheduleOnce registers fn to fire once after delay.
func (f *Fake) ScheduleOnce(delay time.Duration, fn func()) ports.Handle {
	return f.add(delay, 0, fn)
}

func (f *Fake) add(delay, interval time.Duration, fn func()) *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	t := &fakeTimer{
		clock:    f,
		seq:      f.seq,
		due:      f.now.Add(delay),
		interval: interval,
		fn:       fn,
	}
	f.timers = append(f.timers, t)
	return t
}

func (f *Fake) remove(t *fakeTimer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeLocked(t)
}

// Advance moves the clock forward by d, firing every callback that falls due.
// Callbacks may schedule or cancel timers; new timers due within d also fire.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		next := f.nextDue(target)
		if next == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		f.now = next.due
		if next.interval > 0 {
			next.due = next.due.Add(next.interval)
		} else {
			f.removeLocked(next)
		}
		fn := next.fn
		f.mu.Unlock()

		fn()
	}
}

func (f *Fake) nextDue(target time.Time) *fakeTimer {
	var next *fakeTimer
	for _, t := range f.timers {
		if t.due.After(target) {
			continue
		}
		if next == nil || t.due.Before(next.due) || (t.due.Equal(next.due) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (f *Fake) removeLocked(t *fakeTimer) {
	for i, other := range f.timers {
		if other == t {
			f.timers = append(f.timers[:i], f.timers[i+1:]...)
			return
		}
	}
}

// Pending returns the number of timers that have not fired or been cancelled.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}
