package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced clock. Callbacks run synchronously inside Advance,
// in due-time order, with the fake's lock released.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*fakeTimer
}

type fakeTimer struct {
	fake    *Fake
	seq     uint64
	when    time.Time
	period  time.Duration
	fn      func()
	stopped bool
}

// NewFake returns a fake clock reading now.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	return f.schedule(d, 0, fn)
}

func (f *Fake) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		panic("clock: non-positive interval for Every")
	}
	return f.schedule(d, d, fn)
}

func (f *Fake) schedule(d, period time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	t := &fakeTimer{
		fake:   f,
		seq:    f.seq,
		when:   f.now.Add(d),
		period: period,
		fn:     fn,
	}
	f.timers = append(f.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every timer that comes due on the way.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		t := f.nextDue(target)
		if t == nil {
			f.now = target
			f.mu.Unlock()
			return
		}

		f.now = t.when
		if t.period > 0 {
			t.when = t.when.Add(t.period)
		} else {
			t.stopped = true
			f.removeLocked(t)
		}
		fn := t.fn
		f.mu.Unlock()

		fn()
	}
}

// Pending returns the number of live timers, one-shot and recurring.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

// Recurring returns the number of live recurring timers.
func (f *Fake) Recurring() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, t := range f.timers {
		if t.period > 0 {
			n++
		}
	}
	return n
}

func (f *Fake) nextDue(target time.Time) *fakeTimer {
	var next *fakeTimer
	for _, t := range f.timers {
		if t.when.After(target) {
			continue
		}
		if next == nil || t.when.Before(next.when) || (t.when.Equal(next.when) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (f *Fake) removeLocked(target *fakeTimer) {
	kept := f.timers[:0]
	for _, t := range f.timers {
		if t != target {
			kept = append(kept, t)
		}
	}
	f.timers = kept
}

func (t *fakeTimer) Stop() bool {
	t.fake.mu.Lock()
	defer t.fake.mu.Unlock()

	if t.stopped {
		return false
	}
	t.stopped = true
	t.fake.removeLocked(t)
	return true
}
