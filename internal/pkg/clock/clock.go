package clock

import (
	"sync"
	"time"
)

// Timer is a pending one-shot or recurring callback.
type Timer interface {
	// Stop prevents further fires. It reports whether the call stopped the timer,
	// false if it had already been stopped or had already fired (one-shot).
	Stop() bool
}

// Clock is the source of time and timers for the live-update client.
type Clock interface {
	Now() time.Time
	// AfterFunc calls fn once after d.
	AfterFunc(d time.Duration, fn func()) Timer
	// Every calls fn each time d elapses until the returned Timer is stopped.
	Every(d time.Duration, fn func()) Timer
}

// Real is the wall clock.
type Real struct{}

// New returns the wall clock.
func New() Clock {
	return Real{}
}

func (Real) Now() time.Time {
	return time.Now()
}

func (Real) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

func (Real) Every(d time.Duration, fn func()) Timer {
	t := &ticker{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.run(fn)
	return t
}

type ticker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

// run may still deliver one fire that raced with Stop; callers guard against it.
func (t *ticker) run(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			fn()
		}
	}
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}
