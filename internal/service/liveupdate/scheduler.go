package liveupdate

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/portal-live/internal/pkg/clock"
)

// SchedulerState is either stopped or running with exactly one live timer.
type SchedulerState string

const (
	StateStopped SchedulerState = "stopped"
	StateRunning SchedulerState = "running"
)

// SchedulerStatus is a point-in-time view of the scheduler.
type SchedulerStatus struct {
	State      SchedulerState `json:"state"`
	Active     bool           `json:"active"`
	Generation uint64         `json:"generation"`
	Ticks      uint64         `json:"ticks"`
	Interval   time.Duration  `json:"interval"`
}

// Scheduler owns the recurring poll timer. Start and Stop are its only mutators and
// both are idempotent. Every armed timer carries the generation it was armed in, so
// a fire from a cleared timer is recognised and dropped.
type Scheduler struct {
	clock    clock.Clock
	interval time.Duration
	onStart  func()
	onTick   func()

	mu         sync.Mutex
	active     bool
	handle     clock.Timer
	generation uint64
	ticks      uint64
}

// NewScheduler creates a stopped scheduler. onStart runs once per Start, onTick once per
// live fire; both run outside the scheduler lock and may call Start or Stop.
func NewScheduler(clk clock.Clock, interval time.Duration, onStart, onTick func()) *Scheduler {
	return &Scheduler{
		clock:    clk,
		interval: interval,
		onStart:  onStart,
		onTick:   onTick,
	}
}

// Start clears any existing timer, marks the scheduler active, runs onStart and
// arms a new recurring timer.
func (s *Scheduler) Start() {
	s.mu.Lock()
	s.clearLocked()
	s.active = true
	s.generation++
	gen := s.generation
	s.handle = s.clock.Every(s.interval, func() { s.fire(gen) })
	s.mu.Unlock()

	slog.Debug("Live updates started", "interval", s.interval, "generation", gen)
	s.onStart()
}

// Stop marks the scheduler inactive and clears the timer if one is armed.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasActive := s.active
	s.active = false
	s.clearLocked()
	if wasActive {
		slog.Debug("Live updates stopped", "generation", s.generation)
	}
}

// State reports whether a timer is armed.
func (s *Scheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Status returns a snapshot of the scheduler.
func (s *Scheduler) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SchedulerStatus{
		State:      s.stateLocked(),
		Active:     s.active,
		Generation: s.generation,
		Ticks:      s.ticks,
		Interval:   s.interval,
	}
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	live := s.active && gen == s.generation
	if live {
		s.ticks++
	}
	s.mu.Unlock()

	if !live {
		slog.Debug("Ignoring stray live update tick", "generation", gen)
		return
	}
	s.onTick()
}

func (s *Scheduler) clearLocked() {
	if s.handle != nil {
		s.handle.Stop()
		s.handle = nil
	}
}

func (s *Scheduler) stateLocked() SchedulerState {
	if s.active && s.handle != nil {
		return StateRunning
	}
	return StateStopped
}
