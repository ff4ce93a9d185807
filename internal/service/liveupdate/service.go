package liveupdate

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/portal-live/internal/domain/portal"
	"github.com/cmlabs-hris/portal-live/internal/pkg/clock"
	"github.com/cmlabs-hris/portal-live/internal/view"
)

// RefreshControlName is the control injected into every dashboard card.
const RefreshControlName = "refresh"

// Config holds the client's timings.
type Config struct {
	PollInterval       time.Duration
	HighlightDuration  time.Duration
	IndicatorFadeDelay time.Duration
	AlertTTL           time.Duration
}

// DefaultConfig returns the portal's standard timings.
func DefaultConfig() Config {
	return Config{
		PollInterval:       30 * time.Second,
		HighlightDuration:  time.Second,
		IndicatorFadeDelay: 2 * time.Second,
		AlertTTL:           5 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.HighlightDuration <= 0 {
		c.HighlightDuration = def.HighlightDuration
	}
	if c.IndicatorFadeDelay <= 0 {
		c.IndicatorFadeDelay = def.IndicatorFadeDelay
	}
	if c.AlertTTL <= 0 {
		c.AlertTTL = def.AlertTTL
	}
	return c
}

// Status is a point-in-time view of the client for diagnostics.
type Status struct {
	Scheduler SchedulerStatus `json:"scheduler"`
	Polls     []PollStatus    `json:"polls"`
}

// LiveUpdates keeps a page in sync with the employee portal. The host constructs it,
// calls Init once the page is ready and Close when the page goes away.
type LiveUpdates struct {
	api       portal.API
	view      view.Binding
	clock     clock.Clock
	cfg       Config
	scheduler *Scheduler

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	initialized bool
	closed      bool
	polls       map[Source]PollStatus
}

// New creates a client for binding. Nothing runs until Init.
func New(api portal.API, binding view.Binding, clk clock.Clock, cfg Config) *LiveUpdates {
	ctx, cancel := context.WithCancel(context.Background())
	l := &LiveUpdates{
		api:    api,
		view:   binding,
		clock:  clk,
		cfg:    cfg.withDefaults(),
		ctx:    ctx,
		cancel: cancel,
		polls:  make(map[Source]PollStatus),
	}
	l.scheduler = NewScheduler(clk, l.cfg.PollInterval, l.RefreshStats, l.tick)
	return l
}

// Init starts polling, follows page visibility and injects the card refresh controls.
// Calling it again has no effect.
func (l *LiveUpdates) Init() {
	l.mu.Lock()
	if l.initialized || l.closed {
		l.mu.Unlock()
		return
	}
	l.initialized = true
	l.mu.Unlock()

	l.scheduler.Start()
	l.view.OnVisibilityChange(l.handleVisibility)
	l.addRefreshControls()

	slog.Info("Live updates initialized", "interval", l.cfg.PollInterval)
}

// Start resumes polling. It is what a visible page triggers.
func (l *LiveUpdates) Start() {
	if l.isClosed() {
		return
	}
	l.scheduler.Start()
	// Close may have run between the check and arming the timer.
	if l.isClosed() {
		l.scheduler.Stop()
	}
}

// Stop pauses polling. Requests already in flight still complete and apply.
func (l *LiveUpdates) Stop() {
	l.scheduler.Stop()
}

// Close stops polling for good, cancels in-flight requests and waits for them.
func (l *LiveUpdates) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	l.scheduler.Stop()

	l.cancel()
	l.wg.Wait()
	slog.Info("Live updates closed")
}

// Wait blocks until every poll started so far has finished.
func (l *LiveUpdates) Wait() {
	l.wg.Wait()
}

// Status reports the scheduler state and the per-source poll history.
func (l *LiveUpdates) Status() Status {
	l.mu.Lock()
	polls := make([]PollStatus, 0, len(l.polls))
	for _, ps := range l.polls {
		polls = append(polls, ps)
	}
	l.mu.Unlock()

	sort.Slice(polls, func(i, j int) bool { return polls[i].Source < polls[j].Source })
	return Status{
		Scheduler: l.scheduler.Status(),
		Polls:     polls,
	}
}

func (l *LiveUpdates) handleVisibility(hidden bool) {
	if hidden {
		l.Stop()
		return
	}
	l.Start()
}

func (l *LiveUpdates) addRefreshControls() {
	for _, id := range l.view.ElementsWithClass(view.DashboardCardClass) {
		l.view.AttachControl(id, view.Control{
			Name:    RefreshControlName,
			Title:   "Refresh Data",
			OnClick: l.RefreshStats,
		})
	}
}

func (l *LiveUpdates) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
