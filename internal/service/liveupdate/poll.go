package liveupdate

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/portal-live/internal/domain/portal"
)

// Source names a polled endpoint.
type Source string

const (
	SourceDashboardStats   Source = "dashboard-stats"
	SourceRecentAttendance Source = "recent-attendance"
)

// Outcome is the result of one poll: Err is nil when the payload was reconciled.
type Outcome struct {
	Source Source
	At     time.Time
	Err    error
}

// OK reports whether the poll succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// PollStatus summarises the polls of one source.
type PollStatus struct {
	Source    Source    `json:"source"`
	LastAt    time.Time `json:"last_at"`
	LastError string    `json:"last_error,omitempty"`
	Successes int       `json:"successes"`
	Failures  int       `json:"failures"`
}

// RefreshStats polls dashboard stats in the background. Used by the scheduler and by
// the card refresh controls.
func (l *LiveUpdates) RefreshStats() {
	l.spawn(func(ctx context.Context) {
		l.record(l.pollStats(ctx))
	})
}

// RefreshAttendance polls recent attendance in the background.
func (l *LiveUpdates) RefreshAttendance() {
	l.spawn(func(ctx context.Context) {
		l.record(l.pollAttendance(ctx))
	})
}

func (l *LiveUpdates) tick() {
	l.RefreshStats()
	l.RefreshAttendance()
}

func (l *LiveUpdates) pollStats(ctx context.Context) Outcome {
	snapshot, err := l.api.DashboardStats(ctx)
	switch {
	case err != nil:
		return Outcome{Source: SourceDashboardStats, At: l.clock.Now(), Err: err}
	case snapshot == nil:
		return Outcome{Source: SourceDashboardStats, At: l.clock.Now(), Err: portal.ErrEmptyPayload}
	}

	if snapshot.Error != "" {
		slog.Warn("Portal reported a dashboard stats problem", "error", snapshot.Error)
	}
	l.applySnapshot(*snapshot)
	return Outcome{Source: SourceDashboardStats, At: l.clock.Now()}
}

func (l *LiveUpdates) pollAttendance(ctx context.Context) Outcome {
	records, err := l.api.RecentAttendance(ctx)
	if err != nil {
		return Outcome{Source: SourceRecentAttendance, At: l.clock.Now(), Err: err}
	}

	l.applyAttendance(records)
	return Outcome{Source: SourceRecentAttendance, At: l.clock.Now()}
}

// record keeps the outcome for status reporting. Failures are logged and end here.
func (l *LiveUpdates) record(o Outcome) {
	if !o.OK() {
		slog.Error("Live update poll failed", "source", o.Source, "error", o.Err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	ps := l.polls[o.Source]
	ps.Source = o.Source
	ps.LastAt = o.At
	if o.OK() {
		ps.LastError = ""
		ps.Successes++
	} else {
		ps.LastError = o.Err.Error()
		ps.Failures++
	}
	l.polls[o.Source] = ps
}

// spawn runs fn on its own goroutine bound to the client's lifetime context.
// Nothing is started once the client is closed.
func (l *LiveUpdates) spawn(fn func(ctx context.Context)) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		fn(l.ctx)
	}()
}
