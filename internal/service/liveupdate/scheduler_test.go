package liveupdate

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/portal-live/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
)

const testInterval = 30 * time.Second

type schedulerCounts struct {
	starts int
	ticks  int
}

func newTestScheduler() (*Scheduler, *clock.Fake, *schedulerCounts) {
	clk := clock.NewFake(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	counts := &schedulerCounts{}
	s := NewScheduler(clk, testInterval,
		func() { counts.starts++ },
		func() { counts.ticks++ },
	)
	return s, clk, counts
}

func TestScheduler_StartRunsImmediatelyAndTicks(t *testing.T) {
	s, clk, counts := newTestScheduler()

	s.Start()
	assert.Equal(t, 1, counts.starts)
	assert.Equal(t, 0, counts.ticks)
	assert.Equal(t, StateRunning, s.State())

	clk.Advance(testInterval - time.Second)
	assert.Equal(t, 0, counts.ticks)

	clk.Advance(time.Second)
	assert.Equal(t, 1, counts.ticks)

	clk.Advance(3 * testInterval)
	assert.Equal(t, 4, counts.ticks)
}

func TestScheduler_DoubleStartKeepsOneTimer(t *testing.T) {
	s, clk, counts := newTestScheduler()

	s.Start()
	s.Start()

	assert.Equal(t, 1, clk.Recurring())
	assert.Equal(t, 2, counts.starts)

	for i := 0; i < 5; i++ {
		clk.Advance(testInterval)
	}
	assert.Equal(t, 5, counts.ticks)
	assert.Equal(t, uint64(5), s.Status().Ticks)
}

func TestScheduler_StopClearsTimer(t *testing.T) {
	s, clk, counts := newTestScheduler()

	s.Start()
	s.Stop()
	s.Stop()

	assert.Equal(t, StateStopped, s.State())
	assert.Equal(t, 0, clk.Pending())

	clk.Advance(10 * testInterval)
	assert.Equal(t, 0, counts.ticks)
}

func TestScheduler_StopBeforeStartIsNoop(t *testing.T) {
	s, _, counts := newTestScheduler()

	s.Stop()

	assert.Equal(t, StateStopped, s.State())
	assert.Equal(t, 0, counts.starts)
}

func TestScheduler_IgnoresStrayFires(t *testing.T) {
	s, _, counts := newTestScheduler()

	s.Start()
	s.Stop()
	s.fire(1)
	assert.Equal(t, 0, counts.ticks, "fire after stop")

	s.Start()
	s.fire(1)
	assert.Equal(t, 0, counts.ticks, "fire from an earlier generation")

	s.fire(2)
	assert.Equal(t, 1, counts.ticks)
}

func TestScheduler_RestartFromTick(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	ticks := 0

	var s *Scheduler
	s = NewScheduler(clk, testInterval, func() {}, func() {
		ticks++
		s.Start()
	})

	s.Start()
	clk.Advance(testInterval)
	clk.Advance(testInterval)

	assert.Equal(t, 2, ticks)
	assert.Equal(t, 1, clk.Recurring())
	assert.Equal(t, uint64(3), s.Status().Generation)
}

func TestScheduler_Status(t *testing.T) {
	s, _, _ := newTestScheduler()

	assert.Equal(t, SchedulerStatus{State: StateStopped, Interval: testInterval}, s.Status())

	s.Start()
	status := s.Status()
	assert.Equal(t, StateRunning, status.State)
	assert.True(t, status.Active)
	assert.Equal(t, uint64(1), status.Generation)
}
