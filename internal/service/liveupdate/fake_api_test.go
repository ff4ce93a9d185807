package liveupdate

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/portal-live/internal/domain/portal"
)

// fakeAPI counts calls and serves canned payloads.
type fakeAPI struct {
	mu sync.Mutex

	snapshot      *portal.DashboardSnapshot
	statsErr      error
	statsGate     chan struct{}
	records       []portal.AttendanceRecord
	attendanceErr error
	profileResp   *portal.ProfileUpdateResponse
	profileErr    error

	statsCalls      int
	attendanceCalls int
	profileTokens   []string
	profileBodies   []portal.ProfilePayload
}

func (f *fakeAPI) DashboardStats(ctx context.Context) (*portal.DashboardSnapshot, error) {
	f.mu.Lock()
	f.statsCalls++
	gate := f.statsGate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	snap := *f.snapshot
	return &snap, nil
}

func (f *fakeAPI) RecentAttendance(ctx context.Context) ([]portal.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attendanceCalls++
	if f.attendanceErr != nil {
		return nil, f.attendanceErr
	}
	return append([]portal.AttendanceRecord(nil), f.records...), nil
}

func (f *fakeAPI) UpdateProfile(ctx context.Context, payload portal.ProfilePayload, csrfToken string) (*portal.ProfileUpdateResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileTokens = append(f.profileTokens, csrfToken)
	f.profileBodies = append(f.profileBodies, payload)
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profileResp, nil
}

func (f *fakeAPI) set(fn func(f *fakeAPI)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeAPI) calls() (stats, attendance int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statsCalls, f.attendanceCalls
}

func strPtr(s string) *string {
	return &s
}

func sampleSnapshot() *portal.DashboardSnapshot {
	return &portal.DashboardSnapshot{
		HoursWorked:            37.25,
		LeaveBalance:           12,
		PendingRequests:        2,
		AttendancePercentage:   92.5,
		SickLeaveRemaining:     5,
		PersonalLeaveRemaining: 3,
	}
}

func sampleRecords() []portal.AttendanceRecord {
	return []portal.AttendanceRecord{
		{Date: "2025-03-07", ClockIn: strPtr("09:20"), ClockOut: nil, TotalHours: 0, Status: portal.StatusLate},
		{Date: "2025-03-06", ClockIn: strPtr("08:55"), ClockOut: strPtr("17:05"), TotalHours: 8.2, Status: portal.StatusPresent},
	}
}
