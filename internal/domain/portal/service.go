package portal

import "context"

// API is the employee-portal backend as seen by the live-update client.
type API interface {
	// DashboardStats fetches the latest dashboard snapshot.
	DashboardStats(ctx context.Context) (*DashboardSnapshot, error)

	// RecentAttendance fetches the recent attendance records, newest first.
	RecentAttendance(ctx context.Context) ([]AttendanceRecord, error)

	// UpdateProfile posts a form payload guarded by csrfToken.
	// A decoded response is returned even when the portal reports failure.
	UpdateProfile(ctx context.Context, payload ProfilePayload, csrfToken string) (*ProfileUpdateResponse, error)
}
