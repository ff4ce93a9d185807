package portal

// AttendanceStatus is the status code the portal attaches to an attendance day.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusLate    AttendanceStatus = "late"
	StatusAbsent  AttendanceStatus = "absent"
	StatusHalfDay AttendanceStatus = "half_day"
)

// DashboardSnapshot is the payload of the dashboard-stats endpoint.
// It is never retained between polls; only the page reflects the latest values.
type DashboardSnapshot struct {
	HoursWorked            float64 `json:"hours_worked"`
	LeaveBalance           int     `json:"leave_balance"`
	PendingRequests        int     `json:"pending_requests"`
	AttendancePercentage   float64 `json:"attendance_percentage"`
	SickLeaveRemaining     int     `json:"sick_leave_remaining"`
	PersonalLeaveRemaining int     `json:"personal_leave_remaining"`

	// Set by the portal next to zeroed values when it could not compute the stats.
	Error string `json:"error,omitempty"`
}

// AttendanceRecord is a single day in the recent-attendance feed.
type AttendanceRecord struct {
	Date       string           `json:"date"`      // Format: "2006-01-02"
	ClockIn    *string          `json:"clock_in"`  // Format: "15:04", null when missing
	ClockOut   *string          `json:"clock_out"` // Format: "15:04", null when missing
	TotalHours float64          `json:"total_hours"`
	Status     AttendanceStatus `json:"status"`
}
