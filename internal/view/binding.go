package view

// Element identifiers the live-update client reads and writes.
const (
	HoursWorkedID            = "hours-worked"
	LeaveBalanceID           = "leave-balance"
	PendingRequestsID        = "pending-requests"
	AttendancePercentageID   = "attendance-percentage"
	SickLeaveRemainingID     = "sick-leave-remaining"
	PersonalLeaveRemainingID = "personal-leave-remaining"
	AttendanceTableBodyID    = "attendance-table-body"
	UpdateIndicatorID        = "update-indicator"
	MainContainerID          = "main-content"

	// RootID addresses the document itself, used when the main container is missing.
	RootID = ""

	DashboardCardClass = "dashboard-card"
	UpdatedClass       = "updated"
	CSRFInputName      = "csrfmiddlewaretoken"
)

// Row is one rendered table row. Cells may hold markup.
type Row struct {
	Cells []string `json:"cells"`
}

// AlertKind selects the banner style.
type AlertKind string

const (
	AlertSuccess AlertKind = "success"
	AlertDanger  AlertKind = "danger"
)

// Alert is a dismissible banner.
type Alert struct {
	ID      string    `json:"id"`
	Kind    AlertKind `json:"kind"`
	Message string    `json:"message"`
}

// Control is an action injected into an element, such as a refresh button.
type Control struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	OnClick func() `json:"-"`
}

// Binding is the capability the reconcilers need from a page. Identifiers are
// looked up on every call; a missing element turns the call into a no-op.
type Binding interface {
	Has(id string) bool
	// SetText reports whether the element existed.
	SetText(id, value string) bool
	AddClass(id, class string)
	RemoveClass(id, class string)
	SetOpacity(id string, opacity float64)
	// ReplaceRows reports whether the element existed.
	ReplaceRows(id string, rows []Row) bool
	ElementsWithClass(class string) []string
	AttachControl(id string, control Control)
	PrependAlert(containerID string, alert Alert)
	// RemoveAlert reports whether the alert was still on the page.
	RemoveAlert(alertID string) bool
	// InputValue returns the value of the named input, empty when absent.
	InputValue(name string) string
	OnVisibilityChange(fn func(hidden bool))
}
