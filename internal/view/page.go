package view

// DefaultCards are the dashboard cards of the employee portal home page.
var DefaultCards = []string{"hours", "leave", "requests", "attendance"}

// NewEmployeeDashboard builds the employee portal dashboard as the server renders it:
// the stat widgets, the recent attendance table, the update indicator, the main
// container, one dashboard card per name and the CSRF token field.
func NewEmployeeDashboard(cards []string, csrfToken string) *Document {
	d := NewDocument()

	d.AddElement(MainContainerID, "container-fluid")
	for _, id := range []string{
		HoursWorkedID,
		LeaveBalanceID,
		PendingRequestsID,
		AttendancePercentageID,
		SickLeaveRemainingID,
		PersonalLeaveRemainingID,
		AttendanceTableBodyID,
		UpdateIndicatorID,
	} {
		d.AddElement(id)
	}
	d.SetOpacity(UpdateIndicatorID, 0.5)

	for _, name := range cards {
		d.AddElement(CardID(name), DashboardCardClass)
	}

	if csrfToken != "" {
		d.SetInput(CSRFInputName, csrfToken)
	}
	return d
}

// CardID returns the element id of a named dashboard card.
func CardID(name string) string {
	return "card-" + name
}
