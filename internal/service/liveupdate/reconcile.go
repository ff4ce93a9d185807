package liveupdate

import (
	"html"
	"math"
	"strconv"
	"time"

	"github.com/cmlabs-hris/portal-live/internal/domain/portal"
	"github.com/cmlabs-hris/portal-live/internal/view"
)

const (
	missingTimePlaceholder = "--"
	shortDateLayout        = "Jan 2"
)

// FieldUpdate is the text one stat widget should show.
type FieldUpdate struct {
	ElementID string
	Text      string
}

// SnapshotFields formats a snapshot into the six stat widget texts.
func SnapshotFields(s portal.DashboardSnapshot) []FieldUpdate {
	return []FieldUpdate{
		{ElementID: view.HoursWorkedID, Text: toFixed1(s.HoursWorked)},
		{ElementID: view.LeaveBalanceID, Text: strconv.Itoa(s.LeaveBalance)},
		{ElementID: view.PendingRequestsID, Text: strconv.Itoa(s.PendingRequests)},
		{ElementID: view.AttendancePercentageID, Text: toFixed1(s.AttendancePercentage) + "%"},
		{ElementID: view.SickLeaveRemainingID, Text: strconv.Itoa(s.SickLeaveRemaining)},
		{ElementID: view.PersonalLeaveRemainingID, Text: strconv.Itoa(s.PersonalLeaveRemaining)},
	}
}

// AttendanceRows renders one row per record, in input order.
func AttendanceRows(records []portal.AttendanceRecord) []view.Row {
	rows := make([]view.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, view.Row{Cells: []string{
			html.EscapeString(formatShortDate(r.Date)),
			html.EscapeString(timeOrPlaceholder(r.ClockIn)),
			html.EscapeString(timeOrPlaceholder(r.ClockOut)),
			toFixed1(r.TotalHours) + "h",
			StatusBadge(r.Status).HTML(),
		}})
	}
	return rows
}

// applySnapshot writes every bound field and flashes it, changed or not.
func (l *LiveUpdates) applySnapshot(s portal.DashboardSnapshot) {
	for _, f := range SnapshotFields(s) {
		if l.view.SetText(f.ElementID, f.Text) {
			l.highlight(f.ElementID)
		}
	}
	l.showUpdateIndicator("Dashboard updated")
}

// applyAttendance replaces the table rows. An empty feed leaves the table as it is.
func (l *LiveUpdates) applyAttendance(records []portal.AttendanceRecord) {
	if len(records) == 0 {
		return
	}
	l.view.ReplaceRows(view.AttendanceTableBodyID, AttendanceRows(records))
}

// toFixed1 formats v with one decimal the way JavaScript's toFixed(1) does: the exact
// binary value is rounded, and exact ties (only x.25 and x.75 are representable) go
// away from zero instead of to even.
func toFixed1(v float64) string {
	if q := v * 4; q == math.Trunc(q) && math.Mod(q, 2) != 0 {
		rounded := math.Floor(math.Abs(v)*10+0.5) / 10
		return strconv.FormatFloat(math.Copysign(rounded, v), 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// formatShortDate renders a calendar date as "Mar 7". Unparseable input is shown as sent.
func formatShortDate(raw string) string {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(shortDateLayout)
		}
	}
	return raw
}

func timeOrPlaceholder(t *string) string {
	if t == nil || *t == "" {
		return missingTimePlaceholder
	}
	return *t
}
