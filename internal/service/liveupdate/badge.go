package liveupdate

import "github.com/cmlabs-hris/portal-live/internal/domain/portal"

// Badge is the visual representation of an attendance status.
type Badge struct {
	Class string
	Label string
}

// HTML renders the badge markup.
func (b Badge) HTML() string {
	return `<span class="` + b.Class + `">` + b.Label + `</span>`
}

var statusBadges = map[portal.AttendanceStatus]Badge{
	portal.StatusPresent: {Class: "badge bg-success", Label: "Present"},
	portal.StatusLate:    {Class: "badge bg-warning", Label: "Late"},
	portal.StatusAbsent:  {Class: "badge bg-danger", Label: "Absent"},
	portal.StatusHalfDay: {Class: "badge bg-info", Label: "Half Day"},
}

// UnknownBadge is shown for any status the portal may add later.
var UnknownBadge = Badge{Class: "badge bg-secondary", Label: "Unknown"}

// StatusBadge maps a status to its badge. Unrecognised values get UnknownBadge.
func StatusBadge(status portal.AttendanceStatus) Badge {
	if b, ok := statusBadges[status]; ok {
		return b
	}
	return UnknownBadge
}
