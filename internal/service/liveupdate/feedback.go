package liveupdate

import (
	"github.com/cmlabs-hris/portal-live/internal/view"
	"github.com/google/uuid"
)

const (
	timeOfDayLayout         = "3:04:05 PM"
	indicatorVisibleOpacity = 1.0
	indicatorRestingOpacity = 0.5
)

// highlight flashes an element: the marker class is added now and removed after
// the highlight duration.
func (l *LiveUpdates) highlight(id string) {
	l.view.AddClass(id, view.UpdatedClass)
	l.clock.AfterFunc(l.cfg.HighlightDuration, func() {
		l.view.RemoveClass(id, view.UpdatedClass)
	})
}

// showUpdateIndicator stamps the indicator with message and the local time, shows it
// fully and dims it again after the fade delay.
func (l *LiveUpdates) showUpdateIndicator(message string) {
	text := message + " - " + l.clock.Now().Format(timeOfDayLayout)
	if !l.view.SetText(view.UpdateIndicatorID, text) {
		return
	}
	l.view.SetOpacity(view.UpdateIndicatorID, indicatorVisibleOpacity)
	l.clock.AfterFunc(l.cfg.IndicatorFadeDelay, func() {
		l.view.SetOpacity(view.UpdateIndicatorID, indicatorRestingOpacity)
	})
}

// ShowAlert prepends a dismissible banner to the main container, or to the page root
// when there is none, and removes it after the alert TTL. It returns the alert id.
func (l *LiveUpdates) ShowAlert(kind view.AlertKind, message string) string {
	alert := view.Alert{
		ID:      uuid.NewString(),
		Kind:    kind,
		Message: message,
	}

	container := view.MainContainerID
	if !l.view.Has(container) {
		container = view.RootID
	}
	l.view.PrependAlert(container, alert)

	l.clock.AfterFunc(l.cfg.AlertTTL, func() {
		l.view.RemoveAlert(alert.ID)
	})
	return alert.ID
}

// DismissAlert removes an alert before its TTL, as the close button does.
// It reports whether the alert was still showing.
func (l *LiveUpdates) DismissAlert(id string) bool {
	return l.view.RemoveAlert(id)
}
