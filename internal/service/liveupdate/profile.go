package liveupdate

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/portal-live/internal/domain/portal"
	"github.com/cmlabs-hris/portal-live/internal/view"
)

// UpdateProfile submits a profile form with the CSRF token currently on the page and
// reports the outcome through an alert. It returns true only when the portal confirms
// the update; failures never escape as errors.
func (l *LiveUpdates) UpdateProfile(ctx context.Context, payload portal.ProfilePayload) bool {
	token := l.view.InputValue(view.CSRFInputName)

	resp, err := l.api.UpdateProfile(ctx, payload, token)
	switch {
	case err != nil:
		slog.Warn("Profile update request failed", "error", err)
		l.ShowAlert(view.AlertDanger, "Error updating profile: "+err.Error())
		return false
	case resp == nil:
		l.ShowAlert(view.AlertDanger, "Error updating profile: "+portal.ErrEmptyPayload.Error())
		return false
	case !resp.Success:
		l.ShowAlert(view.AlertDanger, resp.Message)
		return false
	}

	slog.Info("Profile updated", "fields", resp.UpdatedFields)
	l.ShowAlert(view.AlertSuccess, resp.Message)
	return true
}
