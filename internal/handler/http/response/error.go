package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/portal-live/internal/domain/portal"
	"github.com/cmlabs-hris/portal-live/internal/pkg/portalapi"
	"github.com/cmlabs-hris/portal-live/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Portal errors carry the upstream status
	var apiErr *portalapi.APIError
	if errors.As(err, &apiErr) {
		BadGateway(w, apiErr.Error())
		return
	}

	switch {
	// Page errors
	case errors.Is(err, portal.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, portal.ErrCardNotFound):
		NotFound(w, "Dashboard card not found")
	case errors.Is(err, portal.ErrAlertNotFound):
		NotFound(w, "Alert not found")
	case errors.Is(err, portal.ErrStreamNotSupported):
		InternalServerError(w, "Streaming not supported")

	// Portal client errors
	case errors.Is(err, portal.ErrProfileNotUpdated):
		BadGateway(w, "Portal did not update the profile")
	case errors.Is(err, portal.ErrDecodeResponse), errors.Is(err, portal.ErrEmptyPayload):
		BadGateway(w, "Unexpected response from the portal")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
