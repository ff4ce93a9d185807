package portal

import "errors"

// Portal client errors
var (
	ErrEmptyBaseURL   = errors.New("portal base URL is required")
	ErrDecodeResponse = errors.New("failed to decode portal response")
	ErrEmptyPayload   = errors.New("portal returned an empty payload")
)

// Page errors
var (
	ErrCardNotFound       = errors.New("dashboard card not found")
	ErrAlertNotFound      = errors.New("alert not found")
	ErrProfileNotUpdated  = errors.New("portal did not update the profile")
	ErrInvalidToken       = errors.New("invalid token")
	ErrStreamNotSupported = errors.New("streaming not supported")
)
