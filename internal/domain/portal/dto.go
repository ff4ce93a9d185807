package portal

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"

	"github.com/cmlabs-hris/portal-live/internal/pkg/validator"
)

// Field limits enforced by the portal's profile form.
const (
	MaxPhoneLength   = 20
	MaxAddressLength = 500
)

// ========== RECENT ATTENDANCE ==========

// RecentAttendanceResponse wraps the recent-attendance feed.
type RecentAttendanceResponse struct {
	AttendanceRecords []AttendanceRecord `json:"attendance_records"`
	Error             string             `json:"error,omitempty"`
}

// ========== PROFILE UPDATE ==========

// ProfileUpdateResponse is what the portal answers to a profile submission,
// whatever the HTTP status.
type ProfileUpdateResponse struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	UpdatedFields []string `json:"updated_fields,omitempty"`
}

// ProfilePayload is a pre-assembled form body. Its content is opaque to the client.
type ProfilePayload struct {
	ContentType string
	Body        []byte
}

// ProfileForm holds the editable profile fields the portal accepts.
type ProfileForm struct {
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (f *ProfileForm) Validate() error {
	var errs validator.ValidationErrors

	if f.Phone == nil && f.Address == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "profile",
			Message: "at least one of phone or address is required",
		})
	}

	// The portal trims both fields before checking their length and checks nothing else.
	if f.Phone != nil && validator.ExceedsLength(strings.TrimSpace(*f.Phone), MaxPhoneLength) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: fmt.Sprintf("phone must not exceed %d characters", MaxPhoneLength),
		})
	}

	if f.Address != nil && validator.ExceedsLength(strings.TrimSpace(*f.Address), MaxAddressLength) {
		errs = append(errs, validator.ValidationError{
			Field:   "address",
			Message: fmt.Sprintf("address must not exceed %d characters", MaxAddressLength),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Fields returns the form as name/value pairs, skipping fields that were not provided.
func (f ProfileForm) Fields() map[string]string {
	fields := make(map[string]string)
	if f.Phone != nil {
		fields["phone"] = *f.Phone
	}
	if f.Address != nil {
		fields["address"] = *f.Address
	}
	return fields
}

// NewMultipartProfilePayload encodes fields as a multipart/form-data body.
// Fields are written in name order so the body is deterministic.
func NewMultipartProfilePayload(fields map[string]string) (ProfilePayload, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range names {
		if err := w.WriteField(name, fields[name]); err != nil {
			return ProfilePayload{}, fmt.Errorf("failed to write form field %q: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return ProfilePayload{}, fmt.Errorf("failed to close form body: %w", err)
	}

	return ProfilePayload{
		ContentType: w.FormDataContentType(),
		Body:        buf.Bytes(),
	}, nil
}
