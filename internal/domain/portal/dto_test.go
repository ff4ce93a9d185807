package portal

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/cmlabs-hris/portal-live/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string {
	return &s
}

func TestProfileForm_Validate(t *testing.T) {
	tests := []struct {
		name       string
		form       ProfileForm
		wantFields []string
	}{
		{name: "phone only", form: ProfileForm{Phone: ptr("+62 812-3456-7890")}},
		{name: "address only", form: ProfileForm{Address: ptr("Jl. Sudirman No. 1, Jakarta")}},
		{name: "cleared phone", form: ProfileForm{Phone: ptr("")}},
		{name: "address at limit", form: ProfileForm{Address: ptr(strings.Repeat("a", MaxAddressLength))}},
		{name: "nothing provided", form: ProfileForm{}, wantFields: []string{"profile"}},
		{name: "phone too long", form: ProfileForm{Phone: ptr(strings.Repeat("1", MaxPhoneLength+1))}, wantFields: []string{"phone"}},
		{name: "free text phone", form: ProfileForm{Phone: ptr("ext. 204")}},
		{name: "padded phone at limit", form: ProfileForm{Phone: ptr("  " + strings.Repeat("1", MaxPhoneLength) + "\n")}},
		{name: "padded address at limit", form: ProfileForm{Address: ptr(" " + strings.Repeat("a", MaxAddressLength) + " ")}},
		{name: "long phone after trim", form: ProfileForm{Phone: ptr(" " + strings.Repeat("1", MaxPhoneLength+1) + " ")}, wantFields: []string{"phone"}},
		{
			name:       "both invalid",
			form:       ProfileForm{Phone: ptr(strings.Repeat("9", MaxPhoneLength+1)), Address: ptr(strings.Repeat("a", MaxAddressLength+1))},
			wantFields: []string{"phone", "address"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			got := errs.ToMap()
			assert.Len(t, got, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.Contains(t, got, field)
			}
		})
	}
}

func TestProfileForm_Fields(t *testing.T) {
	assert.Empty(t, ProfileForm{}.Fields())
	assert.Equal(t, map[string]string{"phone": "0812", "address": ""},
		ProfileForm{Phone: ptr("0812"), Address: ptr("")}.Fields())
}

func TestNewMultipartProfilePayload(t *testing.T) {
	payload, err := NewMultipartProfilePayload(map[string]string{
		"phone":   "081234567890",
		"address": "Jl. Merdeka 17",
	})
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(payload.ContentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	r := multipart.NewReader(bytes.NewReader(payload.Body), params["boundary"])
	var names []string
	values := map[string]string{}
	for {
		part, err := r.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(part)
		require.NoError(t, err)
		names = append(names, part.FormName())
		values[part.FormName()] = string(data)
	}

	assert.Equal(t, []string{"address", "phone"}, names)
	assert.Equal(t, "081234567890", values["phone"])
	assert.Equal(t, "Jl. Merdeka 17", values["address"])
}
