package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestExceedsLength(t *testing.T) {
	cases := []struct {
		input string
		max   int
		want  bool
	}{
		{"", 0, false},
		{"12345", 5, false},
		{"123456", 5, true},
		{"Jl. Sudirman No. 1", 500, false},
		{"ééééé", 5, false},
		{"éééééé", 5, true},
	}
	for _, c := range cases {
		got := ExceedsLength(c.input, c.max)
		if got != c.want {
			t.Errorf("ExceedsLength(%q, %d) = %v, want %v", c.input, c.max, got, c.want)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"phone", "address"}
	if !IsInSlice("phone", slice) {
		t.Error("IsInSlice(phone) = false, want true")
	}
	if IsInSlice("email", slice) {
		t.Error("IsInSlice(email) = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "phone", Message: "phone is invalid"},
		{Field: "address", Message: "address is too long"},
	}
	want := "phone: phone is invalid; address: address is too long"
	if got := errs.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "phone", Message: "phone is invalid"},
		{Field: "address", Message: "address is too long"},
	}
	m := errs.ToMap()
	if len(m) != 2 || m["phone"] != "phone is invalid" || m["address"] != "address is too long" {
		t.Errorf("ToMap() = %v", m)
	}
}
