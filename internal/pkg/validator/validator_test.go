package validator

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/apperror"
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

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // v7
		"123e4567-e89b-12d3-a456-426614174000", // v1
		"3F2504E0-4F89-41D3-9A0C-0305E82C3301", // uppercase
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"{3f2504e0-4f89-41d3-9a0c-0305e82c3301}",
		"urn:uuid:3f2504e0-4f89-41d3-9a0c-0305e82c3301",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"",
	}
	for _, id := range valid {
		if !IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = true, want false", id)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	valid := []string{"123", "0", "9876543210"}
	invalid := []string{"abc", "123a", "", "-123"}
	for _, s := range valid {
		if !IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = true, want false", s)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Errorf("IsInSlice('a') = false, want true")
	}
	if IsInSlice("d", slice) {
		t.Errorf("IsInSlice('d') = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "phone", Message: "required"},
	}
	got := errs.Error()
	want := "email: invalid; phone: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "phone", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"email": "invalid", "phone": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestValidationErrors_IsValidationKind(t *testing.T) {
	var err error = fmt.Errorf("create: %w", ValidationErrors{{Field: "name", Message: "required"}})
	if !errors.Is(err, apperror.Validation) {
		t.Errorf("errors.Is(ValidationErrors, apperror.Validation) = false, want true")
	}
	if errors.Is(err, apperror.NotFound) {
		t.Errorf("errors.Is(ValidationErrors, apperror.NotFound) = true, want false")
	}
}

func TestIsValidMonth(t *testing.T) {
	valid := []string{"2024-01", "1999-12"}
	invalid := []string{"2024-13", "2024-1", "202401", "2024-01-01", ""}
	for _, s := range valid {
		if _, ok := IsValidMonth(s); !ok {
			t.Errorf("IsValidMonth(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidMonth(s); ok {
			t.Errorf("IsValidMonth(%q) = true, want false", s)
		}
	}
}

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		input        string
		hour, minute int
		ok           bool
	}{
		{"09:00", 9, 0, true},
		{"22:30:15", 22, 30, true},
		{"2024-03-01T07:45:00Z", 7, 45, true},
		{"2024-03-01T09:00:00+07:00", 9, 0, true},
		{"09:00+07:00", 9, 0, true},
		{"17:30:00-05:00", 17, 30, true},
		{"25:00", 0, 0, false},
		{"nine", 0, 0, false},
	}
	for _, c := range cases {
		got, ok := ParseTimeOfDay(c.input)
		if ok != c.ok {
			t.Errorf("ParseTimeOfDay(%q) ok = %v, want %v", c.input, ok, c.ok)
			continue
		}
		if ok && (got.Hour() != c.hour || got.Minute() != c.minute) {
			t.Errorf("ParseTimeOfDay(%q) = %02d:%02d, want %02d:%02d", c.input, got.Hour(), got.Minute(), c.hour, c.minute)
		}
		if ok && (got.Location() != time.UTC || got.Year() != 1970 || got.YearDay() != 1) {
			t.Errorf("ParseTimeOfDay(%q) = %v, want anchored on 1970-01-01 UTC", c.input, got)
		}
	}
}
