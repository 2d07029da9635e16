package utils

import (
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{
			name:  "simple address",
			email: "admin@educenter.io",
			valid: true,
		},
		{
			name:  "address with plus tag",
			email: "parent+alerts@example.org",
			valid: true,
		},
		{
			name:  "missing domain",
			email: "no-at-sign",
			valid: false,
		},
		{
			name:  "missing tld",
			email: "user@localhost",
			valid: false,
		},
		{
			name:  "empty",
			email: "",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.valid {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.valid)
			}
		})
	}
}

func TestExtractDisplayNameFromEmail(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		expected string
	}{
		{
			name:     "simple email with lowercase",
			email:    "registrar@educenter.io",
			expected: "Registrar",
		},
		{
			name:     "email with uppercase",
			email:    "Frontdesk@educenter.io",
			expected: "Frontdesk",
		},
		{
			name:     "invalid email",
			email:    "invalid",
			expected: "invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractDisplayNameFromEmail(tt.email)
			if result != tt.expected {
				t.Errorf("ExtractDisplayNameFromEmail(%q) = %q, want %q", tt.email, result, tt.expected)
			}
		})
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		valid  bool
	}{
		{
			name:   "e164 us number",
			number: "+14155552671",
			valid:  true,
		},
		{
			name:   "e164 uk number",
			number: "+442071838750",
			valid:  true,
		},
		{
			name:   "missing region prefix",
			number: "4155552671",
			valid:  false,
		},
		{
			name:   "garbage",
			number: "not-a-number",
			valid:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidPhoneNumber(tt.number); got != tt.valid {
				t.Errorf("IsValidPhoneNumber(%q) = %v, want %v", tt.number, got, tt.valid)
			}
		})
	}
}

func TestNormalizePhoneNumber(t *testing.T) {
	if got := NormalizePhoneNumber("+1 415 555 2671"); got != "+14155552671" {
		t.Errorf("NormalizePhoneNumber = %q, want +14155552671", got)
	}
	if got := NormalizePhoneNumber("bogus"); got != "bogus" {
		t.Errorf("NormalizePhoneNumber should return invalid input unchanged, got %q", got)
	}
}
