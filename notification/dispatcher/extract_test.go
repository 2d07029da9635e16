package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"educenter.io/educenter-server/common/types"
)

func TestExtractEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		params   map[string]any
		expected RecipientEnvelope
	}{
		{
			name: "full envelope",
			params: map[string]any{
				"emails":       []any{"a@example.org", "b@example.org"},
				"phoneNumbers": []any{"+14155552671"},
				"userUuids":    []any{"user-1"},
				"profile":      "teacher",
				"locale":       "es-MX",
				"centerId":     "center-9",
			},
			expected: RecipientEnvelope{
				Emails:       []string{"a@example.org", "b@example.org"},
				PhoneNumbers: []string{"+14155552671"},
				UserUUIDs:    []string{"user-1"},
				Profile:      types.ProfileTeacher,
				Locale:       "es-MX",
				CenterID:     "center-9",
			},
		},
		{
			name: "scalar variants",
			params: map[string]any{
				"email":  "solo@example.org",
				"phone":  "+14155552671",
				"userId": "user-1",
			},
			expected: RecipientEnvelope{
				Emails:       []string{"solo@example.org"},
				PhoneNumbers: []string{"+14155552671"},
				UserUUIDs:    []string{"user-1"},
			},
		},
		{
			name: "wrong shapes are ignored",
			params: map[string]any{
				"emails":    map[string]any{"nested": true},
				"userUuids": []any{"", ""},
				"locale":    42,
			},
			expected: RecipientEnvelope{
				Locale: "42",
			},
		},
		{
			name:     "empty params",
			params:   map[string]any{},
			expected: RecipientEnvelope{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractEnvelope(tt.params))
		})
	}
}
