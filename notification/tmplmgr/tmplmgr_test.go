package tmplmgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"educenter.io/educenter-server/common/types"
)

func TestNewTemplateManager(t *testing.T) {
	tm := NewTemplateManager()
	assert.NotNil(t, tm)
}

func TestTemplateManager_Render_Email(t *testing.T) {
	tm := NewTemplateManager()

	rendered, err := tm.Render(types.NotificationOTP, types.ChannelEmail, "email/otp.hbs", "en-US", map[string]any{
		"otpCode":   "123456",
		"expiresIn": "5 minutes",
	})
	require.NoError(t, err)
	assert.Equal(t, "Your verification code", rendered.Subject)
	assert.Contains(t, rendered.Content, "123456")
	assert.Contains(t, rendered.Content, "5 minutes")
}

func TestTemplateManager_Render_SMS(t *testing.T) {
	tm := NewTemplateManager()

	rendered, err := tm.Render(types.NotificationOTP, types.ChannelSMS, "sms/otp.txt", "en-US", map[string]any{
		"otpCode":   "654321",
		"expiresIn": "10 minutes",
	})
	require.NoError(t, err)
	assert.Empty(t, rendered.Subject)
	assert.Contains(t, rendered.Content, "654321")
}

func TestTemplateManager_Render_InApp(t *testing.T) {
	tm := NewTemplateManager()

	rendered, err := tm.Render(types.NotificationBranchDeleted, types.ChannelInApp, "in-app/branch-deleted.json", "en-US", map[string]any{
		"actorName":  "Omar",
		"branchName": "Downtown",
		"centerName": "Bright Minds",
	})
	require.NoError(t, err)
	require.NotNil(t, rendered.Fields)
	assert.Equal(t, "Branch deleted", rendered.Fields["title"])
	assert.Equal(t, "Omar removed Downtown from Bright Minds.", rendered.Fields["message"])
	assert.Equal(t, "Downtown", rendered.Fields["branchName"])
}

func TestTemplateManager_Render_LocaleFallbackToDefaultTemplate(t *testing.T) {
	tm := NewTemplateManager()

	rendered, err := tm.Render(types.NotificationCenterCreated, types.ChannelEmail, "email/nonexistent.hbs", "fr-FR", map[string]any{
		"message": "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "Notification", rendered.Subject)
	assert.Contains(t, rendered.Content, "hello")
}

func TestTemplateManager_Render_CachesTemplates(t *testing.T) {
	tm := NewTemplateManager()
	data := map[string]any{"otpCode": "111", "expiresIn": "1 minute"}

	first, err := tm.Render(types.NotificationOTP, types.ChannelSMS, "sms/otp.txt", "en-US", data)
	require.NoError(t, err)
	second, err := tm.Render(types.NotificationOTP, types.ChannelSMS, "sms/otp.txt", "en-US", data)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTemplateManager_Exists(t *testing.T) {
	tm := NewTemplateManager()

	assert.True(t, tm.Exists(types.ChannelEmail, "email/otp.hbs"))
	assert.True(t, tm.Exists(types.ChannelInApp, "in-app/center-created.json"))
	assert.False(t, tm.Exists(types.ChannelEmail, "email/nonexistent.hbs"))
}

func TestTemplateManager_HasLocale(t *testing.T) {
	tm := NewTemplateManager()

	assert.True(t, tm.HasLocale(types.ChannelEmail, "email/otp.hbs", "en-US"))
	assert.False(t, tm.HasLocale(types.ChannelEmail, "email/otp.hbs", "fr-FR"))
}

func TestParseTemplateOutput(t *testing.T) {
	testCases := []struct {
		name            string
		input           string
		expectedSubject string
		expectedContent string
	}{
		{
			name:            "subject and content with separator",
			input:           "Test Subject---Test Content",
			expectedSubject: "Test Subject",
			expectedContent: "Test Content",
		},
		{
			name:            "whitespace trimmed",
			input:           "  Test Subject  ---  Test Content  ",
			expectedSubject: "Test Subject",
			expectedContent: "Test Content",
		},
		{
			name:            "no separator - all content",
			input:           "Just some content",
			expectedSubject: "",
			expectedContent: "Just some content",
		},
		{
			name:            "empty input",
			input:           "",
			expectedSubject: "",
			expectedContent: "",
		},
		{
			name:            "multiple separators - first split wins",
			input:           "Subject---Content---Extra",
			expectedSubject: "Subject",
			expectedContent: "Content---Extra",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			subject, content := parseTemplateOutput(tc.input)
			assert.Equal(t, tc.expectedSubject, subject)
			assert.Equal(t, tc.expectedContent, content)
		})
	}
}

func TestLocaleVariant(t *testing.T) {
	assert.Equal(t, "email/otp.en-US.hbs", localeVariant("email/otp.hbs", "en-US"))
	assert.Equal(t, "sms/otp.fr-FR.txt", localeVariant("sms/otp.txt", "fr-FR"))
	assert.Equal(t, "email/otp.hbs", localeVariant("email/otp.hbs", ""))
}

// Every template the catalog declares must render against its manifest's
// required variables without error.
func TestTemplates_RenderCleanlyWithRequiredVariables(t *testing.T) {
	tm := NewTemplateManager()

	data := map[string]any{
		"centerName": "c", "branchName": "b", "actorName": "a", "granteeName": "g",
		"role": "r", "inviterName": "i", "inviteURL": "u", "otpCode": "1",
		"expiresIn": "e", "userName": "n", "changedAt": "t", "startTime": "s", "duration": "d",
	}

	paths := map[types.NotificationChannel][]string{
		types.ChannelEmail: {
			"email/center-created.hbs", "email/center-deleted.hbs", "email/branch-created.hbs",
			"email/branch-deleted.hbs", "email/access-granted.hbs", "email/access-revoked.hbs",
			"email/staff-invited.hbs", "email/otp.hbs", "email/password-changed.hbs",
		},
		types.ChannelSMS: {"sms/staff-invited.txt", "sms/otp.txt"},
		types.ChannelInApp: {
			"in-app/center-created.json", "in-app/center-updated.json", "in-app/center-deleted.json",
			"in-app/branch-created.json", "in-app/branch-updated.json", "in-app/branch-deleted.json",
			"in-app/access-granted.json", "in-app/access-revoked.json", "in-app/password-changed.json",
			"in-app/system-maintenance.json",
		},
		types.ChannelPush: {"push/center-deleted.txt", "push/access-granted.txt", "push/system-maintenance.txt"},
	}

	for channel, channelPaths := range paths {
		for _, path := range channelPaths {
			_, err := tm.Render(types.NotificationCenterCreated, channel, path, "en-US", data)
			assert.NoError(t, err, "template %s", path)
		}
	}
}
