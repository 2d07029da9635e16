package varcheck

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"educenter.io/educenter-server/common/types"
)

type fakeTemplateChecker struct {
	missing map[string]bool
}

func (f fakeTemplateChecker) Exists(channel types.NotificationChannel, templatePath string) bool {
	return !f.missing[fmt.Sprintf("%s:%s", channel, templatePath)]
}

func TestCheckConsistency_AllTemplatesPresent(t *testing.T) {
	checker := fakeTemplateChecker{}
	require.NoError(t, CheckConsistency(checker, true))
}

func TestCheckConsistency_MissingTemplate(t *testing.T) {
	checker := fakeTemplateChecker{missing: map[string]bool{
		"email:email/otp.hbs": true,
	}}

	t.Run("strict mode fails", func(t *testing.T) {
		err := CheckConsistency(checker, true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "email/otp.hbs")
	})

	t.Run("dev mode warns and continues", func(t *testing.T) {
		var logs bytes.Buffer
		prev := slog.Default()
		slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
		t.Cleanup(func() { slog.SetDefault(prev) })

		require.NoError(t, CheckConsistency(checker, false))
		assert.Contains(t, logs.String(), "notification consistency violation")
		assert.Contains(t, logs.String(), "email/otp.hbs")
	})
}

func TestCollectViolations_ReportsAll(t *testing.T) {
	checker := fakeTemplateChecker{missing: map[string]bool{
		"email:email/otp.hbs": true,
		"sms:sms/otp.txt":     true,
	}}

	violations := collectViolations(checker)
	assert.Len(t, violations, 2)
}
