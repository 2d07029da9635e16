package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig_LoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.Nil(t, err)

		require.Equal(t, 8095, cfg.Notification.Port)
		require.Equal(t, 20, cfg.Notification.DispatchConcurrency)
		require.Equal(t, "en-US", cfg.Notification.DefaultLocale)
		require.False(t, cfg.Notification.StrictValidation)
		require.Equal(t, 5, cfg.Notification.ShutdownTimeoutSeconds)
	})

	t.Run("config env", func(t *testing.T) {
		t.Setenv("EDUCENTER_SERVER_INSTANCE_ID", "foo")
		t.Setenv("EDUCENTER_SERVER_NOTIFICATION_PORT", "6789")
		t.Setenv("EDUCENTER_SERVER_NOTIFICATION_STRICT_VALIDATION", "true")
		cfg, err := LoadConfig()
		require.Nil(t, err)

		require.Equal(t, "foo", cfg.InstanceID)
		require.Equal(t, 6789, cfg.Notification.Port)
		require.True(t, cfg.Notification.StrictValidation)
		require.Equal(t, "no-reply@educenter.io", cfg.Email.From)
	})
}
