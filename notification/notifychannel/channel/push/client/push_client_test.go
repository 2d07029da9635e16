package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"educenter.io/educenter-server/common/config"
	"educenter.io/educenter-server/common/types"
)

func TestPushService_SendForwardsStructuredData(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.Push.GatewayURL = server.URL
	cfg.Push.APIKey = "test-key"
	service := NewPushService(cfg)

	err := service.Send(context.Background(), types.PushPayload{
		UserUUIDs: []string{"user-1"},
		Title:     "Maintenance scheduled",
		Message:   "Back at 04:00 UTC",
		Data: map[string]any{
			"actionUrl":   "/status",
			"retryAfter":  3600,
			"maintenance": true,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Maintenance scheduled", got["title"])
	data, ok := got["data"].(map[string]any)
	require.True(t, ok, "non-string data values must survive the gateway request")
	assert.Equal(t, "/status", data["actionUrl"])
	assert.Equal(t, float64(3600), data["retryAfter"])
	assert.Equal(t, true, data["maintenance"])
}

func TestPushService_SendGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.Push.GatewayURL = server.URL
	service := NewPushService(cfg)

	err := service.Send(context.Background(), types.PushPayload{
		UserUUIDs: []string{"user-1"},
		Title:     "Maintenance scheduled",
		Message:   "Back at 04:00 UTC",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
