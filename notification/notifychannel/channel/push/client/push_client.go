package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"educenter.io/educenter-server/common/config"
	"educenter.io/educenter-server/common/types"
)

type PushService interface {
	Send(ctx context.Context, req types.PushPayload) error
}

type pushService struct {
	httpClient *http.Client
	gatewayURL string
	apiKey     string
}

var _ PushService = (*pushService)(nil)

func NewPushService(config *config.Config) PushService {
	return &pushService{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		gatewayURL: config.Push.GatewayURL,
		apiKey:     config.Push.APIKey,
	}
}

type pushRequest struct {
	UserUUIDs []string       `json:"user_uuids"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

func (s *pushService) Send(ctx context.Context, req types.PushPayload) error {
	body, err := json.Marshal(pushRequest{
		UserUUIDs: req.UserUUIDs,
		Title:     req.Title,
		Message:   req.Message,
		Data:      req.Data,
	})
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("push gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
