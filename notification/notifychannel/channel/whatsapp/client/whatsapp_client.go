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

type WhatsAppService interface {
	Send(ctx context.Context, req types.WhatsAppPayload) error
}

type whatsAppService struct {
	httpClient  *http.Client
	apiURL      string
	phoneID     string
	accessToken string
}

var _ WhatsAppService = (*whatsAppService)(nil)

func NewWhatsAppService(config *config.Config) WhatsAppService {
	return &whatsAppService{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		apiURL:      config.WhatsApp.APIURL,
		phoneID:     config.WhatsApp.PhoneID,
		accessToken: config.WhatsApp.AccessToken,
	}
}

// cloud API message body for template sends
type templateMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Template         template `json:"template"`
}

type template struct {
	Name       string      `json:"name"`
	Language   language    `json:"language"`
	Components []component `json:"components"`
}

type language struct {
	Code string `json:"code"`
}

type component struct {
	Type       string                    `json:"type"`
	Parameters []types.WhatsAppParameter `json:"parameters"`
}

func (s *whatsAppService) Send(ctx context.Context, req types.WhatsAppPayload) error {
	for _, phoneNumber := range req.PhoneNumbers {
		msg := templateMessage{
			MessagingProduct: "whatsapp",
			To:               phoneNumber,
			Type:             "template",
			Template: template{
				Name:     req.TemplateName,
				Language: language{Code: "en_US"},
				Components: []component{
					{Type: "body", Parameters: req.TemplateParameters},
				},
			},
		}
		if err := s.post(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (s *whatsAppService) post(ctx context.Context, msg templateMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", s.apiURL, s.phoneID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("whatsapp api returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
