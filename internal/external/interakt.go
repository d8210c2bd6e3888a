package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"nudge/internal/types"
)

const defaultInteraktBaseURL = "https://api.interakt.ai"

// InteraktClient sends WhatsApp template messages through the Interakt
// public API.
type InteraktClient struct {
	base    *BaseClient
	apiKey  types.SecretString
	baseURL string
}

// InteraktOption configures an InteraktClient.
type InteraktOption func(*InteraktClient)

// WithInteraktBaseURL overrides the API base URL (used in tests against a
// local server).
func WithInteraktBaseURL(url string) InteraktOption {
	return func(c *InteraktClient) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// NewInteraktClient creates an Interakt API client.
func NewInteraktClient(httpClient *http.Client, apiKey types.SecretString, opts ...InteraktOption) *InteraktClient {
	c := &InteraktClient{
		base:    NewBaseClient(httpClient, "interakt", "nudge-dispatcher/1.0"),
		apiKey:  apiKey,
		baseURL: defaultInteraktBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type interaktSendRequest struct {
	CountryCode     string           `json:"countryCode"`
	PhoneNumber     string           `json:"phoneNumber"`
	FullPhoneNumber string           `json:"fullPhoneNumber"`
	CampaignID      string           `json:"campaignId"`
	CallbackData    string           `json:"callbackData,omitempty"`
	Type            string           `json:"type"`
	Template        WhatsAppTemplate `json:"template"`
}

type interaktSendResponse struct {
	Result  bool   `json:"result"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// SendTemplate delivers one WhatsApp template message. Returns the Interakt
// message ID on success.
func (c *InteraktClient) SendTemplate(ctx context.Context, msg TemplateMessage) (string, error) {
	payload, err := json.Marshal(interaktSendRequest{
		CountryCode:  msg.CountryCode,
		PhoneNumber:  msg.PhoneNumber,
		CampaignID:   "",
		CallbackData: msg.CallbackData,
		Type:         "Template",
		Template:     msg.Template,
	})
	if err != nil {
		return "", types.NewAppError(types.ErrCodeInternalUnexpected, "failed to marshal message payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/public/message/", bytes.NewReader(payload))
	if err != nil {
		return "", types.NewAppError(types.ErrCodeInternalUnexpected, "failed to build message request", err)
	}
	req.Header.Set("Authorization", "Basic "+c.apiKey.Unmask())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if readErr != nil {
		return "", types.NewAppError(types.ErrCodeUpstreamMessagingProvider, "failed to read messaging provider response", readErr)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var parsed interaktSendResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", types.NewAppError(types.ErrCodeUpstreamMessagingProvider, "unexpected messaging provider response shape", err)
		}
		return parsed.ID, nil
	}

	return "", c.mapStatus(resp.StatusCode, body)
}

func (c *InteraktClient) mapStatus(status int, body []byte) error {
	var parsed interaktSendResponse
	_ = json.Unmarshal(body, &parsed)
	detail := parsed.Message
	if detail == "" {
		detail = string(body)
	}

	switch {
	case status == http.StatusTooManyRequests:
		return types.NewAppError(types.ErrCodeUpstreamRateLimited,
			"messaging provider rate limit exceeded", fmt.Errorf("interakt: %d: %s", status, detail))
	case status >= 500:
		return types.NewAppError(types.ErrCodeUpstreamUnavailable,
			"messaging provider unavailable", fmt.Errorf("interakt: %d: %s", status, detail))
	default:
		return types.NewAppError(types.ErrCodeUpstreamMessagingProvider,
			fmt.Sprintf("messaging provider rejected request (%d)", status),
			fmt.Errorf("interakt: %s", detail))
	}
}

// Compile-time assertion that InteraktClient implements MessagingProvider.
var _ MessagingProvider = (*InteraktClient)(nil)
