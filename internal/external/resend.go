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

const defaultResendBaseURL = "https://api.resend.com"

// ResendClient sends transactional email through the Resend API.
type ResendClient struct {
	base    *BaseClient
	apiKey  types.SecretString
	baseURL string
}

// ResendOption configures a ResendClient.
type ResendOption func(*ResendClient)

// WithResendBaseURL overrides the API base URL (used in tests against a
// local server).
func WithResendBaseURL(url string) ResendOption {
	return func(c *ResendClient) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// NewResendClient creates a Resend API client.
func NewResendClient(httpClient *http.Client, apiKey types.SecretString, opts ...ResendOption) *ResendClient {
	c := &ResendClient{
		base:    NewBaseClient(httpClient, "resend", "nudge-dispatcher/1.0"),
		apiKey:  apiKey,
		baseURL: defaultResendBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type resendSendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Tags    []Tag    `json:"tags,omitempty"`
}

type resendSendResponse struct {
	ID string `json:"id"`
}

type resendErrorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send delivers one email. Returns the Resend message ID on success.
func (c *ResendClient) Send(ctx context.Context, input SendEmailInput) (string, error) {
	payload, err := json.Marshal(resendSendRequest{
		From:    input.From,
		To:      input.To,
		Subject: input.Subject,
		HTML:    input.HTML,
		Tags:    input.Tags,
	})
	if err != nil {
		return "", types.NewAppError(types.ErrCodeInternalUnexpected, "failed to marshal email payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", types.NewAppError(types.ErrCodeInternalUnexpected, "failed to build email request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey.Unmask())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if readErr != nil {
		return "", types.NewAppError(types.ErrCodeUpstreamEmailProvider, "failed to read email provider response", readErr)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var parsed resendSendResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", types.NewAppError(types.ErrCodeUpstreamEmailProvider, "unexpected email provider response shape", err)
		}
		return parsed.ID, nil
	}

	return "", c.mapStatus(resp.StatusCode, body)
}

func (c *ResendClient) mapStatus(status int, body []byte) error {
	var parsed resendErrorResponse
	_ = json.Unmarshal(body, &parsed)
	detail := parsed.Message
	if detail == "" {
		detail = string(body)
	}

	switch {
	case status == http.StatusTooManyRequests:
		return types.NewAppError(types.ErrCodeUpstreamRateLimited,
			"email provider rate limit exceeded", fmt.Errorf("resend: %d: %s", status, detail))
	case status >= 500:
		return types.NewAppError(types.ErrCodeUpstreamUnavailable,
			"email provider unavailable", fmt.Errorf("resend: %d: %s", status, detail))
	default:
		return types.NewAppError(types.ErrCodeUpstreamEmailProvider,
			fmt.Sprintf("email provider rejected request (%d)", status),
			fmt.Errorf("resend: %s", detail))
	}
}

// Compile-time assertion that ResendClient implements EmailProvider.
var _ EmailProvider = (*ResendClient)(nil)
