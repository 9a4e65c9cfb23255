// Package mailer is the email delivery collaborator: one POST per message,
// acceptance confirmed synchronously by the provider. Retry policy lives in
// the dispatcher, not here.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/unclebandit/recruitflow-backend/internal/config"
)

// Sender delivers one email and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, email Email) (string, error)
}

// Email is the delivery payload. IdempotencyKey is stable across retry
// attempts for the same message so a timed-out accept cannot double-send.
type Email struct {
	From           string   `json:"from"`
	To             []string `json:"to"`
	Subject        string   `json:"subject"`
	HTML           string   `json:"html"`
	IdempotencyKey string   `json:"-"`
}

// ResendClient is a Resend API client
type ResendClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewResendClient(cfg config.ResendConfig) *ResendClient {
	return &ResendClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type sendResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send delivers one email through the provider.
func (c *ResendClient) Send(ctx context.Context, email Email) (string, error) {
	data, err := json.Marshal(email)
	if err != nil {
		return "", fmt.Errorf("encoding email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if email.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", email.IdempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return "", fmt.Errorf("delivery rejected (status %d): %s", resp.StatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("delivery rejected (status %d): %s", resp.StatusCode, string(body))
	}

	var response sendResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("parsing send response: %w", err)
	}
	return response.ID, nil
}

var _ Sender = (*ResendClient)(nil)
