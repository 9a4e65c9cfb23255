// internal/provider/snov.go
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/unclebandit/recruitflow-backend/internal/config"
)

// SnovClient is a Snov.io API client. Snov uses client-credentials OAuth, so
// the access token is fetched lazily and cached until shortly before expiry.
type SnovClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewSnovClient(cfg config.SnovConfig) *SnovClient {
	return &SnovClient{
		baseURL:      cfg.BaseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   defaultHTTPClient,
	}
}

func (c *SnovClient) Name() string { return "snov" }

type snovTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type snovFinderResponse struct {
	Data struct {
		Emails []struct {
			Email       string `json:"email"`
			EmailStatus string `json:"emailStatus"`
		} `json:"emails"`
	} `json:"data"`
}

type snovDomainResponse struct {
	Emails []struct {
		Email      string `json:"email"`
		FirstName  string `json:"firstName"`
		LastName   string `json:"lastName"`
		Position   string `json:"position"`
		Status     string `json:"status"`
		SourcePage string `json:"sourcePage"`
	} `json:"emails"`
}

func (c *SnovClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	payload := map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
	}
	status, body, err := c.post(ctx, "/v1/oauth/access_token", "", payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("snov token request: status %d: %s", status, string(body))
	}

	var tok snovTokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}
	c.accessToken = tok.AccessToken
	// Refresh a minute early so in-flight requests never carry a stale token.
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn-60) * time.Second)
	return c.accessToken, nil
}

func (c *SnovClient) post(ctx context.Context, path, token string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// FindEmail looks up one person's email address on a domain.
func (c *SnovClient) FindEmail(ctx context.Context, firstName, lastName, domain string) EmailResult {
	token, err := c.token(ctx)
	if err != nil {
		return EmailResult{Status: StatusError, Provider: c.Name(), Err: err.Error()}
	}

	payload := map[string]string{
		"firstName": firstName,
		"lastName":  lastName,
		"domain":    domain,
	}
	status, body, err := c.post(ctx, "/v1/get-emails-from-names", token, payload)
	if err != nil {
		return EmailResult{Status: StatusError, Provider: c.Name(), Err: err.Error()}
	}
	if status != http.StatusOK {
		return EmailResult{
			Status:   classifyStatus(status, string(body)),
			Provider: c.Name(),
			Err:      fmt.Sprintf("snov returned status %d", status),
		}
	}

	var response snovFinderResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return EmailResult{Status: StatusError, Provider: c.Name(), Err: "parsing finder response: " + err.Error()}
	}
	for _, e := range response.Data.Emails {
		if e.Email != "" {
			return EmailResult{Email: e.Email, Status: StatusFound, Provider: c.Name()}
		}
	}
	return EmailResult{Status: StatusNotFound, Provider: c.Name()}
}

// FindAllEmails lists contacts discoverable on the domain.
func (c *SnovClient) FindAllEmails(ctx context.Context, domain, companyName string) ([]RawContact, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"domain": domain,
		"type":   "all",
		"limit":  100,
		"lastId": 0,
	}
	status, body, err := c.post(ctx, "/v2/domain-emails-with-info", token, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("snov domain search: status %s (%d)", classifyStatus(status, string(body)), status)
	}

	var response snovDomainResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("parsing domain search response: %w", err)
	}

	contacts := make([]RawContact, 0, len(response.Emails))
	for _, e := range response.Emails {
		if e.Email == "" {
			continue
		}
		contacts = append(contacts, RawContact{
			Email:       e.Email,
			FirstName:   e.FirstName,
			LastName:    e.LastName,
			Title:       e.Position,
			ProfileURL:  e.SourcePage,
			EmailStatus: mapEmailStatus(e.Status),
			Provider:    c.Name(),
		})
	}
	return contacts, nil
}

var (
	_ EmailFinder    = (*SnovClient)(nil)
	_ DomainSearcher = (*SnovClient)(nil)
)
