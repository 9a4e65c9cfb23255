// internal/provider/hunter.go
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/unclebandit/recruitflow-backend/internal/config"
)

// HunterClient is a Hunter.io API client. It implements both the single
// email-finder and the bulk domain-search capabilities.
type HunterClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewHunterClient(cfg config.HunterConfig) *HunterClient {
	return &HunterClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: defaultHTTPClient,
	}
}

func (c *HunterClient) Name() string { return "hunter" }

type hunterFinderResponse struct {
	Data struct {
		Email        string `json:"email"`
		Score        int    `json:"score"`
		Verification struct {
			Status string `json:"status"`
		} `json:"verification"`
	} `json:"data"`
}

type hunterDomainResponse struct {
	Data struct {
		Domain string `json:"domain"`
		Emails []struct {
			Value        string `json:"value"`
			FirstName    string `json:"first_name"`
			LastName     string `json:"last_name"`
			Position     string `json:"position"`
			Department   string `json:"department"`
			LinkedIn     string `json:"linkedin"`
			Verification struct {
				Status string `json:"status"`
			} `json:"verification"`
		} `json:"emails"`
	} `json:"data"`
}

func (c *HunterClient) doRequest(ctx context.Context, path string, params url.Values) (int, []byte, error) {
	params.Set("api_key", c.apiKey)
	fullURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
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
func (c *HunterClient) FindEmail(ctx context.Context, firstName, lastName, domain string) EmailResult {
	params := url.Values{}
	params.Set("domain", domain)
	params.Set("first_name", firstName)
	params.Set("last_name", lastName)

	status, body, err := c.doRequest(ctx, "/email-finder", params)
	if err != nil {
		return EmailResult{Status: StatusError, Provider: c.Name(), Err: err.Error()}
	}
	if status != http.StatusOK {
		return EmailResult{
			Status:   classifyStatus(status, string(body)),
			Provider: c.Name(),
			Err:      fmt.Sprintf("hunter returned status %d", status),
		}
	}

	var response hunterFinderResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return EmailResult{Status: StatusError, Provider: c.Name(), Err: "parsing email finder response: " + err.Error()}
	}
	if response.Data.Email == "" {
		return EmailResult{Status: StatusNotFound, Provider: c.Name()}
	}
	return EmailResult{Email: response.Data.Email, Status: StatusFound, Provider: c.Name()}
}

// FindAllEmails lists contacts discoverable on the domain.
func (c *HunterClient) FindAllEmails(ctx context.Context, domain, companyName string) ([]RawContact, error) {
	params := url.Values{}
	params.Set("domain", domain)
	if companyName != "" {
		params.Set("company", companyName)
	}

	status, body, err := c.doRequest(ctx, "/domain-search", params)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("hunter domain search: status %s (%d)", classifyStatus(status, string(body)), status)
	}

	var response hunterDomainResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("parsing domain search response: %w", err)
	}

	contacts := make([]RawContact, 0, len(response.Data.Emails))
	for _, e := range response.Data.Emails {
		if e.Value == "" {
			continue
		}
		contacts = append(contacts, RawContact{
			Email:       e.Value,
			FirstName:   e.FirstName,
			LastName:    e.LastName,
			Title:       e.Position,
			Department:  e.Department,
			ProfileURL:  e.LinkedIn,
			EmailStatus: mapEmailStatus(e.Verification.Status),
			Provider:    c.Name(),
		})
	}
	return contacts, nil
}

var (
	_ EmailFinder    = (*HunterClient)(nil)
	_ DomainSearcher = (*HunterClient)(nil)
)
