// internal/provider/apollo.go
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/unclebandit/recruitflow-backend/internal/config"
)

// Recruiter-facing titles requested from Apollo's people search.
var apolloRecruiterTitles = []string{
	"recruiter", "talent acquisition", "hr manager",
	"head of people", "technical recruiter", "hiring manager",
}

// ApolloClient is an Apollo.io API client exposing the bulk domain lookup.
type ApolloClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewApolloClient(cfg config.ApolloConfig) *ApolloClient {
	return &ApolloClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: defaultHTTPClient,
	}
}

func (c *ApolloClient) Name() string { return "apollo" }

type apolloSearchResponse struct {
	People []struct {
		Email       string   `json:"email"`
		FirstName   string   `json:"first_name"`
		LastName    string   `json:"last_name"`
		Title       string   `json:"title"`
		LinkedInURL string   `json:"linkedin_url"`
		EmailStatus string   `json:"email_status"`
		Departments []string `json:"departments"`
	} `json:"people"`
}

// FindAllEmails searches Apollo for recruiting contacts on the domain.
func (c *ApolloClient) FindAllEmails(ctx context.Context, domain, companyName string) ([]RawContact, error) {
	payload := map[string]any{
		"q_organization_domains": domain,
		"person_titles":          apolloRecruiterTitles,
		"page":                   1,
		"per_page":               25,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mixed_people/search", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("apollo people search: status %s (%d)", classifyStatus(resp.StatusCode, string(body)), resp.StatusCode)
	}

	var response apolloSearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("parsing people search response: %w", err)
	}

	contacts := make([]RawContact, 0, len(response.People))
	for _, p := range response.People {
		// Apollo masks emails it has not unlocked for the account.
		if p.Email == "" || p.Email == "email_not_unlocked@domain.com" {
			continue
		}
		department := ""
		if len(p.Departments) > 0 {
			department = p.Departments[0]
		}
		contacts = append(contacts, RawContact{
			Email:       p.Email,
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			Title:       p.Title,
			Department:  department,
			ProfileURL:  p.LinkedInURL,
			EmailStatus: mapEmailStatus(p.EmailStatus),
			Provider:    c.Name(),
		})
	}
	return contacts, nil
}

var _ DomainSearcher = (*ApolloClient)(nil)
