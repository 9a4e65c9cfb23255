// internal/provider/companyenrich.go
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

// CompanyEnrichClient resolves a company name to a structured profile
// (domain, industry, size, location) via the CompanyEnrich API.
type CompanyEnrichClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewCompanyEnrichClient(cfg config.CompanyEnrichConfig) *CompanyEnrichClient {
	return &CompanyEnrichClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: defaultHTTPClient,
	}
}

func (c *CompanyEnrichClient) Name() string { return "companyenrich" }

type companySearchResponse struct {
	Companies []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Domain   string `json:"domain"`
		Industry string `json:"industry"`
		Size     string `json:"size"`
		Location string `json:"location"`
	} `json:"companies"`
}

// FindCompany returns the best match for the company name, or nil when the
// provider knows nothing about it.
func (c *CompanyEnrichClient) FindCompany(ctx context.Context, name string) (*CompanyProfile, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/companies/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

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
		return nil, fmt.Errorf("company search: status %s (%d)", classifyStatus(resp.StatusCode, string(body)), resp.StatusCode)
	}

	var response companySearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("parsing company search response: %w", err)
	}
	if len(response.Companies) == 0 {
		return nil, nil
	}

	match := response.Companies[0]
	return &CompanyProfile{
		ExternalID: match.ID,
		Name:       match.Name,
		Domain:     match.Domain,
		Industry:   match.Industry,
		Size:       match.Size,
		Location:   match.Location,
	}, nil
}

var _ CompanyLocator = (*CompanyEnrichClient)(nil)
