// internal/service/discovery_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	appErrors "github.com/unclebandit/recruitflow-backend/internal/errors"
	"github.com/unclebandit/recruitflow-backend/internal/model"
	"github.com/unclebandit/recruitflow-backend/internal/provider"
	"github.com/unclebandit/recruitflow-backend/internal/repository"
	"github.com/unclebandit/recruitflow-backend/internal/resolver"
)

// ContactResolver is the resolver surface the discovery service consumes.
type ContactResolver interface {
	FindEmail(ctx context.Context, firstName, lastName, domain string) provider.EmailResult
	SearchDomain(ctx context.Context, domain, companyName string) ([]provider.RawContact, error)
}

type DiscoveryService struct {
	CompanyRepo repository.CompanyRepositoryInterface
	ContactRepo repository.ContactRepositoryInterface
	Resolver    ContactResolver
	Locator     provider.CompanyLocator // nil when unconfigured
}

// ResolvedRecruiter is a persisted contact annotated with resolution
// provenance. email_provider and existing are response-only fields.
type ResolvedRecruiter struct {
	model.Contact
	EmailProvider string `json:"email_provider,omitempty"`
	Existing      bool   `json:"existing"`
}

type DiscoveryResult struct {
	Company    *model.Company      `json:"company,omitempty"`
	Recruiters []ResolvedRecruiter `json:"recruiters"`
	TotalFound int                 `json:"total_found"`
	Message    string              `json:"message,omitempty"`
}

// SingleResolveResult is the outcome of a single-person email resolution.
type SingleResolveResult struct {
	Recruiter *ResolvedRecruiter `json:"recruiter,omitempty"`
	Status    string             `json:"status"`
	Provider  string             `json:"provider,omitempty"`
	Message   string             `json:"message,omitempty"`
}

// ResolveCompanyAndContacts locates the company, fans out to every configured
// discovery provider for its domain, and reconciles the merged contact set
// against the store. Degraded outcomes come back as a message on the result,
// never as a raw error.
func (s *DiscoveryService) ResolveCompanyAndContacts(ctx context.Context, companyName, domain string) (*DiscoveryResult, error) {
	company := &model.Company{Name: companyName}

	if s.Locator != nil {
		profile, err := s.Locator.FindCompany(ctx, companyName)
		if err != nil {
			log.Printf("⚠️ company lookup failed for %q: %v", companyName, err)
		} else if profile != nil {
			company.Name = profile.Name
			company.Industry = profile.Industry
			company.Size = profile.Size
			company.Location = profile.Location
			if profile.ExternalID != "" {
				company.ExternalID = &profile.ExternalID
			}
			if profile.Domain != "" && domain == "" {
				domain = profile.Domain
			}
		}
	}

	domain = strings.TrimSpace(domain)
	if domain == "" {
		return &DiscoveryResult{
			Recruiters: []ResolvedRecruiter{},
			Message:    fmt.Sprintf("could not determine a domain for %q, pass one explicitly", companyName),
		}, nil
	}
	company.Domain = &domain

	created, err := s.CompanyRepo.Upsert(company)
	if err != nil {
		return nil, fmt.Errorf("saving company %q: %w", companyName, err)
	}
	if created {
		log.Printf("🏢 discovered new company %q (%s)", company.Name, domain)
	}

	rawContacts, err := s.Resolver.SearchDomain(ctx, domain, company.Name)
	if err != nil {
		if errors.Is(err, appErrors.ErrNoProvidersConfigured) {
			return &DiscoveryResult{
				Company:    company,
				Recruiters: []ResolvedRecruiter{},
				Message:    "no email discovery providers configured, add at least one provider API key",
			}, nil
		}
		return nil, err
	}

	result := &DiscoveryResult{
		Company:    company,
		Recruiters: []ResolvedRecruiter{},
	}

	for _, raw := range rawContacts {
		recruiter, err := s.syncContact(company.ID, raw)
		if err != nil {
			// One bad row must not unwind the contacts already synced.
			log.Printf("⚠️ failed to sync contact %s: %v", raw.Email, err)
			continue
		}
		result.Recruiters = append(result.Recruiters, *recruiter)
	}
	result.TotalFound = len(result.Recruiters)

	if result.TotalFound == 0 {
		result.Message = fmt.Sprintf("no recruiter contacts found for %s, the providers may require a paid plan for this domain", domain)
	}
	return result, nil
}

// ResolveContactEmail finds one person's email via sequential provider
// fallback and reconciles the contact against the store.
func (s *DiscoveryService) ResolveContactEmail(ctx context.Context, companyID int, firstName, lastName string) (*SingleResolveResult, error) {
	company, err := s.CompanyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, appErrors.NewCompanyNotFound(companyID)
	}
	if company.Domain == nil || *company.Domain == "" {
		return &SingleResolveResult{
			Status:  provider.StatusNotFound,
			Message: fmt.Sprintf("company %q has no domain on record", company.Name),
		}, nil
	}

	res := s.Resolver.FindEmail(ctx, firstName, lastName, *company.Domain)
	switch {
	case res.Email != "":
		recruiter, err := s.syncContact(companyID, provider.RawContact{
			Email:       res.Email,
			FirstName:   firstName,
			LastName:    lastName,
			EmailStatus: model.EmailStatusUnverified,
			Provider:    res.Provider,
		})
		if err != nil {
			return nil, err
		}
		return &SingleResolveResult{Recruiter: recruiter, Status: res.Status, Provider: res.Provider}, nil
	case res.Status == resolver.StatusNoProviders:
		return nil, appErrors.ErrNoProvidersConfigured
	default:
		return &SingleResolveResult{
			Status:   res.Status,
			Provider: res.Provider,
			Message:  fmt.Sprintf("no email found for %s %s at %s", firstName, lastName, *company.Domain),
		}, nil
	}
}

// syncContact is the create-or-update step: one persisted row per
// (company_id, email), refreshed in place on rediscovery.
func (s *DiscoveryService) syncContact(companyID int, raw provider.RawContact) (*ResolvedRecruiter, error) {
	contact := &model.Contact{
		CompanyID:   companyID,
		Email:       raw.Email,
		FirstName:   raw.FirstName,
		LastName:    raw.LastName,
		Title:       raw.Title,
		Department:  raw.Department,
		ProfileURL:  raw.ProfileURL,
		EmailStatus: raw.EmailStatus,
	}
	existing, err := s.ContactRepo.Upsert(contact)
	if err != nil {
		return nil, err
	}
	return &ResolvedRecruiter{
		Contact:       *contact,
		EmailProvider: raw.Provider,
		Existing:      existing,
	}, nil
}
