// Package provider wraps external contact-discovery APIs behind a uniform
// lookup contract. Adapters never fail across their boundary: transport and
// payload errors are normalized into a status the resolver can act on.
package provider

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/unclebandit/recruitflow-backend/internal/model"
)

// Lookup statuses reported by adapters.
const (
	StatusFound        = "found"
	StatusNotFound     = "not_found"
	StatusError        = "error"
	StatusLimitReached = "limit_reached"
)

// EmailResult is the outcome of a single-person lookup.
type EmailResult struct {
	Email    string `json:"email,omitempty"`
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Err      string `json:"error,omitempty"`
}

// RawContact is one contact returned by a bulk domain lookup, before it is
// reconciled against the store.
type RawContact struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Title       string `json:"title"`
	Department  string `json:"department"`
	ProfileURL  string `json:"profile_url"`
	EmailStatus string `json:"email_status"`
	Provider    string `json:"provider"`
}

// CompanyProfile is the result of a company search.
type CompanyProfile struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Domain     string `json:"domain"`
	Industry   string `json:"industry"`
	Size       string `json:"size"`
	Location   string `json:"location"`
}

// EmailFinder looks up one person's email on a domain.
type EmailFinder interface {
	Name() string
	FindEmail(ctx context.Context, firstName, lastName, domain string) EmailResult
}

// DomainSearcher lists every discoverable contact on a domain.
type DomainSearcher interface {
	Name() string
	FindAllEmails(ctx context.Context, domain, companyName string) ([]RawContact, error)
}

// CompanyLocator finds a company profile by name.
type CompanyLocator interface {
	Name() string
	FindCompany(ctx context.Context, name string) (*CompanyProfile, error)
}

var defaultHTTPClient = &http.Client{Timeout: 15 * time.Second}

// classifyStatus distinguishes a quota/limit response from a generic provider
// error so the resolver can skip the adapter instead of abandoning the run.
// 401/402/429, or a body mentioning "limit" or "quota", mean limit_reached.
func classifyStatus(httpStatus int, body string) string {
	switch httpStatus {
	case http.StatusUnauthorized, http.StatusPaymentRequired, http.StatusTooManyRequests:
		return StatusLimitReached
	}
	lower := strings.ToLower(body)
	if strings.Contains(lower, "limit") || strings.Contains(lower, "quota") {
		return StatusLimitReached
	}
	return StatusError
}

// mapEmailStatus maps a provider verification status onto the closed set
// persisted on contacts.
func mapEmailStatus(s string) string {
	switch strings.ToLower(s) {
	case "valid", "verified", "deliverable", "safe":
		return model.EmailStatusValid
	case "invalid", "undeliverable", "not_valid":
		return model.EmailStatusInvalid
	case "risky", "accept_all", "catch_all", "webmail":
		return model.EmailStatusRisky
	default:
		return model.EmailStatusUnverified
	}
}
