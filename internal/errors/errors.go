// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// Configuration errors are fatal for the request: reported immediately, never retried.
var (
	ErrNoProvidersConfigured = errors.New("no email discovery providers configured")
	ErrMailerNotConfigured   = errors.New("email delivery provider not configured")
)

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

type ErrCompanyNotFound struct {
	CompanyID int
	Name      string
}

func (e *ErrCompanyNotFound) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("company %q not found", e.Name)
	}
	return fmt.Sprintf("company with ID %d not found", e.CompanyID)
}

func NewCompanyNotFound(id int) error {
	return &ErrCompanyNotFound{CompanyID: id}
}

func NewCompanyNotFoundByName(name string) error {
	return &ErrCompanyNotFound{Name: name}
}

// ErrInvalidCampaignStatus rejects a dispatch on a campaign that already left draft.
type ErrInvalidCampaignStatus struct {
	CampaignID int
	Status     string
}

func (e *ErrInvalidCampaignStatus) Error() string {
	return fmt.Sprintf("campaign %d cannot be dispatched in status %q", e.CampaignID, e.Status)
}

func NewInvalidCampaignStatus(id int, status string) error {
	return &ErrInvalidCampaignStatus{CampaignID: id, Status: status}
}

// ErrNoValidContacts means dispatch preconditions failed: nothing was mutated.
type ErrNoValidContacts struct {
	CampaignID int
}

func (e *ErrNoValidContacts) Error() string {
	return fmt.Sprintf("campaign %d has no contacts with a valid email", e.CampaignID)
}

func NewNoValidContacts(id int) error {
	return &ErrNoValidContacts{CampaignID: id}
}
