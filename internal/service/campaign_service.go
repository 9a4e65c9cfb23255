// internal/service/campaign_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/recruitflow-backend/internal/errors"
	"github.com/unclebandit/recruitflow-backend/internal/mailer"
	"github.com/unclebandit/recruitflow-backend/internal/model"
	"github.com/unclebandit/recruitflow-backend/internal/repository"
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	CompanyRepo  repository.CompanyRepositoryInterface
	ContactRepo  repository.ContactRepositoryInterface
	EmailLogRepo repository.EmailLogRepositoryInterface
	Mailer       mailer.Sender // nil when the delivery provider is unconfigured

	FromEmail      string
	FromName       string
	MaxAttempts    int
	RetryBaseDelay time.Duration
}

// Result struct for DispatchCampaign
type DispatchResult struct {
	CampaignID      int    `json:"campaign_id"`
	TotalEmails     int    `json:"total_emails"`
	EmailsSent      int    `json:"emails_sent"`
	EmailsDelivered int    `json:"emails_delivered"`
	Status          string `json:"status"`
}

type CampaignDetails struct {
	ID            int            `json:"id"`
	CompanyID     int            `json:"company_id"`
	PositionTitle string         `json:"position_title"`
	EmailSubject  string         `json:"email_subject"`
	EmailTemplate string         `json:"email_template"`
	Status        string         `json:"status"`
	TotalEmails   int            `json:"total_emails"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     *time.Time     `json:"updated_at"`
	Stats         map[string]int `json:"stats"`
}

func (s *CampaignService) CreateCampaign(companyID int, positionTitle, subject, template string) (*model.Campaign, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, fmt.Errorf("email subject cannot be empty")
	}
	if strings.TrimSpace(template) == "" {
		return nil, fmt.Errorf("email template cannot be empty")
	}

	company, err := s.CompanyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, appErrors.NewCompanyNotFound(companyID)
	}

	c := &model.Campaign{
		CompanyID:     companyID,
		PositionTitle: positionTitle,
		EmailSubject:  subject,
		EmailTemplate: template,
		Status:        model.CampaignStatusDraft,
	}
	if err := s.CampaignRepo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CampaignService) DeleteCampaign(campaignID int) error {
	return s.CampaignRepo.Delete(campaignID)
}

// ListCampaigns fetches campaigns with pagination
func (s *CampaignService) ListCampaigns(page, pageSize int, status string) ([]model.Campaign, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	ptrs, total, err := s.CampaignRepo.ListCampaigns(offset, pageSize, status)
	if err != nil {
		return nil, nil, err
	}

	campaigns := make([]model.Campaign, len(ptrs))
	for i, c := range ptrs {
		campaigns[i] = *c
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}

	return campaigns, pagination, nil
}

// GetCampaignDetailsWithStats fetches a campaign plus per-status log counts
func (s *CampaignService) GetCampaignDetailsWithStats(campaignID int) (*CampaignDetails, error) {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}

	stats, err := s.EmailLogRepo.StatusCounts(campaignID)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, count := range stats {
		total += count
	}
	stats["total"] = total

	return &CampaignDetails{
		ID:            campaign.ID,
		CompanyID:     campaign.CompanyID,
		PositionTitle: campaign.PositionTitle,
		EmailSubject:  campaign.EmailSubject,
		EmailTemplate: campaign.EmailTemplate,
		Status:        campaign.Status,
		TotalEmails:   campaign.TotalEmails,
		CreatedAt:     campaign.CreatedAt,
		UpdatedAt:     campaign.UpdatedAt,
		Stats:         stats,
	}, nil
}

// RenderPreview renders a campaign's subject and body against one contact
// without sending anything.
func (s *CampaignService) RenderPreview(campaignID, contactID int, overrideTemplate *string) (subject, body string, err error) {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return "", "", err
	}

	contact, err := s.ContactRepo.GetByID(contactID)
	if err != nil {
		return "", "", err
	}
	if contact == nil {
		return "", "", fmt.Errorf("contact %d not found", contactID)
	}

	company, err := s.CompanyRepo.GetByID(campaign.CompanyID)
	if err != nil {
		return "", "", err
	}
	if company == nil {
		return "", "", appErrors.NewCompanyNotFound(campaign.CompanyID)
	}

	template := campaign.EmailTemplate
	if overrideTemplate != nil && strings.TrimSpace(*overrideTemplate) != "" {
		template = *overrideTemplate
	}

	data := BuildPlaceholders(contact, company, campaign)
	return RenderTemplate(campaign.EmailSubject, data), RenderTemplate(template, data), nil
}

// DispatchCampaign runs the draft -> sending -> completed state machine. All
// per-message sends run concurrently; the campaign is finalized only after
// every outcome is in, successes and failures alike. A message failing for
// good never cancels its siblings. Failures stay visible on the email logs;
// the campaign itself still completes.
func (s *CampaignService) DispatchCampaign(ctx context.Context, campaignID int, fromEmail, fromName string) (*DispatchResult, error) {
	if s.Mailer == nil {
		return nil, appErrors.ErrMailerNotConfigured
	}

	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status != model.CampaignStatusDraft {
		return nil, appErrors.NewInvalidCampaignStatus(campaignID, campaign.Status)
	}

	company, err := s.CompanyRepo.GetByID(campaign.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, appErrors.NewCompanyNotFound(campaign.CompanyID)
	}

	contacts, err := s.ContactRepo.ListValidByCompany(campaign.CompanyID)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, appErrors.NewNoValidContacts(campaignID)
	}

	from := s.fromHeader(fromEmail, fromName)

	// Once the campaign leaves draft there is no abort path: the caller
	// disconnecting must not cancel in-flight or pending sends.
	ctx = context.WithoutCancel(ctx)

	if err := s.CampaignRepo.UpdateStatus(campaignID, model.CampaignStatusSending); err != nil {
		return nil, err
	}
	if err := s.CampaignRepo.UpdateCounters(campaignID, len(contacts), 0, 0); err != nil {
		return nil, err
	}
	log.Printf("📤 dispatching campaign %d to %d contacts", campaignID, len(contacts))

	outcomes := make([]bool, len(contacts))
	var wg sync.WaitGroup
	for i := range contacts {
		wg.Add(1)
		go func(i int, contact model.Contact) {
			defer wg.Done()
			outcomes[i] = s.sendOne(ctx, campaign, company, contact, from)
		}(i, contacts[i])
	}
	wg.Wait()

	sent := 0
	for _, ok := range outcomes {
		if ok {
			sent++
		}
	}

	// Recompute from the logs so counters reflect persisted state, not just
	// what this process believes happened.
	if stats, err := s.EmailLogRepo.StatusCounts(campaignID); err == nil {
		sent = stats[model.EmailLogStatusSent]
	} else {
		log.Printf("⚠️ failed to recount logs for campaign %d: %v", campaignID, err)
	}

	if err := s.CampaignRepo.UpdateCounters(campaignID, len(contacts), sent, sent); err != nil {
		log.Printf("⚠️ failed to update counters for campaign %d: %v", campaignID, err)
	}
	if err := s.CampaignRepo.UpdateStatus(campaignID, model.CampaignStatusCompleted); err != nil {
		log.Printf("⚠️ failed to finalize campaign %d: %v", campaignID, err)
	}
	log.Printf("✅ campaign %d completed: %d/%d sent", campaignID, sent, len(contacts))

	return &DispatchResult{
		CampaignID:      campaignID,
		TotalEmails:     len(contacts),
		EmailsSent:      sent,
		EmailsDelivered: sent,
		Status:          model.CampaignStatusCompleted,
	}, nil
}

// sendOne renders, logs and delivers a single message with bounded retries.
// The backoff delay grows linearly with the attempt number and suspends only
// this message's loop.
func (s *CampaignService) sendOne(ctx context.Context, campaign *model.Campaign, company *model.Company, contact model.Contact, from string) bool {
	data := BuildPlaceholders(&contact, company, campaign)
	subject := RenderTemplate(campaign.EmailSubject, data)
	content := RenderTemplate(campaign.EmailTemplate, data)

	emailLog := &model.EmailLog{
		CampaignID: campaign.ID,
		ContactID:  contact.ID,
		Email:      contact.Email,
		Subject:    subject,
		Content:    content,
		Status:     model.EmailLogStatusPending,
	}
	if err := s.EmailLogRepo.Create(emailLog); err != nil {
		log.Printf("⚠️ failed to create email log for %s: %v", contact.Email, err)
		return false
	}

	email := mailer.Email{
		From:           from,
		To:             []string{contact.Email},
		Subject:        subject,
		HTML:           content,
		IdempotencyKey: uuid.NewString(),
	}

	var lastErr error
	for attempt := 1; attempt <= s.MaxAttempts; attempt++ {
		_, err := s.Mailer.Send(ctx, email)
		if err == nil {
			if err := s.EmailLogRepo.MarkSent(emailLog.ID, time.Now()); err != nil {
				log.Printf("⚠️ failed to mark log %d sent: %v", emailLog.ID, err)
			}
			return true
		}

		lastErr = err
		log.Printf("⚠️ send to %s failed (attempt %d/%d): %v", contact.Email, attempt, s.MaxAttempts, err)
		if attempt < s.MaxAttempts {
			time.Sleep(time.Duration(attempt) * s.RetryBaseDelay)
		}
	}

	if err := s.EmailLogRepo.MarkFailed(emailLog.ID, lastErr.Error()); err != nil {
		log.Printf("⚠️ failed to mark log %d failed: %v", emailLog.ID, err)
	}
	return false
}

func (s *CampaignService) fromHeader(fromEmail, fromName string) string {
	if fromEmail == "" {
		fromEmail = s.FromEmail
	}
	if fromName == "" {
		fromName = s.FromName
	}
	if fromName != "" {
		return fmt.Sprintf("%s <%s>", fromName, fromEmail)
	}
	return fromEmail
}
