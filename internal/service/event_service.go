// internal/service/event_service.go
package service

import (
	"fmt"
	"log"
	"time"

	"github.com/unclebandit/recruitflow-backend/internal/model"
	"github.com/unclebandit/recruitflow-backend/internal/repository"
)

// EngagementEvent is a delivery lifecycle notification from the email
// provider, arriving via webhook or the events queue.
type EngagementEvent struct {
	CampaignID int       `json:"campaign_id"`
	Email      string    `json:"email"`
	Event      string    `json:"event"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EventService struct {
	EmailLogRepo repository.EmailLogRepositoryInterface
	CampaignRepo repository.CampaignRepositoryInterface
}

// Apply records one engagement event on the matching email log. Events are
// idempotent per (log, event): a duplicate open neither restamps opened_at
// nor bumps the campaign counter again. An event for an unknown
// (campaign, email) pair is logged and dropped, not retried.
func (s *EventService) Apply(event EngagementEvent) error {
	switch event.Event {
	case model.EmailLogStatusDelivered, model.EmailLogStatusOpened,
		model.EmailLogStatusClicked, model.EmailLogStatusBounced:
	default:
		return fmt.Errorf("unknown engagement event %q", event.Event)
	}

	emailLog, err := s.EmailLogRepo.GetByCampaignAndEmail(event.CampaignID, event.Email)
	if err != nil {
		return fmt.Errorf("looking up email log for campaign %d: %w", event.CampaignID, err)
	}
	if emailLog == nil {
		log.Printf("⚠️ dropping %s event for unknown recipient %s (campaign %d)", event.Event, event.Email, event.CampaignID)
		return nil
	}

	if alreadyApplied(emailLog, event.Event) {
		return nil
	}

	at := event.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}

	if err := s.EmailLogRepo.ApplyEngagement(emailLog.ID, event.Event, at); err != nil {
		return fmt.Errorf("applying %s to log %d: %w", event.Event, emailLog.ID, err)
	}

	if event.Event == model.EmailLogStatusOpened || event.Event == model.EmailLogStatusClicked {
		if err := s.CampaignRepo.IncrementEngagement(event.CampaignID, event.Event); err != nil {
			return fmt.Errorf("incrementing %s counter for campaign %d: %w", event.Event, event.CampaignID, err)
		}
	}
	return nil
}

func alreadyApplied(l *model.EmailLog, event string) bool {
	switch event {
	case model.EmailLogStatusDelivered:
		// delivered_at is pre-stamped on send, so gate on status instead. A
		// log that already progressed to opened or clicked must not regress.
		return l.Status == model.EmailLogStatusDelivered ||
			l.Status == model.EmailLogStatusOpened ||
			l.Status == model.EmailLogStatusClicked
	case model.EmailLogStatusOpened:
		return l.OpenedAt != nil
	case model.EmailLogStatusClicked:
		return l.ClickedAt != nil
	case model.EmailLogStatusBounced:
		return l.Status == model.EmailLogStatusBounced
	}
	return false
}
