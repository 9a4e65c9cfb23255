// internal/model/email_log.go
package model

import "time"

// Email log statuses. pending is the only non-terminal send state; delivered,
// opened, clicked and bounced are applied later by engagement events.
const (
	EmailLogStatusPending   = "pending"
	EmailLogStatusSent      = "sent"
	EmailLogStatusDelivered = "delivered"
	EmailLogStatusOpened    = "opened"
	EmailLogStatusClicked   = "clicked"
	EmailLogStatusBounced   = "bounced"
	EmailLogStatusFailed    = "failed"
)

type EmailLog struct {
	ID           int        `db:"id" json:"id"`
	CampaignID   int        `db:"campaign_id" json:"campaign_id"`
	ContactID    int        `db:"contact_id" json:"contact_id"`
	Email        string     `db:"email" json:"email"`
	Subject      string     `db:"subject" json:"subject"`
	Content      string     `db:"content" json:"content"`
	Status       string     `db:"status" json:"status"`
	ErrorMessage string     `db:"error_message,omitempty" json:"error_message,omitempty"`
	SentAt       *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	DeliveredAt  *time.Time `db:"delivered_at" json:"delivered_at,omitempty"`
	OpenedAt     *time.Time `db:"opened_at" json:"opened_at,omitempty"`
	ClickedAt    *time.Time `db:"clicked_at" json:"clicked_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
