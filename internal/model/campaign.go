// internal/model/campaign.go
package model

import "time"

// Campaign status lifecycle: draft -> sending -> completed | failed.
// paused is reserved for the dashboard collaborator.
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusSending   = "sending"
	CampaignStatusCompleted = "completed"
	CampaignStatusPaused    = "paused"
	CampaignStatusFailed    = "failed"
)

type Campaign struct {
	ID              int        `db:"id" json:"id"`
	CompanyID       int        `db:"company_id" json:"company_id"`
	PositionTitle   string     `db:"position_title" json:"position_title"`
	EmailSubject    string     `db:"email_subject" json:"email_subject"`
	EmailTemplate   string     `db:"email_template" json:"email_template"`
	Status          string     `db:"status" json:"status"`
	TotalEmails     int        `db:"total_emails" json:"total_emails"`
	EmailsSent      int        `db:"emails_sent" json:"emails_sent"`
	EmailsDelivered int        `db:"emails_delivered" json:"emails_delivered"`
	EmailsOpened    int        `db:"emails_opened" json:"emails_opened"`
	EmailsClicked   int        `db:"emails_clicked" json:"emails_clicked"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
