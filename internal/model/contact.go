// internal/model/contact.go
package model

import "time"

// Allowed values for Contact.EmailStatus.
const (
	EmailStatusValid      = "valid"
	EmailStatusInvalid    = "invalid"
	EmailStatusRisky      = "risky"
	EmailStatusUnknown    = "unknown"
	EmailStatusUnverified = "unverified"
)

type Contact struct {
	ID          int        `db:"id" json:"id"`
	CompanyID   int        `db:"company_id" json:"company_id"`
	Email       string     `db:"email" json:"email"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	Title       string     `db:"title" json:"title"`
	Department  string     `db:"department" json:"department"`
	ProfileURL  string     `db:"profile_url" json:"profile_url"`
	EmailStatus string     `db:"email_status" json:"email_status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
