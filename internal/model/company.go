// internal/model/company.go
package model

import "time"

type Company struct {
	ID         int        `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	Domain     *string    `db:"domain" json:"domain,omitempty"`
	Industry   string     `db:"industry" json:"industry"`
	Size       string     `db:"size" json:"size"`
	Location   string     `db:"location" json:"location"`
	ExternalID *string    `db:"external_id" json:"external_id,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
