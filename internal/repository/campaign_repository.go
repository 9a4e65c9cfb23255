package repository

import (
	"database/sql"
	"fmt"
	"time"

	appErrors "github.com/unclebandit/recruitflow-backend/internal/errors"
	"github.com/unclebandit/recruitflow-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	// Campaign CRUD
	Create(c *model.Campaign) error
	GetByID(id int) (*model.Campaign, error)
	ListCampaigns(offset, limit int, status string) ([]*model.Campaign, int, error)
	ListRecent(limit int) ([]model.Campaign, error)
	UpdateStatus(campaignID int, status string) error
	UpdateCounters(campaignID, total, sent, delivered int) error
	IncrementEngagement(campaignID int, kind string) error
	Delete(campaignID int) error

	// Aggregates
	CountAll() (int, error)
	SumCounters() (total, sent, delivered, opened, clicked int, err error)
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, company_id, position_title, email_subject, email_template, status,
        total_emails, emails_sent, emails_delivered, emails_opened, emails_clicked, created_at, updated_at`

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) Create(c *model.Campaign) error {
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = model.CampaignStatusDraft
	}
	query := `
        INSERT INTO campaigns (company_id, position_title, email_subject, email_template, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	return r.DB.QueryRow(query, c.CompanyID, c.PositionTitle, c.EmailSubject, c.EmailTemplate, c.Status, c.CreatedAt).Scan(&c.ID)
}

func scanCampaign(c *model.Campaign, scan func(dest ...any) error) error {
	return scan(&c.ID, &c.CompanyID, &c.PositionTitle, &c.EmailSubject, &c.EmailTemplate, &c.Status,
		&c.TotalEmails, &c.EmailsSent, &c.EmailsDelivered, &c.EmailsOpened, &c.EmailsClicked, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1`
	var c model.Campaign
	err := scanCampaign(&c, r.DB.QueryRow(query, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) ListCampaigns(offset, limit int, status string) ([]*model.Campaign, int, error) {
	campaigns := []*model.Campaign{}
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if status != "" {
		query += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		c := &model.Campaign{}
		if err := scanCampaign(c, rows.Scan); err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, c)
	}

	// Count total
	countQuery := `SELECT COUNT(*) FROM campaigns WHERE 1=1`
	argsCount := []interface{}{}
	if status != "" {
		countQuery += " AND status=$1"
		argsCount = append(argsCount, status)
	}

	var total int
	if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

// ListRecent fetches the most recently created campaigns
func (r *CampaignRepository) ListRecent(limit int) ([]model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns ORDER BY created_at DESC LIMIT $1`
	rows, err := r.DB.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []model.Campaign{}
	for rows.Next() {
		var c model.Campaign
		if err := scanCampaign(&c, rows.Scan); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) UpdateStatus(campaignID int, status string) error {
	query := `UPDATE campaigns SET status=$1, updated_at=$2 WHERE id=$3`
	_, err := r.DB.Exec(query, status, time.Now(), campaignID)
	return err
}

// UpdateCounters snapshots the dispatch outcome. Counters only ever move
// forward; the dispatcher is their single writer.
func (r *CampaignRepository) UpdateCounters(campaignID, total, sent, delivered int) error {
	query := `
        UPDATE campaigns
        SET total_emails=$1, emails_sent=$2, emails_delivered=$3, updated_at=NOW()
        WHERE id=$4
    `
	_, err := r.DB.Exec(query, total, sent, delivered, campaignID)
	return err
}

// IncrementEngagement bumps the opened or clicked counter by one.
func (r *CampaignRepository) IncrementEngagement(campaignID int, kind string) error {
	var column string
	switch kind {
	case model.EmailLogStatusOpened:
		column = "emails_opened"
	case model.EmailLogStatusClicked:
		column = "emails_clicked"
	default:
		return fmt.Errorf("unknown engagement counter %q", kind)
	}
	query := `UPDATE campaigns SET ` + column + `=` + column + `+1, updated_at=NOW() WHERE id=$1`
	_, err := r.DB.Exec(query, campaignID)
	return err
}

// Delete removes a campaign; email logs cascade in the store.
func (r *CampaignRepository) Delete(campaignID int) error {
	res, err := r.DB.Exec(`DELETE FROM campaigns WHERE id=$1`, campaignID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return appErrors.NewCampaignNotFound(campaignID)
	}
	return nil
}

// ====================== Aggregates ======================

func (r *CampaignRepository) CountAll() (int, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM campaigns`).Scan(&count)
	return count, err
}

// SumCounters sums the dispatch counters across every campaign.
func (r *CampaignRepository) SumCounters() (total, sent, delivered, opened, clicked int, err error) {
	query := `
        SELECT COALESCE(SUM(total_emails),0), COALESCE(SUM(emails_sent),0),
               COALESCE(SUM(emails_delivered),0), COALESCE(SUM(emails_opened),0),
               COALESCE(SUM(emails_clicked),0)
        FROM campaigns
    `
	err = r.DB.QueryRow(query).Scan(&total, &sent, &delivered, &opened, &clicked)
	return
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
