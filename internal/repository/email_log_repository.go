package repository

import (
	"database/sql"
	"time"

	"github.com/unclebandit/recruitflow-backend/internal/model"
)

// EmailLogRepositoryInterface defines methods used by the dispatcher and the
// engagement event worker
type EmailLogRepositoryInterface interface {
	Create(l *model.EmailLog) error
	GetByID(id int) (*model.EmailLog, error)
	GetByCampaignAndEmail(campaignID int, email string) (*model.EmailLog, error)
	MarkSent(id int, at time.Time) error
	MarkFailed(id int, errorMessage string) error
	ApplyEngagement(id int, status string, at time.Time) error
	StatusCounts(campaignID int) (map[string]int, error)
	ListByCampaign(campaignID int) ([]model.EmailLog, error)
}

type EmailLogRepository struct {
	DB *sql.DB
}

const emailLogColumns = `id, campaign_id, contact_id, email, subject, content, status, error_message,
        sent_at, delivered_at, opened_at, clicked_at, created_at, updated_at`

func scanEmailLog(l *model.EmailLog, scan func(dest ...any) error) error {
	return scan(&l.ID, &l.CampaignID, &l.ContactID, &l.Email, &l.Subject, &l.Content, &l.Status, &l.ErrorMessage,
		&l.SentAt, &l.DeliveredAt, &l.OpenedAt, &l.ClickedAt, &l.CreatedAt, &l.UpdatedAt)
}

// Create inserts a new email log in pending, one row per (campaign, contact)
func (r *EmailLogRepository) Create(l *model.EmailLog) error {
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now
	if l.Status == "" {
		l.Status = model.EmailLogStatusPending
	}

	query := `
        INSERT INTO email_logs (campaign_id, contact_id, email, subject, content, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	return r.DB.QueryRow(query, l.CampaignID, l.ContactID, l.Email, l.Subject, l.Content, l.Status, l.CreatedAt, l.UpdatedAt).Scan(&l.ID)
}

// GetByID fetches an email log by its ID
func (r *EmailLogRepository) GetByID(id int) (*model.EmailLog, error) {
	query := `SELECT ` + emailLogColumns + ` FROM email_logs WHERE id=$1`
	var l model.EmailLog
	err := scanEmailLog(&l, r.DB.QueryRow(query, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// GetByCampaignAndEmail fetches the log row an engagement event refers to
func (r *EmailLogRepository) GetByCampaignAndEmail(campaignID int, email string) (*model.EmailLog, error) {
	query := `SELECT ` + emailLogColumns + ` FROM email_logs WHERE campaign_id=$1 AND email=$2`
	var l model.EmailLog
	err := scanEmailLog(&l, r.DB.QueryRow(query, campaignID, email).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// MarkSent transitions a pending log to sent. The delivery provider confirms
// acceptance synchronously, so delivered_at is stamped at the same moment.
func (r *EmailLogRepository) MarkSent(id int, at time.Time) error {
	query := `
        UPDATE email_logs
        SET status=$1, error_message='', sent_at=$2, delivered_at=$2, updated_at=NOW()
        WHERE id=$3
    `
	_, err := r.DB.Exec(query, model.EmailLogStatusSent, at, id)
	return err
}

// MarkFailed records the terminal failure after retries are exhausted
func (r *EmailLogRepository) MarkFailed(id int, errorMessage string) error {
	query := `UPDATE email_logs SET status=$1, error_message=$2, updated_at=NOW() WHERE id=$3`
	_, err := r.DB.Exec(query, model.EmailLogStatusFailed, errorMessage, id)
	return err
}

// ApplyEngagement transitions a log to delivered/opened/clicked/bounced and
// stamps the matching timestamp column exactly once.
func (r *EmailLogRepository) ApplyEngagement(id int, status string, at time.Time) error {
	switch status {
	case model.EmailLogStatusDelivered:
		_, err := r.DB.Exec(`UPDATE email_logs SET status=$1, delivered_at=COALESCE(delivered_at,$2), updated_at=NOW() WHERE id=$3`, status, at, id)
		return err
	case model.EmailLogStatusOpened:
		_, err := r.DB.Exec(`UPDATE email_logs SET status=$1, opened_at=COALESCE(opened_at,$2), updated_at=NOW() WHERE id=$3`, status, at, id)
		return err
	case model.EmailLogStatusClicked:
		_, err := r.DB.Exec(`UPDATE email_logs SET status=$1, clicked_at=COALESCE(clicked_at,$2), updated_at=NOW() WHERE id=$3`, status, at, id)
		return err
	default:
		_, err := r.DB.Exec(`UPDATE email_logs SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
		return err
	}
}

// StatusCounts returns per-status log counts for a campaign
func (r *EmailLogRepository) StatusCounts(campaignID int) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM email_logs WHERE campaign_id=$1 GROUP BY status`
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{"pending": 0, "sent": 0, "failed": 0}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// ListByCampaign fetches every log row for a campaign
func (r *EmailLogRepository) ListByCampaign(campaignID int) ([]model.EmailLog, error) {
	query := `SELECT ` + emailLogColumns + ` FROM email_logs WHERE campaign_id=$1 ORDER BY id`
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []model.EmailLog{}
	for rows.Next() {
		var l model.EmailLog
		if err := scanEmailLog(&l, rows.Scan); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

var _ EmailLogRepositoryInterface = (*EmailLogRepository)(nil)
