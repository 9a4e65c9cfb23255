package repository

import (
	"database/sql"
	"time"

	"github.com/unclebandit/recruitflow-backend/internal/model"
)

// ContactRepositoryInterface defines methods used by services
type ContactRepositoryInterface interface {
	GetByID(id int) (*model.Contact, error)
	GetByCompanyAndEmail(companyID int, email string) (*model.Contact, error)
	Upsert(c *model.Contact) (existing bool, err error)
	ListValidByCompany(companyID int) ([]model.Contact, error)
	CountAll() (int, error)
}

// ContactRepository is the concrete implementation
type ContactRepository struct {
	DB *sql.DB
}

const contactColumns = `id, company_id, email, first_name, last_name, title, department, profile_url, email_status, created_at, updated_at`

func scanContact(row *sql.Row) (*model.Contact, error) {
	var c model.Contact
	err := row.Scan(&c.ID, &c.CompanyID, &c.Email, &c.FirstName, &c.LastName, &c.Title, &c.Department, &c.ProfileURL, &c.EmailStatus, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &c, nil
}

// GetByID fetches a contact by ID
func (r *ContactRepository) GetByID(id int) (*model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
	return scanContact(r.DB.QueryRow(query, id))
}

// GetByCompanyAndEmail fetches a contact by its natural key. The match on
// email is exact; (company_id, email) is unique in the store.
func (r *ContactRepository) GetByCompanyAndEmail(companyID int, email string) (*model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE company_id = $1 AND email = $2`
	return scanContact(r.DB.QueryRow(query, companyID, email))
}

func (r *ContactRepository) Create(c *model.Contact) error {
	c.CreatedAt = time.Now()
	if c.EmailStatus == "" {
		c.EmailStatus = model.EmailStatusUnverified
	}
	query := `
        INSERT INTO contacts (company_id, email, first_name, last_name, title, department, profile_url, email_status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `
	return r.DB.QueryRow(query, c.CompanyID, c.Email, c.FirstName, c.LastName, c.Title, c.Department, c.ProfileURL, c.EmailStatus, c.CreatedAt).Scan(&c.ID)
}

func (r *ContactRepository) Update(c *model.Contact) error {
	query := `
        UPDATE contacts
        SET first_name=$1, last_name=$2, title=$3, department=$4, profile_url=$5, email_status=$6, updated_at=NOW()
        WHERE id=$7
    `
	_, err := r.DB.Exec(query, c.FirstName, c.LastName, c.Title, c.Department, c.ProfileURL, c.EmailStatus, c.ID)
	return err
}

// Upsert creates or refreshes a contact keyed on (company_id, email).
// Resolving the same contact twice yields one row, refreshed in place.
func (r *ContactRepository) Upsert(c *model.Contact) (bool, error) {
	found, err := r.GetByCompanyAndEmail(c.CompanyID, c.Email)
	if err != nil {
		return false, err
	}
	if found == nil {
		return false, r.Create(c)
	}

	c.ID = found.ID
	c.CreatedAt = found.CreatedAt
	return true, r.Update(c)
}

// ListValidByCompany fetches the contacts eligible for dispatch
func (r *ContactRepository) ListValidByCompany(companyID int) ([]model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE company_id = $1 AND email_status = $2 ORDER BY id`
	rows, err := r.DB.Query(query, companyID, model.EmailStatusValid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Email, &c.FirstName, &c.LastName, &c.Title, &c.Department, &c.ProfileURL, &c.EmailStatus, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// CountAll returns the number of distinct contacts
func (r *ContactRepository) CountAll() (int, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM contacts`).Scan(&count)
	return count, err
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)
