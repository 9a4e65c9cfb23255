package repository

import (
	"database/sql"
	"time"

	"github.com/unclebandit/recruitflow-backend/internal/model"
)

// CompanyRepositoryInterface defines methods used by services
type CompanyRepositoryInterface interface {
	GetByID(id int) (*model.Company, error)
	Upsert(c *model.Company) (created bool, err error)
	CountAll() (int, error)
}

// CompanyRepository is the concrete implementation
type CompanyRepository struct {
	DB *sql.DB
}

const companyColumns = `id, name, domain, industry, size, location, external_id, created_at, updated_at`

func scanCompany(row *sql.Row) (*model.Company, error) {
	var c model.Company
	err := row.Scan(&c.ID, &c.Name, &c.Domain, &c.Industry, &c.Size, &c.Location, &c.ExternalID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &c, nil
}

// GetByID fetches a company by ID
func (r *CompanyRepository) GetByID(id int) (*model.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return scanCompany(r.DB.QueryRow(query, id))
}

// GetByExternalID fetches a company by its external-source id
func (r *CompanyRepository) GetByExternalID(externalID string) (*model.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE external_id = $1`
	return scanCompany(r.DB.QueryRow(query, externalID))
}

// GetByDomain fetches a company by domain
func (r *CompanyRepository) GetByDomain(domain string) (*model.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE domain = $1`
	return scanCompany(r.DB.QueryRow(query, domain))
}

// GetByName fetches a company by name, case-insensitively
func (r *CompanyRepository) GetByName(name string) (*model.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE LOWER(name) = LOWER($1)`
	return scanCompany(r.DB.QueryRow(query, name))
}

func (r *CompanyRepository) Create(c *model.Company) error {
	c.CreatedAt = time.Now()
	query := `
        INSERT INTO companies (name, domain, industry, size, location, external_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	return r.DB.QueryRow(query, c.Name, c.Domain, c.Industry, c.Size, c.Location, c.ExternalID, c.CreatedAt).Scan(&c.ID)
}

func (r *CompanyRepository) Update(c *model.Company) error {
	query := `
        UPDATE companies
        SET name=$1, domain=$2, industry=$3, size=$4, location=$5, external_id=$6, updated_at=NOW()
        WHERE id=$7
    `
	_, err := r.DB.Exec(query, c.Name, c.Domain, c.Industry, c.Size, c.Location, c.ExternalID, c.ID)
	return err
}

// Upsert creates or refreshes a company. The natural key is the external id
// when known, then the domain, then the (case-insensitive) name. Rediscovery
// overwrites mutable fields, most recent wins. Companies are never deleted here.
func (r *CompanyRepository) Upsert(c *model.Company) (bool, error) {
	var existing *model.Company
	var err error

	if c.ExternalID != nil && *c.ExternalID != "" {
		existing, err = r.GetByExternalID(*c.ExternalID)
		if err != nil {
			return false, err
		}
	}
	if existing == nil && c.Domain != nil && *c.Domain != "" {
		existing, err = r.GetByDomain(*c.Domain)
		if err != nil {
			return false, err
		}
	}
	if existing == nil {
		existing, err = r.GetByName(c.Name)
		if err != nil {
			return false, err
		}
	}

	if existing == nil {
		return true, r.Create(c)
	}

	c.ID = existing.ID
	c.CreatedAt = existing.CreatedAt
	if c.ExternalID == nil {
		c.ExternalID = existing.ExternalID
	}
	if c.Domain == nil {
		c.Domain = existing.Domain
	}
	return false, r.Update(c)
}

// CountAll returns the number of distinct companies
func (r *CompanyRepository) CountAll() (int, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM companies`).Scan(&count)
	return count, err
}

var _ CompanyRepositoryInterface = (*CompanyRepository)(nil)
