package repository

import (
	"database/sql"
	"go-project-api/logger"
	"go-project-api/model"

	"github.com/sirupsen/logrus"
)

// ICompanyRepository defines the contract for company (tenant) persistence.
type ICompanyRepository interface {
	CreateCompany(tx *sql.Tx, company *model.Company) error
	GetCompanyByJoinCode(joinCode string) (*model.Company, error)
}

type CompanyRepository struct {
	DB *sql.DB
}

func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{DB: db}
}

// CreateCompany inserts a company inside the caller's transaction; the admin
// user is created in the same transaction during company registration.
func (r *CompanyRepository) CreateCompany(tx *sql.Tx, company *model.Company) error {
	log := logger.Log.WithFields(logrus.Fields{
		"company_name": company.Name,
		"join_code":    company.JoinCode,
	})
	log.Info("Executing query to create a new company")

	query := `INSERT INTO companies (name, domain, join_code) VALUES ($1, NULLIF($2, ''), $3) RETURNING id, created_at`
	err := tx.QueryRow(query, company.Name, company.Domain, company.JoinCode).Scan(&company.ID, &company.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create company query")
		return err
	}
	return nil
}

func (r *CompanyRepository) GetCompanyByJoinCode(joinCode string) (*model.Company, error) {
	company := &model.Company{}
	var domain sql.NullString
	query := `SELECT id, name, domain, join_code, created_at FROM companies WHERE join_code=$1`
	err := r.DB.QueryRow(query, joinCode).Scan(&company.ID, &company.Name, &domain, &company.JoinCode, &company.CreatedAt)
	if err != nil {
		return nil, err // sql.ErrNoRows when the join code is unknown
	}
	company.Domain = domain.String
	return company, nil
}
