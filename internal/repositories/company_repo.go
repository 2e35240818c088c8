package repositories

import (
	"context"

	"tradedocs/internal/models"

	"github.com/google/uuid"
)

type CompanyRepository interface {
	Get(ctx context.Context) (*models.CompanyProfile, error)
	Upsert(ctx context.Context, company *models.CompanyProfile) error
}

type companyRepo struct {
	db DB
}

func NewCompanyRepo(db DB) CompanyRepository {
	return &companyRepo{db: db}
}

const companyColumns = `id, name, address, contact_number, email, gstin, state, state_code, bank_name, account_holder_name, account_number, ifsc_code, branch_name, signature_key, created_at, updated_at`

// Get returns the configured company profile, or ErrNoRows when none has
// been created yet. The table holds at most one row.
func (r *companyRepo) Get(ctx context.Context) (*models.CompanyProfile, error) {
	company := &models.CompanyProfile{}
	query := `
		SELECT ` + companyColumns + `
		FROM company_profiles
		ORDER BY created_at ASC
		LIMIT 1
	`
	err := r.db.QueryRow(ctx, query).Scan(
		&company.ID, &company.Name, &company.Address, &company.ContactNumber, &company.Email,
		&company.GSTIN, &company.State, &company.StateCode, &company.BankName,
		&company.AccountHolderName, &company.AccountNumber, &company.IFSCCode, &company.BranchName,
		&company.SignatureKey, &company.CreatedAt, &company.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return company, nil
}

func (r *companyRepo) Upsert(ctx context.Context, company *models.CompanyProfile) error {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	query := `
		INSERT INTO company_profiles (id, name, address, contact_number, email, gstin, state, state_code, bank_name, account_holder_name, account_number, ifsc_code, branch_name, signature_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, address = EXCLUDED.address, contact_number = EXCLUDED.contact_number,
			email = EXCLUDED.email, gstin = EXCLUDED.gstin, state = EXCLUDED.state, state_code = EXCLUDED.state_code,
			bank_name = EXCLUDED.bank_name, account_holder_name = EXCLUDED.account_holder_name,
			account_number = EXCLUDED.account_number, ifsc_code = EXCLUDED.ifsc_code, branch_name = EXCLUDED.branch_name,
			signature_key = EXCLUDED.signature_key, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, company.ID, company.Name, company.Address, company.ContactNumber,
		company.Email, company.GSTIN, company.State, company.StateCode, company.BankName,
		company.AccountHolderName, company.AccountNumber, company.IFSCCode, company.BranchName,
		company.SignatureKey)
	return err
}
