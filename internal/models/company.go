package models

import (
	"time"

	"github.com/google/uuid"
)

// CompanyProfile is the singleton seller record used for PDF headers and the
// intra/inter-state tax split. The system treats its absence as valid: the
// renderers substitute blank placeholders instead of failing.
type CompanyProfile struct {
	ID                uuid.UUID `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Address           string    `json:"address" db:"address"`
	ContactNumber     string    `json:"contact_number" db:"contact_number"`
	Email             string    `json:"email" db:"email"`
	GSTIN             string    `json:"gstin" db:"gstin"`
	State             string    `json:"state" db:"state"`
	StateCode         string    `json:"state_code" db:"state_code"`
	BankName          string    `json:"bank_name" db:"bank_name"`
	AccountHolderName string    `json:"account_holder_name" db:"account_holder_name"`
	AccountNumber     string    `json:"account_number" db:"account_number"`
	IFSCCode          string    `json:"ifsc_code" db:"ifsc_code"`
	BranchName        string    `json:"branch_name" db:"branch_name"`
	SignatureKey      *string   `json:"signature_key" db:"signature_key"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}
