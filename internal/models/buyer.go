package models

import (
	"time"

	"github.com/google/uuid"
)

// Buyer is the billing party (Bill To) on an invoice.
type Buyer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	GSTIN     *string   `json:"gstin" db:"gstin"`
	State     string    `json:"state" db:"state"`
	StateCode string    `json:"state_code" db:"state_code"`
	Pincode   *string   `json:"pincode" db:"pincode"`
	IsDeleted bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Normalize recomputes derived fields before the record is written.
func (b *Buyer) Normalize() {
	if code := StateCode(b.State); code != "" {
		b.StateCode = code
	}
}
