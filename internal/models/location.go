package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreLocation is the shipping/consignee party (Ship To) on an invoice.
type StoreLocation struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	SiteCode  *string   `json:"site_code" db:"site_code"`
	Address   string    `json:"address" db:"address"`
	City      *string   `json:"city" db:"city"`
	State     string    `json:"state" db:"state"`
	StateCode string    `json:"state_code" db:"state_code"`
	Pincode   *string   `json:"pincode" db:"pincode"`
	GSTIN     *string   `json:"gstin" db:"gstin"`
	Priority  *string   `json:"priority" db:"priority"`
	IsDeleted bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Normalize recomputes derived fields before the record is written.
func (l *StoreLocation) Normalize() {
	if code := StateCode(l.State); code != "" {
		l.StateCode = code
	}
}
