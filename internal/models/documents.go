package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryChallan is the 1:1 dispatch satellite of an invoice, created
// lazily the first time the challan step is visited.
type DeliveryChallan struct {
	ID        uuid.UUID `json:"id" db:"id"`
	InvoiceID uuid.UUID `json:"invoice_id" db:"invoice_id"`
	Date      time.Time `json:"date" db:"date"`
	Notes     *string   `json:"notes" db:"notes"`
	IsDeleted bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TransportCharges is the 1:1 transport-bill satellite of an invoice.
type TransportCharges struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	InvoiceID   uuid.UUID       `json:"invoice_id" db:"invoice_id"`
	Date        time.Time       `json:"date" db:"date"`
	Charges     decimal.Decimal `json:"charges" db:"charges"`
	Description *string         `json:"description" db:"description"`
	IsDeleted   bool            `json:"is_deleted" db:"is_deleted"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ConfirmationDocument carries the uploaded source files and the final
// combined bundle for an invoice. File fields hold object-storage keys.
type ConfirmationDocument struct {
	ID               uuid.UUID `json:"id" db:"id"`
	InvoiceID        uuid.UUID `json:"invoice_id" db:"invoice_id"`
	Date             time.Time `json:"date" db:"date"`
	POFileKey        *string   `json:"po_file_key" db:"po_file_key"`
	ApprovalFileKey  *string   `json:"approval_file_key" db:"approval_file_key"`
	CombinedPDFKey   *string   `json:"combined_pdf_key" db:"combined_pdf_key"`
	IsDeleted        bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// PackedImage is one packed-goods photo attached to a confirmation document.
type PackedImage struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ConfirmationID uuid.UUID `json:"confirmation_id" db:"confirmation_id"`
	ImageKey       string    `json:"image_key" db:"image_key"`
	Notes          *string   `json:"notes" db:"notes"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Merge source identifiers accepted in the caller's file order. The packed
// images appendix is implicit and always trails the ordered sources.
const (
	SourceInvoice   = "invoice"
	SourceChallan   = "dc"
	SourceTransport = "transport"
	SourcePO        = "po"
	SourceEmail     = "email"
)

// DefaultMergeOrder is used when the caller supplies no explicit order.
var DefaultMergeOrder = []string{SourceInvoice, SourceChallan, SourceTransport, SourcePO, SourceEmail}
