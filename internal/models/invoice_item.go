package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Discount kinds for an invoice line.
const (
	DiscountPercentage = "Percentage"
	DiscountAmount     = "Amount"
)

// InvoiceItem is one line of an invoice. Price and GSTRate are snapshots
// captured when the line is created; later edits to the Item master must not
// change what was invoiced.
type InvoiceItem struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	InvoiceID       uuid.UUID       `json:"invoice_id" db:"invoice_id"`
	ItemID          uuid.UUID       `json:"item_id" db:"item_id"`
	Price           decimal.Decimal `json:"price" db:"price"`
	GSTRate         decimal.Decimal `json:"gst_rate" db:"gst_rate"`
	QuantityShipped int             `json:"quantity_shipped" db:"quantity_shipped"`
	QuantityBilled  int             `json:"quantity_billed" db:"quantity_billed"`
	DiscountType    string          `json:"discount_type" db:"discount_type"`
	DiscountValue   decimal.Decimal `json:"discount_value" db:"discount_value"`

	// Joined item master record, populated by the repository.
	Item *Item `json:"item,omitempty" db:"-"`
}
