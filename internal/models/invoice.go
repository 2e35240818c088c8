package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice workflow statuses, in strict forward order. No backward
// transitions, no skipping.
const (
	StatusDraft           = "DRF"
	StatusChallanLogged   = "DC"
	StatusTransportLogged = "TRP"
	StatusFinalized       = "FIN"
)

var statusRank = map[string]int{
	StatusDraft:           0,
	StatusChallanLogged:   1,
	StatusTransportLogged: 2,
	StatusFinalized:       3,
}

// StatusAtLeast reports whether status has reached min in the workflow order.
func StatusAtLeast(status, min string) bool {
	r, ok := statusRank[status]
	m, ok2 := statusRank[min]
	return ok && ok2 && r >= m
}

// SalesInvoice is the aggregate root of the document workflow. The tax
// totals, grand total and words fields are always derived from the current
// line items; they are recomputed on every write, never hand-edited.
type SalesInvoice struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	BuyerID    *uuid.UUID `json:"buyer_id" db:"buyer_id"`
	LocationID uuid.UUID  `json:"location_id" db:"location_id"`
	Date       time.Time  `json:"date" db:"date"`

	// DisplayNumber is allocated once from the sequential series
	// (e.g. Tsol-00042) and immutable afterwards. ReferenceNumber is the
	// externally assigned number and may be edited freely.
	DisplayNumber   *string `json:"display_number" db:"display_number"`
	ReferenceNumber *string `json:"reference_number" db:"reference_number"`

	Status string `json:"status" db:"status"`

	// Header metadata printed on the documents.
	DeliveryNote      *string   `json:"delivery_note" db:"delivery_note"`
	PaymentTerms      string    `json:"payment_terms" db:"payment_terms"`
	ReferenceNoDate   *string   `json:"reference_no_date" db:"reference_no_date"`
	OtherReferences   string    `json:"other_references" db:"other_references"`
	BuyersOrderNo     *string   `json:"buyers_order_no" db:"buyers_order_no"`
	BuyersOrderDate   time.Time `json:"buyers_order_date" db:"buyers_order_date"`
	DispatchDocNo     *string   `json:"dispatch_doc_no" db:"dispatch_doc_no"`
	DeliveryNoteDate  time.Time `json:"delivery_note_date" db:"delivery_note_date"`
	DispatchedThrough *string   `json:"dispatched_through" db:"dispatched_through"`
	Destination       *string   `json:"destination" db:"destination"`
	TermsOfDelivery   *string   `json:"terms_of_delivery" db:"terms_of_delivery"`
	Remark            *string   `json:"remark" db:"remark"`

	// GST computed fields.
	CustomerGSTIN    *string         `json:"customer_gstin" db:"customer_gstin"`
	PlaceOfSupply    *string         `json:"place_of_supply" db:"place_of_supply"`
	CGSTTotal        decimal.Decimal `json:"cgst_total" db:"cgst_total"`
	SGSTTotal        decimal.Decimal `json:"sgst_total" db:"sgst_total"`
	IGSTTotal        decimal.Decimal `json:"igst_total" db:"igst_total"`
	Total            decimal.Decimal `json:"total" db:"total"`
	AmountInWords    *string         `json:"amount_in_words" db:"amount_in_words"`
	TaxAmountInWords *string         `json:"tax_amount_in_words" db:"tax_amount_in_words"`

	IsDeleted bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Joined party records, populated by the repository when requested.
	Buyer    *Buyer         `json:"buyer,omitempty" db:"-"`
	Location *StoreLocation `json:"location,omitempty" db:"-"`
}

// Number returns the number printed on documents: the external reference
// number when present, else the allocated display number.
func (inv *SalesInvoice) Number() string {
	if inv.ReferenceNumber != nil && *inv.ReferenceNumber != "" {
		return *inv.ReferenceNumber
	}
	if inv.DisplayNumber != nil {
		return *inv.DisplayNumber
	}
	return ""
}
