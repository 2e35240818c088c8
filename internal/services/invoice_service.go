package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"tradedocs/internal/gst"
	"tradedocs/internal/models"
	"tradedocs/internal/pdf"
	"tradedocs/internal/repositories"
)

// maxAllocationAttempts bounds the retry loop around display number
// allocation. Two concurrent creations can race to the same number; the
// loser re-reads the series and tries again.
const maxAllocationAttempts = 5

// LineInput is one requested invoice line. Price and GSTRate are optional
// overrides; when nil the current item master values are snapshotted.
type LineInput struct {
	ItemID          uuid.UUID        `json:"item_id"`
	QuantityShipped int              `json:"quantity_shipped"`
	QuantityBilled  int              `json:"quantity_billed"`
	DiscountType    string           `json:"discount_type"`
	DiscountValue   decimal.Decimal  `json:"discount_value"`
	Price           *decimal.Decimal `json:"price"`
	GSTRate         *decimal.Decimal `json:"gst_rate"`
}

// InvoiceInput carries the editable invoice fields for create and update.
type InvoiceInput struct {
	BuyerID           *uuid.UUID  `json:"buyer_id"`
	LocationID        uuid.UUID   `json:"location_id"`
	Date              time.Time   `json:"date"`
	ReferenceNumber   *string     `json:"reference_number"`
	DeliveryNote      *string     `json:"delivery_note"`
	PaymentTerms      string      `json:"payment_terms"`
	ReferenceNoDate   *string     `json:"reference_no_date"`
	OtherReferences   string      `json:"other_references"`
	BuyersOrderNo     *string     `json:"buyers_order_no"`
	BuyersOrderDate   time.Time   `json:"buyers_order_date"`
	DispatchDocNo     *string     `json:"dispatch_doc_no"`
	DeliveryNoteDate  time.Time   `json:"delivery_note_date"`
	DispatchedThrough *string     `json:"dispatched_through"`
	Destination       *string     `json:"destination"`
	TermsOfDelivery   *string     `json:"terms_of_delivery"`
	Remark            *string     `json:"remark"`
	CustomerGSTIN     *string     `json:"customer_gstin"`
	PlaceOfSupply     *string     `json:"place_of_supply"`
	Lines             []LineInput `json:"lines"`
}

type InvoiceService interface {
	Create(ctx context.Context, input *InvoiceInput) (*models.SalesInvoice, error)
	Get(ctx context.Context, id uuid.UUID) (*models.SalesInvoice, []*models.InvoiceItem, error)
	Update(ctx context.Context, id uuid.UUID, input *InvoiceInput) (*models.SalesInvoice, error)
	List(ctx context.Context, filter repositories.InvoiceFilter) ([]*models.SalesInvoice, error)
	ListTrash(ctx context.Context, limit, offset int) ([]*models.SalesInvoice, error)
	Trash(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	Purge(ctx context.Context, id uuid.UUID) error
	RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error)
}

type invoiceService struct {
	invoices  repositories.InvoiceRepository
	items     repositories.ItemRepository
	buyers    repositories.BuyerRepository
	locations repositories.LocationRepository
	company   CompanyService
	activity  ActivityService
	prefix    string
	log       *logrus.Logger
}

func NewInvoiceService(invoices repositories.InvoiceRepository, items repositories.ItemRepository, buyers repositories.BuyerRepository, locations repositories.LocationRepository, company CompanyService, activity ActivityService, prefix string, log *logrus.Logger) InvoiceService {
	if prefix == "" {
		prefix = "Tsol"
	}
	return &invoiceService{
		invoices: invoices, items: items, buyers: buyers, locations: locations,
		company: company, activity: activity, prefix: prefix, log: log,
	}
}

// buildLines resolves line inputs against the item master, snapshotting
// price and GST rate so later master edits never rewrite this invoice.
func (s *invoiceService) buildLines(ctx context.Context, inputs []LineInput) ([]*models.InvoiceItem, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("invoice requires at least one line item")
	}

	var lines []*models.InvoiceItem
	for i, in := range inputs {
		master, err := s.items.GetByID(ctx, in.ItemID)
		if err != nil {
			return nil, fmt.Errorf("line %d: failed to load item: %w", i+1, err)
		}
		if in.QuantityBilled <= 0 {
			return nil, fmt.Errorf("line %d: quantity_billed must be positive", i+1)
		}
		if in.QuantityShipped < 0 {
			return nil, fmt.Errorf("line %d: quantity_shipped must not be negative", i+1)
		}

		line := &models.InvoiceItem{
			ID:              uuid.New(),
			ItemID:          master.ID,
			Price:           master.Price,
			GSTRate:         master.GSTRate,
			QuantityShipped: in.QuantityShipped,
			QuantityBilled:  in.QuantityBilled,
			DiscountType:    in.DiscountType,
			DiscountValue:   in.DiscountValue,
			Item:            master,
		}
		if line.QuantityShipped == 0 {
			line.QuantityShipped = in.QuantityBilled
		}
		if line.DiscountType == "" {
			line.DiscountType = models.DiscountPercentage
		}
		if line.DiscountType != models.DiscountPercentage && line.DiscountType != models.DiscountAmount {
			return nil, fmt.Errorf("line %d: unknown discount type %q", i+1, line.DiscountType)
		}
		if line.DiscountValue.IsNegative() {
			return nil, fmt.Errorf("line %d: discount_value must not be negative", i+1)
		}
		if in.Price != nil {
			if in.Price.IsNegative() {
				return nil, fmt.Errorf("line %d: price must not be negative", i+1)
			}
			line.Price = *in.Price
		}
		if in.GSTRate != nil {
			if !models.ValidGSTRate(*in.GSTRate) {
				return nil, fmt.Errorf("line %d: gst_rate %s is not one of the allowed rates", i+1, in.GSTRate)
			}
			line.GSTRate = *in.GSTRate
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func applyInput(inv *models.SalesInvoice, input *InvoiceInput) {
	inv.BuyerID = input.BuyerID
	inv.LocationID = input.LocationID
	inv.Date = input.Date
	inv.ReferenceNumber = input.ReferenceNumber
	inv.DeliveryNote = input.DeliveryNote
	inv.PaymentTerms = input.PaymentTerms
	inv.ReferenceNoDate = input.ReferenceNoDate
	inv.OtherReferences = input.OtherReferences
	inv.BuyersOrderNo = input.BuyersOrderNo
	inv.BuyersOrderDate = input.BuyersOrderDate
	inv.DispatchDocNo = input.DispatchDocNo
	inv.DeliveryNoteDate = input.DeliveryNoteDate
	inv.DispatchedThrough = input.DispatchedThrough
	inv.Destination = input.Destination
	inv.TermsOfDelivery = input.TermsOfDelivery
	inv.Remark = input.Remark
	inv.CustomerGSTIN = input.CustomerGSTIN
	inv.PlaceOfSupply = input.PlaceOfSupply
}

func (s *invoiceService) Create(ctx context.Context, input *InvoiceInput) (*models.SalesInvoice, error) {
	if input.LocationID == uuid.Nil {
		return nil, fmt.Errorf("location_id is required")
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	lines, err := s.buildLines(ctx, input.Lines)
	if err != nil {
		return nil, err
	}

	company, err := s.company.Get(ctx)
	if err != nil {
		return nil, err
	}

	invoice := &models.SalesInvoice{
		ID:     uuid.New(),
		Status: models.StatusDraft,
	}
	applyInput(invoice, input)
	if invoice.PaymentTerms == "" {
		invoice.PaymentTerms = "30 Days"
	}

	// Totals need the joined parties for place-of-supply and GSTIN fallback.
	s.joinParties(ctx, invoice)
	gst.ComputeTotals(invoice, lines, company.StateCode)

	for attempt := 1; ; attempt++ {
		err = s.invoices.CreateWithNumber(ctx, invoice, s.prefix)
		if err == nil {
			break
		}
		if !repositories.IsUniqueViolation(err) || attempt >= maxAllocationAttempts {
			return nil, fmt.Errorf("failed to create invoice: %w", err)
		}
		s.log.WithField("attempt", attempt).Warn("display number collision, retrying allocation")
	}

	if err := s.invoices.ReplaceItems(ctx, invoice.ID, lines); err != nil {
		return nil, fmt.Errorf("failed to store invoice lines: %w", err)
	}

	s.activity.Record(ctx, "invoice.created", fmt.Sprintf("invoice %s created", invoice.Number()))
	return invoice, nil
}

// joinParties loads buyer and location onto the invoice so tax resolution
// can read their state codes and GSTINs. A missing party is tolerated; the
// defaults take over during computation.
func (s *invoiceService) joinParties(ctx context.Context, inv *models.SalesInvoice) {
	if inv.BuyerID != nil {
		if buyer, err := s.buyers.GetByID(ctx, *inv.BuyerID); err == nil {
			inv.Buyer = buyer
		}
	}
	if location, err := s.locations.GetByID(ctx, inv.LocationID); err == nil {
		inv.Location = location
	}
}

func (s *invoiceService) Get(ctx context.Context, id uuid.UUID) (*models.SalesInvoice, []*models.InvoiceItem, error) {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.invoices.ListItems(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load invoice lines: %w", err)
	}
	return invoice, items, nil
}

// Update rewrites the editable fields and the full line set, then recomputes
// totals. Finalized invoices are immutable.
func (s *invoiceService) Update(ctx context.Context, id uuid.UUID, input *InvoiceInput) (*models.SalesInvoice, error) {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status == models.StatusFinalized {
		return nil, fmt.Errorf("invoice %s is finalized and cannot be edited", invoice.Number())
	}

	lines, err := s.buildLines(ctx, input.Lines)
	if err != nil {
		return nil, err
	}
	company, err := s.company.Get(ctx)
	if err != nil {
		return nil, err
	}

	applyInput(invoice, input)
	s.joinParties(ctx, invoice)
	gst.ComputeTotals(invoice, lines, company.StateCode)

	if err := s.invoices.ReplaceItems(ctx, invoice.ID, lines); err != nil {
		return nil, fmt.Errorf("failed to store invoice lines: %w", err)
	}
	if err := s.invoices.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	s.activity.Record(ctx, "invoice.updated", fmt.Sprintf("invoice %s updated", invoice.Number()))
	return invoice, nil
}

func (s *invoiceService) List(ctx context.Context, filter repositories.InvoiceFilter) ([]*models.SalesInvoice, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.invoices.List(ctx, filter)
}

func (s *invoiceService) ListTrash(ctx context.Context, limit, offset int) ([]*models.SalesInvoice, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.invoices.ListTrash(ctx, limit, offset)
}

func (s *invoiceService) Trash(ctx context.Context, id uuid.UUID) error {
	if err := s.invoices.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to trash invoice: %w", err)
	}
	s.activity.Record(ctx, "invoice.trashed", fmt.Sprintf("invoice %s moved to trash", id))
	return nil
}

func (s *invoiceService) Restore(ctx context.Context, id uuid.UUID) error {
	if err := s.invoices.Restore(ctx, id); err != nil {
		return fmt.Errorf("failed to restore invoice: %w", err)
	}
	s.activity.Record(ctx, "invoice.restored", fmt.Sprintf("invoice %s restored from trash", id))
	return nil
}

func (s *invoiceService) Purge(ctx context.Context, id uuid.UUID) error {
	if err := s.invoices.Purge(ctx, id); err != nil {
		return fmt.Errorf("failed to purge invoice: %w", err)
	}
	s.activity.Record(ctx, "invoice.purged", fmt.Sprintf("invoice %s permanently deleted", id))
	return nil
}

// RenderPDF produces the tax invoice document and its download filename.
func (s *invoiceService) RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	invoice, items, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	company, err := s.company.Get(ctx)
	if err != nil {
		return nil, "", err
	}

	data, err := pdf.RenderInvoice(invoice, items, company, s.company.GetSignature(ctx))
	if err != nil {
		return nil, "", fmt.Errorf("failed to render invoice PDF: %w", err)
	}
	return data, fmt.Sprintf("invoice_%s.pdf", invoice.Number()), nil
}
