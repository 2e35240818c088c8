package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tradedocs/internal/models"

	"github.com/google/uuid"
)

// InvoiceFilter narrows List results. Zero values mean "no constraint".
type InvoiceFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

type InvoiceRepository interface {
	CreateWithNumber(ctx context.Context, invoice *models.SalesInvoice, prefix string) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SalesInvoice, error)
	Update(ctx context.Context, invoice *models.SalesInvoice) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	List(ctx context.Context, filter InvoiceFilter) ([]*models.SalesInvoice, error)
	ListTrash(ctx context.Context, limit, offset int) ([]*models.SalesInvoice, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	Purge(ctx context.Context, id uuid.UUID) error
	ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []*models.InvoiceItem) error
	ListItems(ctx context.Context, invoiceID uuid.UUID) ([]*models.InvoiceItem, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type invoiceRepo struct {
	db DB
}

func NewInvoiceRepo(db DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceColumns = `id, buyer_id, location_id, date, display_number, reference_number, status,
	delivery_note, payment_terms, reference_no_date, other_references, buyers_order_no, buyers_order_date,
	dispatch_doc_no, delivery_note_date, dispatched_through, destination, terms_of_delivery, remark,
	customer_gstin, place_of_supply, cgst_total, sgst_total, igst_total, total,
	amount_in_words, tax_amount_in_words, is_deleted, created_at, updated_at`

func scanInvoice(row interface{ Scan(dest ...any) error }, inv *models.SalesInvoice) error {
	return row.Scan(
		&inv.ID, &inv.BuyerID, &inv.LocationID, &inv.Date, &inv.DisplayNumber, &inv.ReferenceNumber,
		&inv.Status, &inv.DeliveryNote, &inv.PaymentTerms, &inv.ReferenceNoDate, &inv.OtherReferences,
		&inv.BuyersOrderNo, &inv.BuyersOrderDate, &inv.DispatchDocNo, &inv.DeliveryNoteDate,
		&inv.DispatchedThrough, &inv.Destination, &inv.TermsOfDelivery, &inv.Remark,
		&inv.CustomerGSTIN, &inv.PlaceOfSupply, &inv.CGSTTotal, &inv.SGSTTotal, &inv.IGSTTotal,
		&inv.Total, &inv.AmountInWords, &inv.TaxAmountInWords, &inv.IsDeleted, &inv.CreatedAt, &inv.UpdatedAt,
	)
}

// NextSequence derives the next sequential number from the highest display
// number already allocated for prefix. A suffix that does not parse as an
// integer restarts the series at 1 rather than failing document creation.
func NextSequence(highest, prefix string) int {
	if highest == "" {
		return 1
	}
	suffix := strings.TrimPrefix(highest, prefix+"-")
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 1
	}
	return n + 1
}

// FormatDisplayNumber renders a sequence number in the document series
// format, e.g. Tsol-00042.
func FormatDisplayNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s-%05d", prefix, seq)
}

// CreateWithNumber allocates the next display number and inserts the invoice
// in one transaction. The display_number unique constraint is the arbiter
// under concurrency: on a collision the insert fails with a unique violation
// and the caller retries, re-reading the new maximum.
func (r *invoiceRepo) CreateWithNumber(ctx context.Context, invoice *models.SalesInvoice, prefix string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Longer suffixes sort first so the series keeps counting past the
	// five-digit zero padding (Tsol-100000 beats Tsol-99999).
	var highest string
	query := `
		SELECT display_number FROM sales_invoices
		WHERE display_number LIKE $1 || '-%'
		ORDER BY length(display_number) DESC, display_number DESC
		LIMIT 1
	`
	err = tx.QueryRow(ctx, query, prefix).Scan(&highest)
	if err != nil && !IsNotFound(err) {
		return err
	}

	number := FormatDisplayNumber(prefix, NextSequence(highest, prefix))
	invoice.DisplayNumber = &number

	insert := `
		INSERT INTO sales_invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, false, NOW(), NOW())
	`
	_, err = tx.Exec(ctx, insert,
		invoice.ID, invoice.BuyerID, invoice.LocationID, invoice.Date, invoice.DisplayNumber,
		invoice.ReferenceNumber, invoice.Status, invoice.DeliveryNote, invoice.PaymentTerms,
		invoice.ReferenceNoDate, invoice.OtherReferences, invoice.BuyersOrderNo, invoice.BuyersOrderDate,
		invoice.DispatchDocNo, invoice.DeliveryNoteDate, invoice.DispatchedThrough, invoice.Destination,
		invoice.TermsOfDelivery, invoice.Remark, invoice.CustomerGSTIN, invoice.PlaceOfSupply,
		invoice.CGSTTotal, invoice.SGSTTotal, invoice.IGSTTotal, invoice.Total,
		invoice.AmountInWords, invoice.TaxAmountInWords)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID loads the invoice with its buyer and location joined. Soft-deleted
// invoices are excluded; use ListTrash to see them.
func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SalesInvoice, error) {
	invoice := &models.SalesInvoice{}
	query := `SELECT ` + invoiceColumns + ` FROM sales_invoices WHERE id = $1 AND is_deleted = false`
	if err := scanInvoice(r.db.QueryRow(ctx, query, id), invoice); err != nil {
		return nil, err
	}

	if invoice.BuyerID != nil {
		buyer, err := NewBuyerRepo(r.db).GetByID(ctx, *invoice.BuyerID)
		if err != nil && !IsNotFound(err) {
			return nil, err
		}
		invoice.Buyer = buyer
	}
	location, err := NewLocationRepo(r.db).GetByID(ctx, invoice.LocationID)
	if err != nil && !IsNotFound(err) {
		return nil, err
	}
	invoice.Location = location

	return invoice, nil
}

// Update writes all editable fields. The display number and status are
// deliberately excluded; they change only through their dedicated paths.
func (r *invoiceRepo) Update(ctx context.Context, invoice *models.SalesInvoice) error {
	query := `
		UPDATE sales_invoices
		SET buyer_id = $1, location_id = $2, date = $3, reference_number = $4, delivery_note = $5,
			payment_terms = $6, reference_no_date = $7, other_references = $8, buyers_order_no = $9,
			buyers_order_date = $10, dispatch_doc_no = $11, delivery_note_date = $12,
			dispatched_through = $13, destination = $14, terms_of_delivery = $15, remark = $16,
			customer_gstin = $17, place_of_supply = $18, cgst_total = $19, sgst_total = $20,
			igst_total = $21, total = $22, amount_in_words = $23, tax_amount_in_words = $24,
			updated_at = NOW()
		WHERE id = $25 AND is_deleted = false
	`
	_, err := r.db.Exec(ctx, query,
		invoice.BuyerID, invoice.LocationID, invoice.Date, invoice.ReferenceNumber, invoice.DeliveryNote,
		invoice.PaymentTerms, invoice.ReferenceNoDate, invoice.OtherReferences, invoice.BuyersOrderNo,
		invoice.BuyersOrderDate, invoice.DispatchDocNo, invoice.DeliveryNoteDate,
		invoice.DispatchedThrough, invoice.Destination, invoice.TermsOfDelivery, invoice.Remark,
		invoice.CustomerGSTIN, invoice.PlaceOfSupply, invoice.CGSTTotal, invoice.SGSTTotal,
		invoice.IGSTTotal, invoice.Total, invoice.AmountInWords, invoice.TaxAmountInWords, invoice.ID)
	return err
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE sales_invoices SET status = $1, updated_at = NOW() WHERE id = $2 AND is_deleted = false`
	_, err := r.db.Exec(ctx, query, status, id)
	return err
}

func (r *invoiceRepo) List(ctx context.Context, filter InvoiceFilter) ([]*models.SalesInvoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM sales_invoices
		WHERE is_deleted = false
			AND ($1 = '' OR status = $1)
			AND ($2 = '' OR display_number ILIKE '%' || $2 || '%' OR reference_number ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	return r.queryInvoices(ctx, query, filter.Status, filter.Search, filter.Limit, filter.Offset)
}

func (r *invoiceRepo) ListTrash(ctx context.Context, limit, offset int) ([]*models.SalesInvoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM sales_invoices
		WHERE is_deleted = true
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.queryInvoices(ctx, query, limit, offset)
}

func (r *invoiceRepo) queryInvoices(ctx context.Context, query string, args ...any) ([]*models.SalesInvoice, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.SalesInvoice
	for rows.Next() {
		invoice := &models.SalesInvoice{}
		if err := scanInvoice(rows, invoice); err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

func (r *invoiceRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE sales_invoices SET is_deleted = true, updated_at = NOW() WHERE id = $1 AND is_deleted = false`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *invoiceRepo) Restore(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE sales_invoices SET is_deleted = false, updated_at = NOW() WHERE id = $1 AND is_deleted = true`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// Purge permanently removes a trashed invoice and its line items. Only rows
// already soft-deleted can be purged.
func (r *invoiceRepo) Purge(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM sales_invoices WHERE id = $1 AND is_deleted = true`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ReplaceItems swaps the full line-item set of an invoice atomically. Edits
// always resubmit the whole set, so the repository never patches lines.
func (r *invoiceRepo) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []*models.InvoiceItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return err
	}

	insert := `
		INSERT INTO invoice_items (id, invoice_id, item_id, price, gst_rate, quantity_shipped, quantity_billed, discount_type, discount_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.InvoiceID = invoiceID
		if _, err := tx.Exec(ctx, insert, item.ID, item.InvoiceID, item.ItemID, item.Price,
			item.GSTRate, item.QuantityShipped, item.QuantityBilled, item.DiscountType, item.DiscountValue); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ListItems loads the invoice lines with the item master joined, in
// insertion order.
func (r *invoiceRepo) ListItems(ctx context.Context, invoiceID uuid.UUID) ([]*models.InvoiceItem, error) {
	query := `
		SELECT ii.id, ii.invoice_id, ii.item_id, ii.price, ii.gst_rate, ii.quantity_shipped, ii.quantity_billed,
			ii.discount_type, ii.discount_value,
			i.id, i.name, i.description, i.article_code, i.hsn_sac, i.price, i.unit, i.gst_rate, i.is_deleted, i.created_at, i.updated_at
		FROM invoice_items ii
		JOIN items i ON i.id = ii.item_id
		WHERE ii.invoice_id = $1
		ORDER BY ii.id
	`
	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.InvoiceItem
	for rows.Next() {
		line := &models.InvoiceItem{Item: &models.Item{}}
		if err := rows.Scan(
			&line.ID, &line.InvoiceID, &line.ItemID, &line.Price, &line.GSTRate,
			&line.QuantityShipped, &line.QuantityBilled, &line.DiscountType, &line.DiscountValue,
			&line.Item.ID, &line.Item.Name, &line.Item.Description, &line.Item.ArticleCode,
			&line.Item.HSNSAC, &line.Item.Price, &line.Item.Unit, &line.Item.GSTRate,
			&line.Item.IsDeleted, &line.Item.CreatedAt, &line.Item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, line)
	}
	return items, rows.Err()
}

// CountByStatus returns invoice counts keyed by workflow status, for the
// dashboard.
func (r *invoiceRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM sales_invoices WHERE is_deleted = false GROUP BY status`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
