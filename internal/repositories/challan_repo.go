package repositories

import (
	"context"

	"tradedocs/internal/models"

	"github.com/google/uuid"
)

type ChallanRepository interface {
	Create(ctx context.Context, challan *models.DeliveryChallan) error
	GetByInvoice(ctx context.Context, invoiceID uuid.UUID) (*models.DeliveryChallan, error)
	Update(ctx context.Context, challan *models.DeliveryChallan) error
}

type challanRepo struct {
	db DB
}

func NewChallanRepo(db DB) ChallanRepository {
	return &challanRepo{db: db}
}

func (r *challanRepo) Create(ctx context.Context, challan *models.DeliveryChallan) error {
	query := `
		INSERT INTO delivery_challans (id, invoice_id, date, notes, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, false, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, challan.ID, challan.InvoiceID, challan.Date, challan.Notes)
	return err
}

func (r *challanRepo) GetByInvoice(ctx context.Context, invoiceID uuid.UUID) (*models.DeliveryChallan, error) {
	challan := &models.DeliveryChallan{}
	query := `
		SELECT id, invoice_id, date, notes, is_deleted, created_at, updated_at
		FROM delivery_challans
		WHERE invoice_id = $1 AND is_deleted = false
	`
	err := r.db.QueryRow(ctx, query, invoiceID).Scan(
		&challan.ID, &challan.InvoiceID, &challan.Date, &challan.Notes,
		&challan.IsDeleted, &challan.CreatedAt, &challan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return challan, nil
}

func (r *challanRepo) Update(ctx context.Context, challan *models.DeliveryChallan) error {
	query := `
		UPDATE delivery_challans
		SET date = $1, notes = $2, updated_at = NOW()
		WHERE id = $3 AND is_deleted = false
	`
	_, err := r.db.Exec(ctx, query, challan.Date, challan.Notes, challan.ID)
	return err
}
