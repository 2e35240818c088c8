package repositories

import (
	"context"

	"tradedocs/internal/models"

	"github.com/google/uuid"
)

type TransportRepository interface {
	Create(ctx context.Context, transport *models.TransportCharges) error
	GetByInvoice(ctx context.Context, invoiceID uuid.UUID) (*models.TransportCharges, error)
	Update(ctx context.Context, transport *models.TransportCharges) error
}

type transportRepo struct {
	db DB
}

func NewTransportRepo(db DB) TransportRepository {
	return &transportRepo{db: db}
}

func (r *transportRepo) Create(ctx context.Context, transport *models.TransportCharges) error {
	query := `
		INSERT INTO transport_charges (id, invoice_id, date, charges, description, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, false, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, transport.ID, transport.InvoiceID, transport.Date,
		transport.Charges, transport.Description)
	return err
}

func (r *transportRepo) GetByInvoice(ctx context.Context, invoiceID uuid.UUID) (*models.TransportCharges, error) {
	transport := &models.TransportCharges{}
	query := `
		SELECT id, invoice_id, date, charges, description, is_deleted, created_at, updated_at
		FROM transport_charges
		WHERE invoice_id = $1 AND is_deleted = false
	`
	err := r.db.QueryRow(ctx, query, invoiceID).Scan(
		&transport.ID, &transport.InvoiceID, &transport.Date, &transport.Charges,
		&transport.Description, &transport.IsDeleted, &transport.CreatedAt, &transport.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return transport, nil
}

func (r *transportRepo) Update(ctx context.Context, transport *models.TransportCharges) error {
	query := `
		UPDATE transport_charges
		SET date = $1, charges = $2, description = $3, updated_at = NOW()
		WHERE id = $4 AND is_deleted = false
	`
	_, err := r.db.Exec(ctx, query, transport.Date, transport.Charges, transport.Description, transport.ID)
	return err
}
