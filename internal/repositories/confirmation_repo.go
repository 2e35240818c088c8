package repositories

import (
	"context"

	"tradedocs/internal/models"

	"github.com/google/uuid"
)

type ConfirmationRepository interface {
	Create(ctx context.Context, doc *models.ConfirmationDocument) error
	GetByInvoice(ctx context.Context, invoiceID uuid.UUID) (*models.ConfirmationDocument, error)
	Update(ctx context.Context, doc *models.ConfirmationDocument) error
	AddImage(ctx context.Context, image *models.PackedImage) error
	ListImages(ctx context.Context, confirmationID uuid.UUID) ([]*models.PackedImage, error)
	DeleteImage(ctx context.Context, id uuid.UUID) error
}

type confirmationRepo struct {
	db DB
}

func NewConfirmationRepo(db DB) ConfirmationRepository {
	return &confirmationRepo{db: db}
}

func (r *confirmationRepo) Create(ctx context.Context, doc *models.ConfirmationDocument) error {
	query := `
		INSERT INTO confirmation_documents (id, invoice_id, date, po_file_key, approval_file_key, combined_pdf_key, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, doc.ID, doc.InvoiceID, doc.Date,
		doc.POFileKey, doc.ApprovalFileKey, doc.CombinedPDFKey)
	return err
}

func (r *confirmationRepo) GetByInvoice(ctx context.Context, invoiceID uuid.UUID) (*models.ConfirmationDocument, error) {
	doc := &models.ConfirmationDocument{}
	query := `
		SELECT id, invoice_id, date, po_file_key, approval_file_key, combined_pdf_key, is_deleted, created_at, updated_at
		FROM confirmation_documents
		WHERE invoice_id = $1 AND is_deleted = false
	`
	err := r.db.QueryRow(ctx, query, invoiceID).Scan(
		&doc.ID, &doc.InvoiceID, &doc.Date, &doc.POFileKey, &doc.ApprovalFileKey,
		&doc.CombinedPDFKey, &doc.IsDeleted, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *confirmationRepo) Update(ctx context.Context, doc *models.ConfirmationDocument) error {
	query := `
		UPDATE confirmation_documents
		SET date = $1, po_file_key = $2, approval_file_key = $3, combined_pdf_key = $4, updated_at = NOW()
		WHERE id = $5 AND is_deleted = false
	`
	_, err := r.db.Exec(ctx, query, doc.Date, doc.POFileKey, doc.ApprovalFileKey, doc.CombinedPDFKey, doc.ID)
	return err
}

func (r *confirmationRepo) AddImage(ctx context.Context, image *models.PackedImage) error {
	query := `
		INSERT INTO packed_images (id, confirmation_id, image_key, notes, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, image.ID, image.ConfirmationID, image.ImageKey, image.Notes)
	return err
}

// ListImages returns the packed-goods photos in upload order, which is the
// order they appear in the bundle appendix.
func (r *confirmationRepo) ListImages(ctx context.Context, confirmationID uuid.UUID) ([]*models.PackedImage, error) {
	query := `
		SELECT id, confirmation_id, image_key, notes, created_at
		FROM packed_images
		WHERE confirmation_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, confirmationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []*models.PackedImage
	for rows.Next() {
		image := &models.PackedImage{}
		if err := rows.Scan(&image.ID, &image.ConfirmationID, &image.ImageKey, &image.Notes, &image.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

func (r *confirmationRepo) DeleteImage(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM packed_images WHERE id = $1`, id)
	return err
}
