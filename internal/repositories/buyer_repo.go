package repositories

import (
	"context"

	"tradedocs/internal/models"

	"github.com/google/uuid"
)

type BuyerRepository interface {
	Create(ctx context.Context, buyer *models.Buyer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Buyer, error)
	Update(ctx context.Context, buyer *models.Buyer) error
	List(ctx context.Context, search string, limit, offset int) ([]*models.Buyer, error)
	GetByName(ctx context.Context, name string) (*models.Buyer, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type buyerRepo struct {
	db DB
}

func NewBuyerRepo(db DB) BuyerRepository {
	return &buyerRepo{db: db}
}

const buyerColumns = `id, name, address, gstin, state, state_code, pincode, is_deleted, created_at, updated_at`

func (r *buyerRepo) Create(ctx context.Context, buyer *models.Buyer) error {
	query := `
		INSERT INTO buyers (id, name, address, gstin, state, state_code, pincode, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, buyer.ID, buyer.Name, buyer.Address, buyer.GSTIN,
		buyer.State, buyer.StateCode, buyer.Pincode)
	return err
}

func (r *buyerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Buyer, error) {
	buyer := &models.Buyer{}
	query := `SELECT ` + buyerColumns + ` FROM buyers WHERE id = $1 AND is_deleted = false`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&buyer.ID, &buyer.Name, &buyer.Address, &buyer.GSTIN, &buyer.State, &buyer.StateCode,
		&buyer.Pincode, &buyer.IsDeleted, &buyer.CreatedAt, &buyer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return buyer, nil
}

func (r *buyerRepo) Update(ctx context.Context, buyer *models.Buyer) error {
	query := `
		UPDATE buyers
		SET name = $1, address = $2, gstin = $3, state = $4, state_code = $5, pincode = $6, updated_at = NOW()
		WHERE id = $7 AND is_deleted = false
	`
	_, err := r.db.Exec(ctx, query, buyer.Name, buyer.Address, buyer.GSTIN, buyer.State,
		buyer.StateCode, buyer.Pincode, buyer.ID)
	return err
}

func (r *buyerRepo) List(ctx context.Context, search string, limit, offset int) ([]*models.Buyer, error) {
	query := `
		SELECT ` + buyerColumns + `
		FROM buyers
		WHERE is_deleted = false AND ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buyers []*models.Buyer
	for rows.Next() {
		buyer := &models.Buyer{}
		if err := rows.Scan(&buyer.ID, &buyer.Name, &buyer.Address, &buyer.GSTIN, &buyer.State,
			&buyer.StateCode, &buyer.Pincode, &buyer.IsDeleted, &buyer.CreatedAt, &buyer.UpdatedAt); err != nil {
			return nil, err
		}
		buyers = append(buyers, buyer)
	}
	return buyers, rows.Err()
}

// GetByName matches the exact buyer name, used by the spreadsheet importer
// to reuse existing parties instead of duplicating them.
func (r *buyerRepo) GetByName(ctx context.Context, name string) (*models.Buyer, error) {
	buyer := &models.Buyer{}
	query := `SELECT ` + buyerColumns + ` FROM buyers WHERE name = $1 AND is_deleted = false LIMIT 1`
	err := r.db.QueryRow(ctx, query, name).Scan(
		&buyer.ID, &buyer.Name, &buyer.Address, &buyer.GSTIN, &buyer.State, &buyer.StateCode,
		&buyer.Pincode, &buyer.IsDeleted, &buyer.CreatedAt, &buyer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return buyer, nil
}

func (r *buyerRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE buyers SET is_deleted = true, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
