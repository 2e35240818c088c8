package repositories

import (
	"context"

	"tradedocs/internal/models"

	"github.com/google/uuid"
)

type LocationRepository interface {
	Create(ctx context.Context, location *models.StoreLocation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.StoreLocation, error)
	Update(ctx context.Context, location *models.StoreLocation) error
	List(ctx context.Context, search string, limit, offset int) ([]*models.StoreLocation, error)
	GetByName(ctx context.Context, name string) (*models.StoreLocation, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type locationRepo struct {
	db DB
}

func NewLocationRepo(db DB) LocationRepository {
	return &locationRepo{db: db}
}

const locationColumns = `id, name, site_code, address, city, state, state_code, pincode, gstin, priority, is_deleted, created_at, updated_at`

func (r *locationRepo) Create(ctx context.Context, location *models.StoreLocation) error {
	query := `
		INSERT INTO store_locations (id, name, site_code, address, city, state, state_code, pincode, gstin, priority, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, location.ID, location.Name, location.SiteCode, location.Address,
		location.City, location.State, location.StateCode, location.Pincode, location.GSTIN, location.Priority)
	return err
}

func (r *locationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StoreLocation, error) {
	location := &models.StoreLocation{}
	query := `SELECT ` + locationColumns + ` FROM store_locations WHERE id = $1 AND is_deleted = false`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&location.ID, &location.Name, &location.SiteCode, &location.Address, &location.City,
		&location.State, &location.StateCode, &location.Pincode, &location.GSTIN, &location.Priority,
		&location.IsDeleted, &location.CreatedAt, &location.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return location, nil
}

func (r *locationRepo) Update(ctx context.Context, location *models.StoreLocation) error {
	query := `
		UPDATE store_locations
		SET name = $1, site_code = $2, address = $3, city = $4, state = $5, state_code = $6,
			pincode = $7, gstin = $8, priority = $9, updated_at = NOW()
		WHERE id = $10 AND is_deleted = false
	`
	_, err := r.db.Exec(ctx, query, location.Name, location.SiteCode, location.Address, location.City,
		location.State, location.StateCode, location.Pincode, location.GSTIN, location.Priority, location.ID)
	return err
}

func (r *locationRepo) List(ctx context.Context, search string, limit, offset int) ([]*models.StoreLocation, error) {
	query := `
		SELECT ` + locationColumns + `
		FROM store_locations
		WHERE is_deleted = false AND ($1 = '' OR name ILIKE '%' || $1 || '%' OR site_code ILIKE '%' || $1 || '%')
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []*models.StoreLocation
	for rows.Next() {
		location := &models.StoreLocation{}
		if err := rows.Scan(&location.ID, &location.Name, &location.SiteCode, &location.Address,
			&location.City, &location.State, &location.StateCode, &location.Pincode, &location.GSTIN,
			&location.Priority, &location.IsDeleted, &location.CreatedAt, &location.UpdatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}
	return locations, rows.Err()
}

func (r *locationRepo) GetByName(ctx context.Context, name string) (*models.StoreLocation, error) {
	location := &models.StoreLocation{}
	query := `SELECT ` + locationColumns + ` FROM store_locations WHERE name = $1 AND is_deleted = false LIMIT 1`
	err := r.db.QueryRow(ctx, query, name).Scan(
		&location.ID, &location.Name, &location.SiteCode, &location.Address, &location.City,
		&location.State, &location.StateCode, &location.Pincode, &location.GSTIN, &location.Priority,
		&location.IsDeleted, &location.CreatedAt, &location.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return location, nil
}

func (r *locationRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE store_locations SET is_deleted = true, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
