package repositories

import (
	"context"

	"tradedocs/internal/models"

	"github.com/google/uuid"
)

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	GetByName(ctx context.Context, name string) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	List(ctx context.Context, search string, limit, offset int) ([]*models.Item, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type itemRepo struct {
	db DB
}

func NewItemRepo(db DB) ItemRepository {
	return &itemRepo{db: db}
}

const itemColumns = `id, name, description, article_code, hsn_sac, price, unit, gst_rate, is_deleted, created_at, updated_at`

func (r *itemRepo) Create(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (id, name, description, article_code, hsn_sac, price, unit, gst_rate, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.Name, item.Description, item.ArticleCode,
		item.HSNSAC, item.Price, item.Unit, item.GSTRate)
	return err
}

func (r *itemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item := &models.Item{}
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND is_deleted = false`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.Description, &item.ArticleCode, &item.HSNSAC,
		&item.Price, &item.Unit, &item.GSTRate, &item.IsDeleted, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepo) GetByName(ctx context.Context, name string) (*models.Item, error) {
	item := &models.Item{}
	query := `SELECT ` + itemColumns + ` FROM items WHERE name = $1 AND is_deleted = false LIMIT 1`
	err := r.db.QueryRow(ctx, query, name).Scan(
		&item.ID, &item.Name, &item.Description, &item.ArticleCode, &item.HSNSAC,
		&item.Price, &item.Unit, &item.GSTRate, &item.IsDeleted, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepo) Update(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items
		SET name = $1, description = $2, article_code = $3, hsn_sac = $4, price = $5, unit = $6, gst_rate = $7, updated_at = NOW()
		WHERE id = $8 AND is_deleted = false
	`
	_, err := r.db.Exec(ctx, query, item.Name, item.Description, item.ArticleCode, item.HSNSAC,
		item.Price, item.Unit, item.GSTRate, item.ID)
	return err
}

func (r *itemRepo) List(ctx context.Context, search string, limit, offset int) ([]*models.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE is_deleted = false AND ($1 = '' OR name ILIKE '%' || $1 || '%' OR article_code ILIKE '%' || $1 || '%')
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item := &models.Item{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.ArticleCode, &item.HSNSAC,
			&item.Price, &item.Unit, &item.GSTRate, &item.IsDeleted, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *itemRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE items SET is_deleted = true, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
