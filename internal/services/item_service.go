package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"tradedocs/internal/models"
	"tradedocs/internal/repositories"
)

type ItemService interface {
	Create(ctx context.Context, item *models.Item) error
	Get(ctx context.Context, id uuid.UUID) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	List(ctx context.Context, search string, limit, offset int) ([]*models.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type itemService struct {
	repo repositories.ItemRepository
}

func NewItemService(repo repositories.ItemRepository) ItemService {
	return &itemService{repo: repo}
}

func validateItem(item *models.Item) error {
	if item.Name == "" {
		return fmt.Errorf("item name is required")
	}
	if item.HSNSAC == "" {
		return fmt.Errorf("hsn_sac is required")
	}
	if item.Price.IsNegative() {
		return fmt.Errorf("price must not be negative")
	}
	if !models.ValidGSTRate(item.GSTRate) {
		return fmt.Errorf("gst_rate %s is not one of the allowed rates", item.GSTRate)
	}
	return nil
}

func (s *itemService) Create(ctx context.Context, item *models.Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Unit == "" {
		item.Unit = "Nos"
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func (s *itemService) Get(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return s.repo.GetByID(ctx, id)
}

// Update edits the item master. Existing invoice lines keep their
// snapshotted price and rate; only future invoices see the change.
func (s *itemService) Update(ctx context.Context, item *models.Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

func (s *itemService) List(ctx context.Context, search string, limit, offset int) ([]*models.Item, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.List(ctx, search, limit, offset)
}

func (s *itemService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}
