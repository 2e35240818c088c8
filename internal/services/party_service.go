package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"tradedocs/internal/models"
	"tradedocs/internal/repositories"
)

// PartyService manages the two invoice parties: buyers (Bill To) and store
// locations (Ship To).
type PartyService interface {
	CreateBuyer(ctx context.Context, buyer *models.Buyer) error
	GetBuyer(ctx context.Context, id uuid.UUID) (*models.Buyer, error)
	UpdateBuyer(ctx context.Context, buyer *models.Buyer) error
	ListBuyers(ctx context.Context, search string, limit, offset int) ([]*models.Buyer, error)
	DeleteBuyer(ctx context.Context, id uuid.UUID) error

	CreateLocation(ctx context.Context, location *models.StoreLocation) error
	GetLocation(ctx context.Context, id uuid.UUID) (*models.StoreLocation, error)
	UpdateLocation(ctx context.Context, location *models.StoreLocation) error
	ListLocations(ctx context.Context, search string, limit, offset int) ([]*models.StoreLocation, error)
	DeleteLocation(ctx context.Context, id uuid.UUID) error
}

type partyService struct {
	buyers    repositories.BuyerRepository
	locations repositories.LocationRepository
}

func NewPartyService(buyers repositories.BuyerRepository, locations repositories.LocationRepository) PartyService {
	return &partyService{buyers: buyers, locations: locations}
}

func (s *partyService) CreateBuyer(ctx context.Context, buyer *models.Buyer) error {
	if buyer.Name == "" {
		return fmt.Errorf("buyer name is required")
	}
	if buyer.ID == uuid.Nil {
		buyer.ID = uuid.New()
	}
	buyer.Normalize()
	if err := s.buyers.Create(ctx, buyer); err != nil {
		return fmt.Errorf("failed to create buyer: %w", err)
	}
	return nil
}

func (s *partyService) GetBuyer(ctx context.Context, id uuid.UUID) (*models.Buyer, error) {
	return s.buyers.GetByID(ctx, id)
}

func (s *partyService) UpdateBuyer(ctx context.Context, buyer *models.Buyer) error {
	if buyer.Name == "" {
		return fmt.Errorf("buyer name is required")
	}
	buyer.Normalize()
	if err := s.buyers.Update(ctx, buyer); err != nil {
		return fmt.Errorf("failed to update buyer: %w", err)
	}
	return nil
}

func (s *partyService) ListBuyers(ctx context.Context, search string, limit, offset int) ([]*models.Buyer, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.buyers.List(ctx, search, limit, offset)
}

func (s *partyService) DeleteBuyer(ctx context.Context, id uuid.UUID) error {
	return s.buyers.SoftDelete(ctx, id)
}

func (s *partyService) CreateLocation(ctx context.Context, location *models.StoreLocation) error {
	if location.Name == "" {
		return fmt.Errorf("location name is required")
	}
	if location.ID == uuid.Nil {
		location.ID = uuid.New()
	}
	location.Normalize()
	if err := s.locations.Create(ctx, location); err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

func (s *partyService) GetLocation(ctx context.Context, id uuid.UUID) (*models.StoreLocation, error) {
	return s.locations.GetByID(ctx, id)
}

func (s *partyService) UpdateLocation(ctx context.Context, location *models.StoreLocation) error {
	if location.Name == "" {
		return fmt.Errorf("location name is required")
	}
	location.Normalize()
	if err := s.locations.Update(ctx, location); err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	return nil
}

func (s *partyService) ListLocations(ctx context.Context, search string, limit, offset int) ([]*models.StoreLocation, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.locations.List(ctx, search, limit, offset)
}

func (s *partyService) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	return s.locations.SoftDelete(ctx, id)
}
