package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweetshop/inventory-api/internal/core/domain"
	"github.com/sweetshop/inventory-api/internal/core/ports"
)

// CatalogCache abstracts the read cache for the unfiltered catalog (Redis).
// Cache failures must never fail a request; callers log and fall through.
type CatalogCache interface {
	Get(ctx context.Context) ([]*domain.Sweet, bool, error)
	Set(ctx context.Context, sweets []*domain.Sweet) error
	Invalidate(ctx context.Context) error
}

type InventoryService struct {
	repo   ports.SweetRepository
	cache  CatalogCache
	logger zerolog.Logger
}

// NewInventoryService returns an InventoryService. cache may be nil, in which
// case every list goes to the store.
func NewInventoryService(repo ports.SweetRepository, cache CatalogCache, logger zerolog.Logger) *InventoryService {
	return &InventoryService{repo: repo, cache: cache, logger: logger}
}

// List returns the full catalog. No authentication required.
func (s *InventoryService) List(ctx context.Context) ([]*domain.Sweet, error) {
	if s.cache != nil {
		cached, hit, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("catalog cache read failed, falling back to store")
		} else if hit {
			return cached, nil
		}
	}

	sweets, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, sweets); err != nil {
			s.logger.Warn().Err(err).Msg("catalog cache write failed")
		}
	}
	return sweets, nil
}

// Search returns the sweets matching all provided filter fields ANDed
// together. An empty filter behaves exactly like List; an inverted price
// range is a constraint nothing satisfies and yields an empty result.
func (s *InventoryService) Search(ctx context.Context, filter ports.SearchFilter) ([]*domain.Sweet, error) {
	return s.repo.Search(ctx, filter)
}

// Get returns a single sweet by id.
func (s *InventoryService) Get(ctx context.Context, id string) (*domain.Sweet, error) {
	return s.repo.FindByID(ctx, id)
}

// Create adds a new sweet to the catalog. Admin only.
func (s *InventoryService) Create(ctx context.Context, claims ports.TokenClaims, input ports.CreateSweetInput) (*domain.Sweet, error) {
	if !claims.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validateSweet(input.Name, input.Category, input.Price, input.Quantity); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sweet := &domain.Sweet{
		Name:        input.Name,
		Category:    input.Category,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, sweet)
	if err != nil {
		return nil, err
	}

	s.invalidateCatalog(ctx)
	s.logger.Info().Str("sweet_id", created.ID).Str("name", created.Name).Msg("sweet created")
	return created, nil
}

// Update applies a partial patch to an existing sweet and re-validates the
// merged result. Admin only; the role check runs before the existence check
// so non-admins learn nothing about which ids exist.
func (s *InventoryService) Update(ctx context.Context, claims ports.TokenClaims, id string, patch ports.UpdateSweetInput) (*domain.Sweet, error) {
	if !claims.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	sweet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		sweet.Name = *patch.Name
	}
	if patch.Category != nil {
		sweet.Category = *patch.Category
	}
	if patch.Price != nil {
		sweet.Price = *patch.Price
	}
	if patch.Quantity != nil {
		sweet.Quantity = *patch.Quantity
	}
	if patch.Description != nil {
		sweet.Description = *patch.Description
	}
	if err := validateSweet(sweet.Name, sweet.Category, sweet.Price, sweet.Quantity); err != nil {
		return nil, err
	}
	sweet.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, sweet)
	if err != nil {
		return nil, err
	}

	s.invalidateCatalog(ctx)
	return updated, nil
}

// Delete removes a sweet permanently. Admin only.
func (s *InventoryService) Delete(ctx context.Context, claims ports.TokenClaims, id string) error {
	if !claims.IsAdmin() {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCatalog(ctx)
	s.logger.Info().Str("sweet_id", id).Msg("sweet deleted")
	return nil
}

// Purchase decrements stock by quantity for any authenticated caller. The
// check-and-decrement is a single conditional write in the store, so
// concurrent purchases of the same sweet serialize there and the quantity
// can never go negative.
func (s *InventoryService) Purchase(ctx context.Context, claims ports.TokenClaims, id string, quantity int) (*domain.Sweet, error) {
	if claims.Role == "" {
		return nil, domain.ErrForbidden
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
	}

	sweet, err := s.repo.DecrementQuantity(ctx, id, quantity)
	if err != nil {
		return nil, err
	}

	s.invalidateCatalog(ctx)
	s.logger.Info().
		Str("sweet_id", id).
		Str("username", claims.Username).
		Int("quantity", quantity).
		Int("remaining", sweet.Quantity).
		Msg("sweet purchased")
	return sweet, nil
}

// Restock increments stock by quantity, unbounded above. Admin only.
func (s *InventoryService) Restock(ctx context.Context, claims ports.TokenClaims, id string, quantity int) (*domain.Sweet, error) {
	if !claims.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
	}

	sweet, err := s.repo.IncrementQuantity(ctx, id, quantity)
	if err != nil {
		return nil, err
	}

	s.invalidateCatalog(ctx)
	s.logger.Info().
		Str("sweet_id", id).
		Int("quantity", quantity).
		Int("stock", sweet.Quantity).
		Msg("sweet restocked")
	return sweet, nil
}

func (s *InventoryService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}

func validateSweet(name, category string, price float64, quantity int) error {
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
	}
	if category == "" {
		return fmt.Errorf("%w: category must not be empty", domain.ErrValidation)
	}
	if price <= 0 {
		return fmt.Errorf("%w: price must be positive", domain.ErrValidation)
	}
	if quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", domain.ErrValidation)
	}
	return nil
}
