package ports

import (
	"context"

	"github.com/sweetshop/inventory-api/internal/core/domain"
)

// CreateSweetInput carries the fields for a new catalog entry.
type CreateSweetInput struct {
	Name        string
	Category    string
	Price       float64
	Quantity    int
	Description string
}

// UpdateSweetInput is a partial patch; nil fields are left untouched.
type UpdateSweetInput struct {
	Name        *string
	Category    *string
	Price       *float64
	Quantity    *int
	Description *string
}

type InventoryService interface {
	List(ctx context.Context) ([]*domain.Sweet, error)
	Search(ctx context.Context, filter SearchFilter) ([]*domain.Sweet, error)
	Get(ctx context.Context, id string) (*domain.Sweet, error)
	Create(ctx context.Context, claims TokenClaims, input CreateSweetInput) (*domain.Sweet, error)
	Update(ctx context.Context, claims TokenClaims, id string, patch UpdateSweetInput) (*domain.Sweet, error)
	Delete(ctx context.Context, claims TokenClaims, id string) error
	Purchase(ctx context.Context, claims TokenClaims, id string, quantity int) (*domain.Sweet, error)
	Restock(ctx context.Context, claims TokenClaims, id string, quantity int) (*domain.Sweet, error)
}
