package ports

import (
	"context"

	"github.com/sweetshop/inventory-api/internal/core/domain"
)

// SearchFilter holds the optional catalog search constraints. Nil/empty
// fields impose no constraint; all present fields are ANDed.
type SearchFilter struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// Empty reports whether the filter imposes no constraint at all.
func (f SearchFilter) Empty() bool {
	return f.Name == "" && f.Category == "" && f.MinPrice == nil && f.MaxPrice == nil
}

// SweetRepository defines the interface for sweet persistence.
//
// DecrementQuantity is the store-side compare-and-swap for purchases: it must
// decrement by n only if the current quantity is at least n, as a single
// atomic operation, and return domain.ErrInsufficientStock otherwise.
// Concurrent calls against different ids must not serialize against each other.
type SweetRepository interface {
	Create(ctx context.Context, sweet *domain.Sweet) (*domain.Sweet, error)
	FindByID(ctx context.Context, id string) (*domain.Sweet, error)
	FindAll(ctx context.Context) ([]*domain.Sweet, error)
	Search(ctx context.Context, filter SearchFilter) ([]*domain.Sweet, error)
	Update(ctx context.Context, sweet *domain.Sweet) (*domain.Sweet, error)
	Delete(ctx context.Context, id string) error
	DecrementQuantity(ctx context.Context, id string, n int) (*domain.Sweet, error)
	IncrementQuantity(ctx context.Context, id string, n int) (*domain.Sweet, error)
}
