package ports

import (
	"context"

	"github.com/sweetshop/inventory-api/internal/core/domain"
)

// AuthRepository defines the interface for user persistence.
// Create must be atomic with respect to the username/email uniqueness
// constraint: of two concurrent inserts with the same username or email,
// exactly one succeeds and the other receives domain.ErrUserExists.
type AuthRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
