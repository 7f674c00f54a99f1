package ports

import (
	"context"

	"github.com/sweetshop/inventory-api/internal/core/domain"
)

// TokenClaims is the verified identity extracted from a session token.
// It is the only trust boundary for authorization decisions; anything the
// client sends outside the signed token is advisory.
type TokenClaims struct {
	Subject  string
	Username string
	Role     string
}

// IsAdmin reports whether the verified role claim grants admin access.
func (c TokenClaims) IsAdmin() bool {
	return c.Role == domain.RoleAdmin
}

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Verify(token string) (TokenClaims, error)
}
