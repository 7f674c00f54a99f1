package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/inventory-api/internal/core/domain"
	"github.com/sweetshop/inventory-api/internal/core/ports"
)

// claimsKey is the context key the verified claims are stored under.
const claimsKey = "claims"

// TokenVerifier is the slice of the auth service the middleware needs.
type TokenVerifier interface {
	Verify(token string) (ports.TokenClaims, error)
}

// Auth validates the bearer token and injects the verified claims into the
// request context. Everything downstream trusts only these claims.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims injected by Auth, if any.
func ClaimsFrom(c echo.Context) (ports.TokenClaims, bool) {
	claims, ok := c.Get(claimsKey).(ports.TokenClaims)
	return claims, ok
}
