package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/inventory-api/internal/api/middleware"
	"github.com/sweetshop/inventory-api/internal/core/ports"
)

// ctxClaims extracts the claims injected by the Auth middleware and fast-fails
// on a route that was wired without it. A non-empty role proves the token was
// verified.
func ctxClaims(c echo.Context) (ports.TokenClaims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok || claims.Role == "" {
		return ports.TokenClaims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
