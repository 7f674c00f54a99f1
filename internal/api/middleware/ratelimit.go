package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimit applies a token-bucket limiter to the routes it is mounted on.
// Used on the auth endpoints to slow down credential stuffing; the bucket is
// shared across callers, which is enough for a single-instance deployment.
func RateLimit(r rate.Limit, burst int) echo.MiddlewareFunc {
	limiter := rate.NewLimiter(r, burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow() {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
