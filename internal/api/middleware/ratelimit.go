package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/abelov/technical-records/internal/api/metrics"
)

// Limiter is the slice of the Redis rate limiter this middleware needs.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, int64, error)
}

// RateLimit applies a per-client-IP fixed-window limit. Rejected requests
// get a 429 with the remaining quota header set to zero.
func RateLimit(limiter Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, remaining, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				return next(c)
			}

			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			if !allowed {
				metrics.RateLimited.Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
