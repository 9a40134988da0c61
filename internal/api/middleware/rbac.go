package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRoles gates a route on role membership. It must run after Auth;
// a request with no principal in context is treated as unauthenticated.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := UserFrom(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !user.HasAnyRole(roles...) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			return next(c)
		}
	}
}
