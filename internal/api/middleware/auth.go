package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/abelov/technical-records/internal/core/domain"
	"github.com/abelov/technical-records/internal/core/ports"
)

const (
	// ContextUserKey is where the authenticated principal is stored on the
	// echo context.
	ContextUserKey = "auth_user"

	tokenCookieName = "token"
	bearerPrefix    = "Bearer "
)

// Auth resolves the session token from the request and loads the principal
// into the context. Tokens are accepted from the session cookie first, then
// from the Authorization header. Every failure mode produces the same 401.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}

// UserFrom returns the authenticated principal placed by Auth, or nil.
func UserFrom(c echo.Context) *domain.User {
	user, _ := c.Get(ContextUserKey).(*domain.User)
	return user
}

func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(tokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimPrefix(header, bearerPrefix)
	}
	return ""
}
