package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/abelov/technical-records/internal/api/metrics"
	"github.com/abelov/technical-records/internal/api/middleware"
	"github.com/abelov/technical-records/internal/core/domain"
	"github.com/abelov/technical-records/internal/core/ports"
)

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// AuthHandler exposes the signup/login/session endpoints.
type AuthHandler struct {
	auth     ports.AuthService
	tokenTTL time.Duration
	secure   bool
	log      zerolog.Logger
}

func NewAuthHandler(auth ports.AuthService, tokenTTL time.Duration, secureCookies bool, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, tokenTTL: tokenTTL, secure: secureCookies, log: log}
}

// SignUp godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body signUpRequest true "Account details"
// @Success 201 {object} domain.User
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.auth.SignUp(c.Request().Context(), req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Exchange a credential for a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Credentials"
// @Success 200 {object} loginResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.Logins.WithLabelValues("failure").Inc()
		return err
	}
	metrics.Logins.WithLabelValues("success").Inc()
	metrics.TokensIssued.Inc()

	c.SetCookie(h.sessionCookie(token, h.tokenTTL))
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}

// Logout clears the session cookie. Tokens themselves stay valid until they
// expire; there is no server-side revocation list.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.sessionCookie("", -time.Hour))
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated principal.
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.UserFrom(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) sessionCookie(token string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
