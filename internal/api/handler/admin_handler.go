package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/abelov/technical-records/internal/core/domain"
	"github.com/abelov/technical-records/internal/core/ports"
)

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user"`
}

type activeRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// AdminHandler exposes bootstrap and principal-management endpoints. All
// routes sit behind the admin role gate except Init, which is idempotent
// and safe to call on an empty installation.
type AdminHandler struct {
	admin ports.AdminService
	log   zerolog.Logger
}

func NewAdminHandler(admin ports.AdminService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, log: log}
}

// Init godoc
// @Summary Seed the admin principal and sample request
// @Tags admin
// @Produce json
// @Success 200 {object} ports.SeedResult
// @Router /admin/init [post]
func (h *AdminHandler) Init(c echo.Context) error {
	result, err := h.admin.EnsureAdmin(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// AssignRole godoc
// @Summary Grant a role to a principal
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body roleRequest true "Role"
// @Success 200 {object} domain.User
// @Router /admin/users/{id}/roles [post]
func (h *AdminHandler) AssignRole(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.admin.AssignRole(c.Request().Context(), c.Param("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// RemoveRole godoc
// @Summary Revoke a role from a principal
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Param role path string true "Role"
// @Success 200 {object} domain.User
// @Router /admin/users/{id}/roles/{role} [delete]
func (h *AdminHandler) RemoveRole(c echo.Context) error {
	role := c.Param("role")
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}

	user, err := h.admin.RemoveRole(c.Request().Context(), c.Param("id"), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// SetActive godoc
// @Summary Activate or deactivate a principal
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body activeRequest true "Activation flag"
// @Success 200 {object} domain.User
// @Router /admin/users/{id}/status [patch]
func (h *AdminHandler) SetActive(c echo.Context) error {
	var req activeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.admin.SetActive(c.Request().Context(), c.Param("id"), *req.Active)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
