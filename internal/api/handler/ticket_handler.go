package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/abelov/technical-records/internal/api/metrics"
	"github.com/abelov/technical-records/internal/api/middleware"
	"github.com/abelov/technical-records/internal/core/domain"
	"github.com/abelov/technical-records/internal/core/ports"
)

// TicketHandler exposes the service-request endpoints. All routes require
// an authenticated principal; ownership checks live in the service.
type TicketHandler struct {
	tickets ports.TicketService
	log     zerolog.Logger
}

func NewTicketHandler(tickets ports.TicketService, log zerolog.Logger) *TicketHandler {
	return &TicketHandler{tickets: tickets, log: log}
}

// List godoc
// @Summary List service requests visible to the caller
// @Tags requests
// @Produce json
// @Success 200 {array} domain.Ticket
// @Router /api/v1/requests [get]
func (h *TicketHandler) List(c echo.Context) error {
	tickets, err := h.tickets.List(c.Request().Context(), middleware.UserFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tickets)
}

// Get godoc
// @Summary Fetch one service request
// @Tags requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} domain.Ticket
// @Router /api/v1/requests/{id} [get]
func (h *TicketHandler) Get(c echo.Context) error {
	ticket, err := h.tickets.Get(c.Request().Context(), c.Param("id"), middleware.UserFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ticket)
}

// Create godoc
// @Summary Create a service request
// @Tags requests
// @Accept json
// @Produce json
// @Param request body createTicketRequest true "Request details"
// @Success 201 {object} domain.Ticket
// @Router /api/v1/requests [post]
func (h *TicketHandler) Create(c echo.Context) error {
	var req createTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ticket, err := h.tickets.Create(c.Request().Context(), req.toInput(), middleware.UserFrom(c))
	if err != nil {
		return err
	}
	metrics.TicketsCreated.WithLabelValues(string(ticket.Status)).Inc()
	return c.JSON(http.StatusCreated, ticket)
}

// Update godoc
// @Summary Partially update a service request
// @Tags requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body updateTicketRequest true "Fields to change"
// @Success 200 {object} domain.Ticket
// @Router /api/v1/requests/{id} [put]
func (h *TicketHandler) Update(c echo.Context) error {
	var req updateTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ticket, err := h.tickets.Update(c.Request().Context(), c.Param("id"), req.toUpdate(), middleware.UserFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ticket)
}

// Delete godoc
// @Summary Delete a service request
// @Tags requests
// @Param id path string true "Request ID"
// @Success 204
// @Router /api/v1/requests/{id} [delete]
func (h *TicketHandler) Delete(c echo.Context) error {
	if err := h.tickets.Delete(c.Request().Context(), c.Param("id"), middleware.UserFrom(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RecordPayment godoc
// @Summary Record a payment against a service request
// @Tags requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body recordPaymentRequest true "Payment"
// @Success 200 {object} domain.Ticket
// @Router /api/v1/requests/{id}/payment [post]
func (h *TicketHandler) RecordPayment(c echo.Context) error {
	var req recordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// Ownership gate: the reconciler itself trusts its caller.
	if _, err := h.tickets.Get(c.Request().Context(), c.Param("id"), middleware.UserFrom(c)); err != nil {
		return err
	}

	ticket, err := h.tickets.RecordPayment(c.Request().Context(), c.Param("id"), req.Amount, req.Reference)
	if err != nil {
		return err
	}
	metrics.PaymentsRecorded.Inc()
	return c.JSON(http.StatusOK, ticket)
}

// Stats godoc
// @Summary Summarize a user's service requests
// @Tags requests
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} ports.TicketStats
// @Router /api/v1/requests/stats/{userId} [get]
func (h *TicketHandler) Stats(c echo.Context) error {
	userID := c.Param("userId")
	requester := middleware.UserFrom(c)
	if requester == nil || (requester.ID != userID && !requester.HasRole(domain.RoleAdmin)) {
		return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
	}

	stats, err := h.tickets.Stats(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Search godoc
// @Summary Search the caller's service requests
// @Tags requests
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {array} domain.Ticket
// @Router /api/v1/requests/search [get]
func (h *TicketHandler) Search(c echo.Context) error {
	requester := middleware.UserFrom(c)
	tickets, err := h.tickets.Search(c.Request().Context(), requester.ID, c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tickets)
}
