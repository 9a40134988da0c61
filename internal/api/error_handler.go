package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/abelov/technical-records/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// NewErrorHandler maps domain errors onto HTTP statuses. Anything
// unrecognized becomes a logged 500 with a generic body; internal error
// text never reaches the client.
func NewErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			status = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			}
		case errors.Is(err, domain.ErrInvalidCredentials):
			status, message = http.StatusUnauthorized, "invalid credentials"
		case errors.Is(err, domain.ErrUserExists):
			status, message = http.StatusConflict, "email already registered"
		case errors.Is(err, domain.ErrUserNotFound):
			status, message = http.StatusNotFound, "user not found"
		case errors.Is(err, domain.ErrTicketNotFound):
			status, message = http.StatusNotFound, "request not found"
		case errors.Is(err, domain.ErrForbidden):
			status, message = http.StatusForbidden, "access forbidden"
		default:
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, errorResponse{Error: message})
		}
		if writeErr != nil {
			log.Error().Err(writeErr).Msg("error response write failed")
		}
	}
}
