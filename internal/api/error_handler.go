package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/agroplaza/identity-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error            string `json:"error"`
	RemainingMinutes int    `json:"remaining_minutes,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		// Lockouts carry a remaining-time hint for the client.
		var locked *domain.LockedError
		if errors.As(err, &locked) {
			_ = c.JSON(http.StatusLocked, errorResponse{
				Error:            "account temporarily locked",
				RemainingMinutes: locked.RemainingMinutes(time.Now()),
			})
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrRequiredFields),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrInvalidRandomPassword),
		errors.Is(err, domain.ErrRandomPasswordExpired),
		errors.Is(err, domain.ErrPhoneMismatch):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrAccountExists),
		errors.Is(err, domain.ErrEmailExists),
		errors.Is(err, domain.ErrPhoneExists),
		errors.Is(err, domain.ErrEmailAlreadyVerified),
		errors.Is(err, domain.ErrPhoneAlreadyVerified):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrVerificationNotFound):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrAccountNotVerified):
		return http.StatusForbidden, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
