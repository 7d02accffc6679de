package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agroplaza/identity-api/internal/core/ports"
)

// RecoveryHandler handles the forgotten-password flow.
type RecoveryHandler struct {
	service ports.RecoveryService
}

func NewRecoveryHandler(service ports.RecoveryService) *RecoveryHandler {
	return &RecoveryHandler{service: service}
}

// RequestRecovery emails a one-time password to a verified account.
//
// @Summary      Request password recovery
// @Tags         recovery
// @Accept       json
// @Produce      json
// @Param        body  body      recoveryRequest  true  "Username or email"
// @Success      200   {object}  messageResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/recovery [post]
func (h *RecoveryHandler) RequestRecovery(c echo.Context) error {
	var req recoveryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.RequestRecovery(c.Request().Context(), req.UsernameOrEmail); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "temporary password sent by email"})
}

// ResetPassword exchanges a valid one-time password for a new permanent one.
//
// @Summary      Reset password
// @Tags         recovery
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "One-time password and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/recovery/reset [post]
func (h *RecoveryHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.ResetPassword(c.Request().Context(), req.UsernameOrEmail, req.RandomPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}
