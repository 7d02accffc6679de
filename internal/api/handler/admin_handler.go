package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agroplaza/identity-api/internal/core/domain"
	"github.com/agroplaza/identity-api/internal/core/ports"
)

// AdminHandler exposes the administrative account operations.
type AdminHandler struct {
	service ports.AccountAdminService
}

func NewAdminHandler(service ports.AccountAdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// UpdateStatus activates or deactivates an account.
//
// @Summary      Update account status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Account ID"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Security     BearerAuth
// @Router       /admin/accounts/{id}/status [put]
func (h *AdminHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), domain.AccountStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}
