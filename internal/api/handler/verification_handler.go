package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agroplaza/identity-api/internal/api/metrics"
	"github.com/agroplaza/identity-api/internal/core/ports"
)

// VerificationHandler handles the email and phone confirmation endpoints.
type VerificationHandler struct {
	service ports.VerificationService
}

func NewVerificationHandler(service ports.VerificationService) *VerificationHandler {
	return &VerificationHandler{service: service}
}

// VerifyEmail confirms the email channel with a submitted code.
//
// @Summary      Verify email
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        body  body      verifyEmailRequest  true  "Username and code"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/email/verify [post]
func (h *VerificationHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.VerifyEmail(c.Request().Context(), req.Username, req.Code); err != nil {
		return err
	}

	metrics.VerificationsTotal.WithLabelValues("email").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "email verified, continue with phone registration"})
}

// ResendEmailCode reissues the email verification code.
//
// @Summary      Resend email verification code
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        body  body      resendCodeRequest  true  "Username"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/email/resend [post]
func (h *VerificationHandler) ResendEmailCode(c echo.Context) error {
	var req resendCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.ResendEmailCode(c.Request().Context(), req.Username); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "verification code resent"})
}

// SendPhoneCode registers the phone number and sends its verification code.
//
// @Summary      Send phone verification code
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        body  body      sendPhoneCodeRequest  true  "Username and phone number"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/phone/send [post]
func (h *VerificationHandler) SendPhoneCode(c echo.Context) error {
	var req sendPhoneCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.SendPhoneCode(c.Request().Context(), req.Username, req.PhoneNumber); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "verification code sent by whatsapp"})
}

// VerifyPhone confirms the phone channel, completing account activation.
//
// @Summary      Verify phone number
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        body  body      verifyPhoneRequest  true  "Username, phone number and code"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/phone/verify [post]
func (h *VerificationHandler) VerifyPhone(c echo.Context) error {
	var req verifyPhoneRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.VerifyPhone(c.Request().Context(), req.Username, req.PhoneNumber, req.Code); err != nil {
		return err
	}

	metrics.VerificationsTotal.WithLabelValues("phone").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "account fully verified, you can now log in"})
}
