package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agroplaza/identity-api/internal/api/metrics"
	"github.com/agroplaza/identity-api/internal/core/domain"
	"github.com/agroplaza/identity-api/internal/core/ports"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	registration ports.RegistrationService
	login        ports.LoginService
}

func NewAuthHandler(registration ports.RegistrationService, login ports.LoginService) *AuthHandler {
	return &AuthHandler{registration: registration, login: login}
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      string(a.Role),
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
	}
}

// Register creates a new account and sends the first verification code.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.registration.Register(c.Request().Context(), req.Username, req.Password, req.Email, domain.Role(req.Role))
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(result.Account.Role)).Inc()
	return c.JSON(http.StatusCreated, registerResponse{
		Message: result.Message,
		Account: toAccountResponse(result.Account),
	})
}

// Login authenticates with the permanent password or a one-time recovery
// password and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      423   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.login.Login(c.Request().Context(), ports.LoginInput{
		Username: req.Username,
		Secret:   req.Password,
		Recovery: req.Recovery,
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Token:   result.Token,
		Account: toAccountResponse(result.Account),
	})
}

func loginOutcome(err error) string {
	var locked *domain.LockedError
	switch {
	case errors.As(err, &locked):
		metrics.LockoutsTotal.Inc()
		return "locked"
	case errors.Is(err, domain.ErrAccountNotVerified):
		return "unverified"
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidRandomPassword),
		errors.Is(err, domain.ErrRandomPasswordExpired):
		return "invalid_credentials"
	default:
		return "error"
	}
}
