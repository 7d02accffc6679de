package handler

import "time"

// errorResponse documents the error envelope for swagger; the actual
// rendering happens in the central error handler.
type errorResponse struct {
	Error            string `json:"error"`
	RemainingMinutes int    `json:"remaining_minutes,omitempty"`
}

// --- Request types ---

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Role     string `json:"role"     validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	// Password carries either the permanent password or the one-time
	// recovery password; Recovery says explicitly which one it is.
	Password string `json:"password" validate:"required"`
	Recovery bool   `json:"recovery,omitempty"`
}

type verifyEmailRequest struct {
	Username string `json:"username"          validate:"required"`
	Code     string `json:"verification_code" validate:"required"`
}

type resendCodeRequest struct {
	Username string `json:"username" validate:"required"`
}

type sendPhoneCodeRequest struct {
	Username    string `json:"username"     validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
}

type verifyPhoneRequest struct {
	Username    string `json:"username"          validate:"required"`
	PhoneNumber string `json:"phone_number"      validate:"required"`
	Code        string `json:"verification_code" validate:"required"`
}

type recoveryRequest struct {
	UsernameOrEmail string `json:"username_or_email" validate:"required"`
}

type resetPasswordRequest struct {
	UsernameOrEmail string `json:"username_or_email" validate:"required"`
	RandomPassword  string `json:"random_password"   validate:"required"`
	NewPassword     string `json:"new_password"      validate:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

// --- Response types ---

// accountResponse is the minimal account projection returned to clients.
type accountResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type registerResponse struct {
	Message string          `json:"message"`
	Account accountResponse `json:"account"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Account accountResponse `json:"account"`
}

type messageResponse struct {
	Message string `json:"message"`
}
