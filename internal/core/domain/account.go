package domain

import (
	"errors"
	"time"
)

// Role enumerates the account roles of the marketplace.
type Role string

const (
	RoleUser       Role = "user"
	RoleFarmer     Role = "farmer"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleFarmer, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

// AccountStatus represents the activation state of an account.
type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusInactive AccountStatus = "inactive"
)

// Validation errors.
var (
	ErrRequiredFields = errors.New("all fields are required")
	ErrWeakPassword   = errors.New("password does not meet the security requirements")
	ErrInvalidEmail   = errors.New("email address is not valid")
	ErrInvalidRole    = errors.New("role is not valid")
)

// Conflict errors.
var (
	ErrAccountExists        = errors.New("username already registered")
	ErrEmailExists          = errors.New("email already registered")
	ErrPhoneExists          = errors.New("phone number already registered")
	ErrEmailAlreadyVerified = errors.New("email already verified")
	ErrPhoneAlreadyVerified = errors.New("phone number already verified")
)

// Lookup and state errors.
var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrVerificationNotFound = errors.New("verification record not found")
	ErrAccountNotVerified   = errors.New("account email or phone not verified")
	ErrPhoneMismatch        = errors.New("phone number does not match the one on record")
)

// Credential errors.
var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidCode            = errors.New("verification code is invalid")
	ErrCodeExpired            = errors.New("verification code has expired")
	ErrInvalidRandomPassword  = errors.New("one-time password is invalid")
	ErrRandomPasswordExpired  = errors.New("one-time password has expired")
	ErrUnauthorized           = errors.New("missing or invalid token")
)

// Account is the authenticatable identity record.
type Account struct {
	ID           string        `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	PhoneNumber  string        `json:"phone_number,omitempty"`
	PasswordHash string        `json:"-"`
	Role         Role          `json:"role"`
	Status       AccountStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// LockedError signals that authentication is temporarily refused after too
// many failed attempts. It carries a client-facing remaining-time hint.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return "account temporarily locked"
}

// RemainingMinutes returns how many whole minutes are left on the lockout
// window, never less than 1 while the lock is still active.
func (e *LockedError) RemainingMinutes(now time.Time) int {
	remaining := e.Until.Sub(now)
	if remaining <= 0 {
		return 0
	}
	minutes := int(remaining.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
