package ports

import (
	"context"

	"github.com/agroplaza/identity-api/internal/core/domain"
)

// RegistrationResult carries the created account together with the
// role-specific welcome message shown to the client.
type RegistrationResult struct {
	Account *domain.Account
	Message string
}

// LoginInput is the credential submission for both login paths. Recovery is
// the explicit discriminant for the one-time-password path; as a fallback for
// clients that do not send it, a secret of the generated one-time-password
// length is treated as a recovery attempt.
type LoginInput struct {
	Username string
	Secret   string
	Recovery bool
}

// LoginResult is the token plus a minimal projection of the account.
type LoginResult struct {
	Token   string
	Account *domain.Account
}

// RegistrationService creates accounts and kicks off email verification.
type RegistrationService interface {
	Register(ctx context.Context, username, password, email string, role domain.Role) (*RegistrationResult, error)
}

// LoginService authenticates via permanent password or one-time password,
// enforcing verification state and the failed-attempt lockout.
type LoginService interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
}

// VerificationService drives the email-then-phone confirmation passes.
type VerificationService interface {
	VerifyEmail(ctx context.Context, username, code string) error
	ResendEmailCode(ctx context.Context, username string) error
	SendPhoneCode(ctx context.Context, username, phone string) error
	VerifyPhone(ctx context.Context, username, phone, code string) error
}

// RecoveryService issues one-time passwords and performs permanent resets.
type RecoveryService interface {
	RequestRecovery(ctx context.Context, usernameOrEmail string) error
	ResetPassword(ctx context.Context, usernameOrEmail, randomPassword, newPassword string) error
}

// AccountAdminService is the thin administrative surface over accounts.
type AccountAdminService interface {
	UpdateStatus(ctx context.Context, accountID string, status domain.AccountStatus) (*domain.Account, error)
}
