package ports

import (
	"context"
	"time"

	"github.com/agroplaza/identity-api/internal/core/domain"
)

// VerificationRepository persists the 1:1 verification state per account.
//
// The consume and attempt operations are required to be atomic: a code or
// one-time password must not be spendable twice under concurrent requests,
// and the failed-attempt counter must open the lockout window in the same
// update that crosses the threshold.
type VerificationRepository interface {
	Create(ctx context.Context, accountID string) error
	FindByAccountID(ctx context.Context, accountID string) (*domain.VerificationRecord, error)

	// SetCode overwrites the active verification code and its expiry.
	SetCode(ctx context.Context, accountID, code string, expiresAt time.Time) error
	// ConsumeEmailCode marks the email as verified and clears the code in a
	// single conditional update keyed on the code value. Returns
	// domain.ErrInvalidCode when the stored code no longer matches (already
	// consumed or reissued).
	ConsumeEmailCode(ctx context.Context, accountID, code string) error
	// ConsumePhoneCode is the phone-channel counterpart of ConsumeEmailCode.
	ConsumePhoneCode(ctx context.Context, accountID, code string) error

	// SetRandomPassword overwrites the active one-time password and expiry.
	SetRandomPassword(ctx context.Context, accountID, randomPassword string, expiresAt time.Time) error
	// ClearRandomPassword removes the one-time password in a conditional
	// update keyed on its value, making it single-use. Returns
	// domain.ErrInvalidRandomPassword when the stored value no longer matches.
	ClearRandomPassword(ctx context.Context, accountID, randomPassword string) error

	// RecordFailedAttempt increments the counter and, when the new value
	// reaches threshold, sets the lockout deadline — one atomic update.
	// It returns the counter value after the increment.
	RecordFailedAttempt(ctx context.Context, accountID string, threshold int, lockUntil time.Time) (int, error)
	// ResetAttempts zeroes the counter and clears any lockout deadline.
	ResetAttempts(ctx context.Context, accountID string) error
}
