package domain

import "time"

// VerificationRecord tracks the per-account verification state: channel
// flags, the currently active one-time secrets with their shared expiry, and
// the failed-login bookkeeping used for lockouts.
//
// At most one verification code is active at a time; issuing a new one
// overwrites the previous code and expiry. Expiry is an absolute timestamp
// compared against the clock at check time.
type VerificationRecord struct {
	AccountID      string     `json:"account_id"`
	EmailVerified  bool       `json:"email_verified"`
	PhoneVerified  bool       `json:"phone_verified"`
	Code           string     `json:"-"`
	RandomPassword string     `json:"-"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	LoginAttempts  int        `json:"login_attempts"`
	LockedUntil    *time.Time `json:"locked_until,omitempty"`
}

// FullyVerified reports whether both channels have been confirmed, which is
// the precondition for login and password recovery.
func (v *VerificationRecord) FullyVerified() bool {
	return v.EmailVerified && v.PhoneVerified
}

// SecretExpired reports whether the active code or one-time password has
// expired at instant now. A missing expiry counts as expired; the exact
// expiry instant also counts as expired.
func (v *VerificationRecord) SecretExpired(now time.Time) bool {
	if v.ExpiresAt == nil {
		return true
	}
	return !now.Before(*v.ExpiresAt)
}

// Locked reports whether the lockout window is still open at instant now.
func (v *VerificationRecord) Locked(now time.Time) bool {
	return v.LockedUntil != nil && now.Before(*v.LockedUntil)
}
