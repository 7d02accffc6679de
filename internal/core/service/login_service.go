package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/agroplaza/identity-api/internal/core/domain"
	"github.com/agroplaza/identity-api/internal/core/ports"
)

// LoginService authenticates accounts and enforces the failed-attempt
// lockout. Failed permanent-password attempts increment a per-account
// counter; crossing the threshold opens a lockout window during which every
// attempt is refused regardless of credential correctness.
type LoginService struct {
	accounts      ports.AccountRepository
	verifications ports.VerificationRepository
	tokens        *TokenIssuer
	maxAttempts   int
	lockoutWindow time.Duration
}

func NewLoginService(
	accounts ports.AccountRepository,
	verifications ports.VerificationRepository,
	tokens *TokenIssuer,
	maxAttempts int,
	lockoutWindow time.Duration,
) *LoginService {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if lockoutWindow <= 0 {
		lockoutWindow = 15 * time.Minute
	}
	return &LoginService{
		accounts:      accounts,
		verifications: verifications,
		tokens:        tokens,
		maxAttempts:   maxAttempts,
		lockoutWindow: lockoutWindow,
	}
}

func (s *LoginService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	if in.Username == "" || in.Secret == "" {
		return nil, domain.ErrRequiredFields
	}

	account, err := s.accounts.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	record, err := s.verifications.FindByAccountID(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	if !record.FullyVerified() {
		return nil, domain.ErrAccountNotVerified
	}

	now := time.Now()
	if record.Locked(now) {
		return nil, &domain.LockedError{Until: *record.LockedUntil}
	}
	if record.LockedUntil != nil {
		// Lockout window elapsed: the counter resets before this attempt
		// is judged.
		if err := s.verifications.ResetAttempts(ctx, account.ID); err != nil {
			return nil, err
		}
	}

	if in.Recovery || len(in.Secret) == RandomPasswordLength {
		return s.loginWithRandomPassword(ctx, account, record, in.Secret, now)
	}
	return s.loginWithPassword(ctx, account, in.Secret, now)
}

// loginWithRandomPassword validates the one-time recovery secret. Failures
// here are typed and never touch the attempt counter.
func (s *LoginService) loginWithRandomPassword(ctx context.Context, account *domain.Account, record *domain.VerificationRecord, secret string, now time.Time) (*ports.LoginResult, error) {
	if record.RandomPassword == "" || !secretsEqual(secret, record.RandomPassword) {
		return nil, domain.ErrInvalidRandomPassword
	}
	if record.SecretExpired(now) {
		return nil, domain.ErrRandomPasswordExpired
	}
	return s.succeed(ctx, account)
}

func (s *LoginService) loginWithPassword(ctx context.Context, account *domain.Account, password string, now time.Time) (*ports.LoginResult, error) {
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		lockUntil := now.Add(s.lockoutWindow)
		attempts, err := s.verifications.RecordFailedAttempt(ctx, account.ID, s.maxAttempts, lockUntil)
		if err != nil {
			return nil, err
		}
		if attempts >= s.maxAttempts {
			return nil, &domain.LockedError{Until: lockUntil}
		}
		return nil, domain.ErrInvalidCredentials
	}
	return s.succeed(ctx, account)
}

func (s *LoginService) succeed(ctx context.Context, account *domain.Account) (*ports.LoginResult, error) {
	if err := s.verifications.ResetAttempts(ctx, account.ID); err != nil {
		return nil, err
	}
	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, err
	}
	return &ports.LoginResult{Token: token, Account: account}, nil
}
