package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/agroplaza/identity-api/internal/core/domain"
	"github.com/agroplaza/identity-api/internal/core/ports"
)

// RecoveryService issues one-time passwords and replaces permanent ones.
// Recovery reuses the verification record's secret and expiry fields, so a
// newly issued one-time password invalidates any pending code.
type RecoveryService struct {
	accounts          ports.AccountRepository
	verifications     ports.VerificationRepository
	notifier          ports.Notifier
	randomPasswordTTL time.Duration
}

func NewRecoveryService(
	accounts ports.AccountRepository,
	verifications ports.VerificationRepository,
	notifier ports.Notifier,
	randomPasswordTTL time.Duration,
) *RecoveryService {
	if randomPasswordTTL <= 0 {
		randomPasswordTTL = 30 * time.Minute
	}
	return &RecoveryService{
		accounts:          accounts,
		verifications:     verifications,
		notifier:          notifier,
		randomPasswordTTL: randomPasswordTTL,
	}
}

// RequestRecovery generates a fresh one-time password and mails it. The
// response to the client stays generic so accounts cannot be enumerated
// beyond the plain not-found case.
func (s *RecoveryService) RequestRecovery(ctx context.Context, usernameOrEmail string) error {
	if usernameOrEmail == "" {
		return domain.ErrRequiredFields
	}

	account, _, err := s.lookupVerified(ctx, usernameOrEmail)
	if err != nil {
		return err
	}

	randomPassword, err := GenerateRandomPassword()
	if err != nil {
		return err
	}
	if err := s.verifications.SetRandomPassword(ctx, account.ID, randomPassword, time.Now().UTC().Add(s.randomPasswordTTL)); err != nil {
		return err
	}

	s.notifier.Enqueue(ports.Notification{
		Channel: ports.ChannelEmail,
		To:      account.Email,
		Subject: "Your temporary password",
		Body:    fmt.Sprintf("Hi %s, your temporary password is %s. It expires in %d minutes.", account.Username, randomPassword, int(s.randomPasswordTTL.Minutes())),
	})
	return nil
}

// ResetPassword validates the one-time password and replaces the permanent
// hash. Every validation step fails before any write; the one-time password
// is cleared in the same conditional update that proves it was still valid.
func (s *RecoveryService) ResetPassword(ctx context.Context, usernameOrEmail, randomPassword, newPassword string) error {
	if usernameOrEmail == "" || randomPassword == "" || newPassword == "" {
		return domain.ErrRequiredFields
	}

	account, record, err := s.lookupVerified(ctx, usernameOrEmail)
	if err != nil {
		return err
	}

	if record.RandomPassword == "" || !secretsEqual(randomPassword, record.RandomPassword) {
		return domain.ErrInvalidRandomPassword
	}
	if record.SecretExpired(time.Now()) {
		return domain.ErrRandomPasswordExpired
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.accounts.UpdatePassword(ctx, account.ID, string(hash)); err != nil {
		return err
	}
	return s.verifications.ClearRandomPassword(ctx, account.ID, randomPassword)
}

func (s *RecoveryService) lookupVerified(ctx context.Context, usernameOrEmail string) (*domain.Account, *domain.VerificationRecord, error) {
	account, err := s.accounts.FindByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		return nil, nil, err
	}
	record, err := s.verifications.FindByAccountID(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}
	if !record.FullyVerified() {
		return nil, nil, domain.ErrAccountNotVerified
	}
	return account, record, nil
}
