package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/agroplaza/identity-api/internal/core/domain"
	"github.com/agroplaza/identity-api/internal/core/ports"
)

// welcomeMessages maps each role to the message returned after registration.
var welcomeMessages = map[domain.Role]string{
	domain.RoleUser:       "Welcome! Check your inbox for the verification code to activate your account.",
	domain.RoleFarmer:     "Welcome, producer! Check your inbox for the verification code to start selling.",
	domain.RoleSupervisor: "Supervisor account created. Check your inbox for the verification code.",
	domain.RoleAdmin:      "Administrator account created. Check your inbox for the verification code.",
}

// RegistrationService orchestrates input validation, duplicate checking,
// password hashing, record creation and dispatch of the first verification
// code.
type RegistrationService struct {
	accounts      ports.AccountRepository
	verifications ports.VerificationRepository
	notifier      ports.Notifier
	codeTTL       time.Duration
}

func NewRegistrationService(
	accounts ports.AccountRepository,
	verifications ports.VerificationRepository,
	notifier ports.Notifier,
	codeTTL time.Duration,
) *RegistrationService {
	if codeTTL <= 0 {
		codeTTL = 24 * time.Hour
	}
	return &RegistrationService{
		accounts:      accounts,
		verifications: verifications,
		notifier:      notifier,
		codeTTL:       codeTTL,
	}
}

func (s *RegistrationService) Register(ctx context.Context, username, password, email string, role domain.Role) (*ports.RegistrationResult, error) {
	if username == "" || password == "" || email == "" || role == "" {
		return nil, domain.ErrRequiredFields
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return nil, err
	}
	if err := ValidateEmailFormat(email); err != nil {
		return nil, err
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	if _, err := s.accounts.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrAccountExists
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}
	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	if err := s.verifications.Create(ctx, created.ID); err != nil {
		return nil, err
	}

	code, err := GenerateVerificationCode()
	if err != nil {
		return nil, err
	}
	if err := s.verifications.SetCode(ctx, created.ID, code, now.Add(s.codeTTL)); err != nil {
		return nil, err
	}

	// Delivery is best-effort: the account and code are already committed,
	// a failing notification channel must not fail the registration.
	s.notifier.Enqueue(ports.Notification{
		Channel: ports.ChannelEmail,
		To:      created.Email,
		Subject: "Verify your email address",
		Body:    fmt.Sprintf("Hi %s, your verification code is %s.", created.Username, code),
	})

	return &ports.RegistrationResult{
		Account: created,
		Message: welcomeMessages[role],
	}, nil
}
