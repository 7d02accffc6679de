package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/agroplaza/identity-api/internal/core/domain"
	"github.com/agroplaza/identity-api/internal/core/ports"
)

// VerificationService runs the two confirmation passes, email first and
// phone second. Each pass validates the submitted code against the stored
// one, enforces expiry, and flips the channel flag with a single conditional
// update so a code can never be spent twice.
type VerificationService struct {
	accounts      ports.AccountRepository
	verifications ports.VerificationRepository
	notifier      ports.Notifier
	codeTTL       time.Duration
	frontendURL   string
}

func NewVerificationService(
	accounts ports.AccountRepository,
	verifications ports.VerificationRepository,
	notifier ports.Notifier,
	codeTTL time.Duration,
	frontendURL string,
) *VerificationService {
	if codeTTL <= 0 {
		codeTTL = 24 * time.Hour
	}
	return &VerificationService{
		accounts:      accounts,
		verifications: verifications,
		notifier:      notifier,
		codeTTL:       codeTTL,
		frontendURL:   frontendURL,
	}
}

// VerifyEmail confirms the email channel. On success it invites the user to
// the next step by mailing the phone-verification instructions.
func (s *VerificationService) VerifyEmail(ctx context.Context, username, code string) error {
	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	record, err := s.verifications.FindByAccountID(ctx, account.ID)
	if err != nil {
		return err
	}

	if record.EmailVerified {
		return domain.ErrEmailAlreadyVerified
	}
	if !secretsEqual(code, record.Code) {
		return domain.ErrInvalidCode
	}
	if record.SecretExpired(time.Now()) {
		return domain.ErrCodeExpired
	}

	if err := s.verifications.ConsumeEmailCode(ctx, account.ID, code); err != nil {
		return err
	}

	s.notifier.Enqueue(ports.Notification{
		Channel: ports.ChannelEmail,
		To:      account.Email,
		Subject: "Email verified — one step left",
		Body:    fmt.Sprintf("Hi %s, your email is verified. Register your phone number to finish activating your account.", account.Username),
	})
	return nil
}

// ResendEmailCode reissues the email code, unconditionally overwriting the
// previous one. Request-rate limiting happens at the route layer.
func (s *VerificationService) ResendEmailCode(ctx context.Context, username string) error {
	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	record, err := s.verifications.FindByAccountID(ctx, account.ID)
	if err != nil {
		return err
	}
	if record.EmailVerified {
		return domain.ErrEmailAlreadyVerified
	}

	code, err := GenerateVerificationCode()
	if err != nil {
		return err
	}
	if err := s.verifications.SetCode(ctx, account.ID, code, time.Now().UTC().Add(s.codeTTL)); err != nil {
		return err
	}

	s.notifier.Enqueue(ports.Notification{
		Channel: ports.ChannelEmail,
		To:      account.Email,
		Subject: "Your new verification code",
		Body:    fmt.Sprintf("Hi %s, your new verification code is %s.", account.Username, code),
	})
	return nil
}

// SendPhoneCode stores the phone number and delivers a fresh code over
// WhatsApp. The email channel must already be verified.
func (s *VerificationService) SendPhoneCode(ctx context.Context, username, phone string) error {
	if username == "" || phone == "" {
		return domain.ErrRequiredFields
	}

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	record, err := s.verifications.FindByAccountID(ctx, account.ID)
	if err != nil {
		return err
	}

	if !record.EmailVerified {
		return domain.ErrAccountNotVerified
	}
	if record.PhoneVerified {
		return domain.ErrPhoneAlreadyVerified
	}

	// The number must not belong to another account.
	if other, err := s.accounts.FindByPhone(ctx, phone); err == nil && other.ID != account.ID {
		return domain.ErrPhoneExists
	} else if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return err
	}
	if account.PhoneNumber != "" && account.PhoneNumber != phone {
		return domain.ErrPhoneMismatch
	}

	if err := s.accounts.UpdatePhone(ctx, account.ID, phone); err != nil {
		return err
	}

	code, err := GenerateVerificationCode()
	if err != nil {
		return err
	}
	if err := s.verifications.SetCode(ctx, account.ID, code, time.Now().UTC().Add(s.codeTTL)); err != nil {
		return err
	}

	body := fmt.Sprintf("Your verification code is %s.", code)
	if s.frontendURL != "" {
		body += fmt.Sprintf(" Continue at %s/auth/verifynumber?username=%s&phoneNumber=%s",
			s.frontendURL, url.QueryEscape(username), url.QueryEscape(phone))
	}
	s.notifier.Enqueue(ports.Notification{
		Channel: ports.ChannelWhatsApp,
		To:      phone,
		Body:    body,
	})
	return nil
}

// VerifyPhone confirms the phone channel, completing account activation.
func (s *VerificationService) VerifyPhone(ctx context.Context, username, phone, code string) error {
	if username == "" || phone == "" || code == "" {
		return domain.ErrRequiredFields
	}

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	record, err := s.verifications.FindByAccountID(ctx, account.ID)
	if err != nil {
		return err
	}

	if record.PhoneVerified {
		return domain.ErrPhoneAlreadyVerified
	}
	if account.PhoneNumber != phone {
		return domain.ErrPhoneMismatch
	}
	if !secretsEqual(code, record.Code) {
		return domain.ErrInvalidCode
	}
	if record.SecretExpired(time.Now()) {
		return domain.ErrCodeExpired
	}

	return s.verifications.ConsumePhoneCode(ctx, account.ID, code)
}
