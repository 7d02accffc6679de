package service

import (
	"context"
	"fmt"
	"time"

	"github.com/agroplaza/identity-api/internal/core/domain"
	"github.com/agroplaza/identity-api/internal/core/ports"
)

// stubAccounts is an in-memory AccountRepository for service tests.
type stubAccounts struct {
	byID map[string]*domain.Account
	seq  int
}

func newStubAccounts() *stubAccounts {
	return &stubAccounts{byID: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccounts) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	for _, existing := range r.byID {
		if existing.Username == account.Username {
			return nil, domain.ErrAccountExists
		}
		if existing.Email == account.Email {
			return nil, domain.ErrEmailExists
		}
	}
	r.seq++
	copy := cloneAccount(account)
	copy.ID = fmt.Sprintf("acc-%d", r.seq)
	r.byID[copy.ID] = cloneAccount(copy)
	return cloneAccount(copy), nil
}

func (r *stubAccounts) FindByID(_ context.Context, id string) (*domain.Account, error) {
	if a, ok := r.byID[id]; ok {
		return cloneAccount(a), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccounts) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	for _, a := range r.byID {
		if a.Username == username {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccounts) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.byID {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccounts) FindByPhone(_ context.Context, phone string) (*domain.Account, error) {
	for _, a := range r.byID {
		if a.PhoneNumber == phone {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccounts) FindByUsernameOrEmail(ctx context.Context, identifier string) (*domain.Account, error) {
	if a, err := r.FindByUsername(ctx, identifier); err == nil {
		return a, nil
	}
	return r.FindByEmail(ctx, identifier)
}

func (r *stubAccounts) UpdatePhone(_ context.Context, id, phone string) error {
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.PhoneNumber = phone
	return nil
}

func (r *stubAccounts) UpdatePassword(_ context.Context, id, passwordHash string) error {
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.PasswordHash = passwordHash
	return nil
}

func (r *stubAccounts) UpdateStatus(_ context.Context, id string, status domain.AccountStatus) error {
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Status = status
	return nil
}

// stubVerifications mirrors the conditional-update semantics of the Mongo
// repository in memory.
type stubVerifications struct {
	byAccount map[string]*domain.VerificationRecord
}

func newStubVerifications() *stubVerifications {
	return &stubVerifications{byAccount: make(map[string]*domain.VerificationRecord)}
}

func (r *stubVerifications) Create(_ context.Context, accountID string) error {
	r.byAccount[accountID] = &domain.VerificationRecord{AccountID: accountID}
	return nil
}

func (r *stubVerifications) FindByAccountID(_ context.Context, accountID string) (*domain.VerificationRecord, error) {
	rec, ok := r.byAccount[accountID]
	if !ok {
		return nil, domain.ErrVerificationNotFound
	}
	clone := *rec
	return &clone, nil
}

func (r *stubVerifications) SetCode(_ context.Context, accountID, code string, expiresAt time.Time) error {
	rec, ok := r.byAccount[accountID]
	if !ok {
		return domain.ErrVerificationNotFound
	}
	rec.Code = code
	rec.ExpiresAt = &expiresAt
	return nil
}

func (r *stubVerifications) ConsumeEmailCode(_ context.Context, accountID, code string) error {
	rec, ok := r.byAccount[accountID]
	if !ok {
		return domain.ErrVerificationNotFound
	}
	if rec.Code == "" || rec.Code != code {
		return domain.ErrInvalidCode
	}
	rec.EmailVerified = true
	rec.Code = ""
	rec.ExpiresAt = nil
	return nil
}

func (r *stubVerifications) ConsumePhoneCode(_ context.Context, accountID, code string) error {
	rec, ok := r.byAccount[accountID]
	if !ok {
		return domain.ErrVerificationNotFound
	}
	if rec.Code == "" || rec.Code != code {
		return domain.ErrInvalidCode
	}
	rec.PhoneVerified = true
	rec.Code = ""
	rec.ExpiresAt = nil
	return nil
}

func (r *stubVerifications) SetRandomPassword(_ context.Context, accountID, randomPassword string, expiresAt time.Time) error {
	rec, ok := r.byAccount[accountID]
	if !ok {
		return domain.ErrVerificationNotFound
	}
	rec.RandomPassword = randomPassword
	rec.ExpiresAt = &expiresAt
	return nil
}

func (r *stubVerifications) ClearRandomPassword(_ context.Context, accountID, randomPassword string) error {
	rec, ok := r.byAccount[accountID]
	if !ok {
		return domain.ErrVerificationNotFound
	}
	if rec.RandomPassword == "" || rec.RandomPassword != randomPassword {
		return domain.ErrInvalidRandomPassword
	}
	rec.RandomPassword = ""
	rec.ExpiresAt = nil
	return nil
}

func (r *stubVerifications) RecordFailedAttempt(_ context.Context, accountID string, threshold int, lockUntil time.Time) (int, error) {
	rec, ok := r.byAccount[accountID]
	if !ok {
		return 0, domain.ErrVerificationNotFound
	}
	rec.LoginAttempts++
	if rec.LoginAttempts >= threshold {
		until := lockUntil
		rec.LockedUntil = &until
	}
	return rec.LoginAttempts, nil
}

func (r *stubVerifications) ResetAttempts(_ context.Context, accountID string) error {
	rec, ok := r.byAccount[accountID]
	if !ok {
		return domain.ErrVerificationNotFound
	}
	rec.LoginAttempts = 0
	rec.LockedUntil = nil
	return nil
}

// stubNotifier records enqueued notifications for assertions.
type stubNotifier struct {
	sent []ports.Notification
}

func (n *stubNotifier) Enqueue(msg ports.Notification) {
	n.sent = append(n.sent, msg)
}
