package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/agroplaza/identity-api/internal/core/domain"
	"github.com/agroplaza/identity-api/internal/core/ports"
)

type recoveryFixture struct {
	svc           *RecoveryService
	accounts      *stubAccounts
	verifications *stubVerifications
	notifier      *stubNotifier
	account       *domain.Account
}

func newRecoveryFixture(t *testing.T, verified bool) *recoveryFixture {
	t.Helper()
	accounts := newStubAccounts()
	verifications := newStubVerifications()
	notifier := &stubNotifier{}
	svc := NewRecoveryService(accounts, verifications, notifier, 30*time.Minute)

	hash, err := bcrypt.GenerateFromPassword([]byte("Old!Passw0rd"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	account, err := accounts.Create(context.Background(), &domain.Account{
		Username:     "carol",
		Email:        "c@x.com",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	if err := verifications.Create(context.Background(), account.ID); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	if verified {
		rec := verifications.byAccount[account.ID]
		rec.EmailVerified = true
		rec.PhoneVerified = true
	}
	return &recoveryFixture{svc: svc, accounts: accounts, verifications: verifications, notifier: notifier, account: account}
}

func TestRequestRecovery_IssuesRandomPassword(t *testing.T) {
	f := newRecoveryFixture(t, true)

	if err := f.svc.RequestRecovery(context.Background(), "carol"); err != nil {
		t.Fatalf("RequestRecovery returned error: %v", err)
	}

	record, _ := f.verifications.FindByAccountID(context.Background(), f.account.ID)
	if len(record.RandomPassword) != RandomPasswordLength {
		t.Fatalf("expected %d-char random password, got %q", RandomPasswordLength, record.RandomPassword)
	}
	if record.ExpiresAt == nil || !record.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", record.ExpiresAt)
	}

	if len(f.notifier.sent) != 1 || f.notifier.sent[0].Channel != ports.ChannelEmail {
		t.Fatalf("expected one recovery email, got %+v", f.notifier.sent)
	}
}

func TestRequestRecovery_ByEmail(t *testing.T) {
	f := newRecoveryFixture(t, true)

	if err := f.svc.RequestRecovery(context.Background(), "c@x.com"); err != nil {
		t.Fatalf("RequestRecovery by email failed: %v", err)
	}
}

func TestRequestRecovery_UnknownAccount(t *testing.T) {
	f := newRecoveryFixture(t, true)

	if err := f.svc.RequestRecovery(context.Background(), "nobody"); err != domain.ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestRequestRecovery_UnverifiedAccount(t *testing.T) {
	f := newRecoveryFixture(t, false)

	if err := f.svc.RequestRecovery(context.Background(), "carol"); err != domain.ErrAccountNotVerified {
		t.Fatalf("expected ErrAccountNotVerified, got %v", err)
	}
}

func TestResetPassword_RoundTrip(t *testing.T) {
	f := newRecoveryFixture(t, true)
	_ = f.verifications.SetRandomPassword(context.Background(), f.account.ID, "Ab3kP9qZ", time.Now().Add(30*time.Minute))

	if err := f.svc.ResetPassword(context.Background(), "carol", "Ab3kP9qZ", "New!Passw0rd"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}

	account, _ := f.accounts.FindByUsername(context.Background(), "carol")
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("New!Passw0rd")); err != nil {
		t.Fatalf("new password does not validate: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("Old!Passw0rd")) == nil {
		t.Fatalf("old password still validates")
	}

	record, _ := f.verifications.FindByAccountID(context.Background(), f.account.ID)
	if record.RandomPassword != "" || record.ExpiresAt != nil {
		t.Fatalf("random password not cleared: %+v", record)
	}
}

func TestResetPassword_RandomPasswordIsSingleUse(t *testing.T) {
	f := newRecoveryFixture(t, true)
	_ = f.verifications.SetRandomPassword(context.Background(), f.account.ID, "Ab3kP9qZ", time.Now().Add(30*time.Minute))

	if err := f.svc.ResetPassword(context.Background(), "carol", "Ab3kP9qZ", "New!Passw0rd"); err != nil {
		t.Fatalf("first reset failed: %v", err)
	}
	if err := f.svc.ResetPassword(context.Background(), "carol", "Ab3kP9qZ", "0ther!Passwd"); err != domain.ErrInvalidRandomPassword {
		t.Fatalf("expected ErrInvalidRandomPassword after field cleared, got %v", err)
	}
}

func TestResetPassword_WrongRandomPassword(t *testing.T) {
	f := newRecoveryFixture(t, true)
	_ = f.verifications.SetRandomPassword(context.Background(), f.account.ID, "Ab3kP9qZ", time.Now().Add(30*time.Minute))

	if err := f.svc.ResetPassword(context.Background(), "carol", "Zz9kP3bA", "New!Passw0rd"); err != domain.ErrInvalidRandomPassword {
		t.Fatalf("expected ErrInvalidRandomPassword, got %v", err)
	}
	// No partial write: the old password must still work.
	account, _ := f.accounts.FindByUsername(context.Background(), "carol")
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("Old!Passw0rd")); err != nil {
		t.Fatalf("old password no longer validates: %v", err)
	}
}

func TestResetPassword_ExpiredRandomPassword(t *testing.T) {
	f := newRecoveryFixture(t, true)
	_ = f.verifications.SetRandomPassword(context.Background(), f.account.ID, "Ab3kP9qZ", time.Now().Add(-time.Second))

	if err := f.svc.ResetPassword(context.Background(), "carol", "Ab3kP9qZ", "New!Passw0rd"); err != domain.ErrRandomPasswordExpired {
		t.Fatalf("expected ErrRandomPasswordExpired, got %v", err)
	}
}

func TestResetPassword_WeakNewPassword(t *testing.T) {
	f := newRecoveryFixture(t, true)
	_ = f.verifications.SetRandomPassword(context.Background(), f.account.ID, "Ab3kP9qZ", time.Now().Add(30*time.Minute))

	if err := f.svc.ResetPassword(context.Background(), "carol", "Ab3kP9qZ", "weakpw"); err != domain.ErrWeakPassword {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	// The one-time password survives a failed reset.
	record, _ := f.verifications.FindByAccountID(context.Background(), f.account.ID)
	if record.RandomPassword != "Ab3kP9qZ" {
		t.Fatalf("random password must survive failed validation, got %q", record.RandomPassword)
	}
}
