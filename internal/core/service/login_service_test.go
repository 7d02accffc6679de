package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/agroplaza/identity-api/internal/core/domain"
	"github.com/agroplaza/identity-api/internal/core/ports"
)

type loginFixture struct {
	svc           *LoginService
	accounts      *stubAccounts
	verifications *stubVerifications
	account       *domain.Account
}

// newLoginFixture seeds a fully verified account with the given password.
func newLoginFixture(t *testing.T, password string) *loginFixture {
	t.Helper()
	accounts := newStubAccounts()
	verifications := newStubVerifications()
	tokens := NewTokenIssuer("test-secret", time.Hour)
	svc := NewLoginService(accounts, verifications, tokens, 5, 15*time.Minute)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	account, err := accounts.Create(context.Background(), &domain.Account{
		Username:     "bob",
		Email:        "b@x.com",
		PhoneNumber:  "+5215550001111",
		PasswordHash: string(hash),
		Role:         domain.RoleFarmer,
		Status:       domain.StatusActive,
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	if err := verifications.Create(context.Background(), account.ID); err != nil {
		t.Fatalf("seed verification record: %v", err)
	}
	rec := verifications.byAccount[account.ID]
	rec.EmailVerified = true
	rec.PhoneVerified = true

	return &loginFixture{svc: svc, accounts: accounts, verifications: verifications, account: account}
}

func (f *loginFixture) login(secret string) (*ports.LoginResult, error) {
	return f.svc.Login(context.Background(), ports.LoginInput{Username: "bob", Secret: secret})
}

func TestLogin_Success(t *testing.T) {
	f := newLoginFixture(t, "Corr3ct!Pass")

	result, err := f.login("Corr3ct!Pass")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token")
	}
	if result.Account.Username != "bob" {
		t.Fatalf("unexpected account projection: %+v", result.Account)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(result.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["user_id"] != f.account.ID || claims["role"] != string(domain.RoleFarmer) {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLogin_RequiredFields(t *testing.T) {
	f := newLoginFixture(t, "Corr3ct!Pass")

	if _, err := f.svc.Login(context.Background(), ports.LoginInput{Username: "bob"}); err != domain.ErrRequiredFields {
		t.Fatalf("expected ErrRequiredFields, got %v", err)
	}
	if _, err := f.svc.Login(context.Background(), ports.LoginInput{Secret: "x"}); err != domain.ErrRequiredFields {
		t.Fatalf("expected ErrRequiredFields, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	f := newLoginFixture(t, "Corr3ct!Pass")

	_, err := f.svc.Login(context.Background(), ports.LoginInput{Username: "ghost", Secret: "whatever123"})
	if err != domain.ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestLogin_UnverifiedPhoneForbidden(t *testing.T) {
	f := newLoginFixture(t, "Corr3ct!Pass")
	f.verifications.byAccount[f.account.ID].PhoneVerified = false

	// Correct credentials do not help while the phone is unverified.
	if _, err := f.login("Corr3ct!Pass"); err != domain.ErrAccountNotVerified {
		t.Fatalf("expected ErrAccountNotVerified, got %v", err)
	}
}

func TestLogin_WrongPasswordIncrementsCounter(t *testing.T) {
	f := newLoginFixture(t, "Corr3ct!Pass")

	if _, err := f.login("Wr0ng!Passw"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if got := f.verifications.byAccount[f.account.ID].LoginAttempts; got != 1 {
		t.Fatalf("expected counter 1, got %d", got)
	}
}

func TestLogin_LockoutAfterThreshold(t *testing.T) {
	f := newLoginFixture(t, "Corr3ct!Pass")

	for i := 0; i < 4; i++ {
		if _, err := f.login("Wr0ng!Passw"); err != domain.ErrInvalidCredentials {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	// The fifth failure crosses the threshold and opens the window.
	var locked *domain.LockedError
	if _, err := f.login("Wr0ng!Passw"); !errors.As(err, &locked) {
		t.Fatalf("expected LockedError on fifth failure, got %v", err)
	}
	if locked.RemainingMinutes(time.Now()) <= 0 {
		t.Fatalf("expected remaining minutes > 0")
	}

	// Even the correct password is refused while locked, and the counter
	// stays where it was.
	if _, err := f.login("Corr3ct!Pass"); !errors.As(err, &locked) {
		t.Fatalf("expected LockedError with correct password, got %v", err)
	}
	if got := f.verifications.byAccount[f.account.ID].LoginAttempts; got != 5 {
		t.Fatalf("counter must not grow during lockout, got %d", got)
	}
}

func TestLogin_SuccessResetsCounter(t *testing.T) {
	f := newLoginFixture(t, "Corr3ct!Pass")

	for i := 0; i < 3; i++ {
		_, _ = f.login("Wr0ng!Passw")
	}
	if _, err := f.login("Corr3ct!Pass"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if got := f.verifications.byAccount[f.account.ID].LoginAttempts; got != 0 {
		t.Fatalf("expected counter reset to 0, got %d", got)
	}
}

func TestLogin_LockoutExpiryResetsCounter(t *testing.T) {
	f := newLoginFixture(t, "Corr3ct!Pass")

	rec := f.verifications.byAccount[f.account.ID]
	rec.LoginAttempts = 5
	past := time.Now().Add(-time.Minute)
	rec.LockedUntil = &past

	if _, err := f.login("Corr3ct!Pass"); err != nil {
		t.Fatalf("login after lockout expiry failed: %v", err)
	}
	if rec.LoginAttempts != 0 || rec.LockedUntil != nil {
		t.Fatalf("expected implicit counter reset, got %+v", rec)
	}
}

func TestLogin_RandomPasswordPath(t *testing.T) {
	f := newLoginFixture(t, "Corr3ct!Pass")
	expires := time.Now().Add(30 * time.Minute)
	if err := f.verifications.SetRandomPassword(context.Background(), f.account.ID, "Ab3kP9qZ", expires); err != nil {
		t.Fatalf("set random password: %v", err)
	}

	result, err := f.login("Ab3kP9qZ")
	if err != nil {
		t.Fatalf("random-password login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token")
	}
}

func TestLogin_RandomPasswordExplicitFlag(t *testing.T) {
	f := newLoginFixture(t, "Corr3ct!Pass")
	expires := time.Now().Add(30 * time.Minute)
	_ = f.verifications.SetRandomPassword(context.Background(), f.account.ID, "Ab3kP9qZ", expires)

	// The explicit flag selects the recovery path independently of length.
	if _, err := f.svc.Login(context.Background(), ports.LoginInput{Username: "bob", Secret: "Ab3kP9qZ", Recovery: true}); err != nil {
		t.Fatalf("recovery login failed: %v", err)
	}
}

func TestLogin_RandomPasswordWrongDoesNotTouchCounter(t *testing.T) {
	f := newLoginFixture(t, "Corr3ct!Pass")
	expires := time.Now().Add(30 * time.Minute)
	_ = f.verifications.SetRandomPassword(context.Background(), f.account.ID, "Ab3kP9qZ", expires)

	if _, err := f.login("Zz9kP3bA"); err != domain.ErrInvalidRandomPassword {
		t.Fatalf("expected ErrInvalidRandomPassword, got %v", err)
	}
	if got := f.verifications.byAccount[f.account.ID].LoginAttempts; got != 0 {
		t.Fatalf("random-password failures must not touch the counter, got %d", got)
	}
}

func TestLogin_RandomPasswordExpired(t *testing.T) {
	f := newLoginFixture(t, "Corr3ct!Pass")
	_ = f.verifications.SetRandomPassword(context.Background(), f.account.ID, "Ab3kP9qZ", time.Now().Add(-time.Second))

	if _, err := f.login("Ab3kP9qZ"); err != domain.ErrRandomPasswordExpired {
		t.Fatalf("expected ErrRandomPasswordExpired, got %v", err)
	}
}

func TestLogin_RandomPasswordRefusedWhileLocked(t *testing.T) {
	f := newLoginFixture(t, "Corr3ct!Pass")
	expires := time.Now().Add(30 * time.Minute)
	_ = f.verifications.SetRandomPassword(context.Background(), f.account.ID, "Ab3kP9qZ", expires)

	rec := f.verifications.byAccount[f.account.ID]
	until := time.Now().Add(10 * time.Minute)
	rec.LockedUntil = &until
	rec.LoginAttempts = 5

	var locked *domain.LockedError
	if _, err := f.login("Ab3kP9qZ"); !errors.As(err, &locked) {
		t.Fatalf("expected LockedError for random-password attempt while locked, got %v", err)
	}
}
