package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/agroplaza/identity-api/internal/core/domain"
)

// TokenIssuer mints the stateless HS256 session tokens. Tokens carry the
// account id and role and are invalidated only by expiry.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token asserting {account id, role, issued-at, expiry}.
func (t *TokenIssuer) Issue(account *domain.Account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": account.ID,
		"role":    string(account.Role),
		"iat":     now.Unix(),
		"exp":     now.Add(t.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
