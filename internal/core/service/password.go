package service

import (
	"regexp"
	"unicode"

	"github.com/agroplaza/identity-api/internal/core/domain"
)

const passwordMinLength = 10

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidatePasswordStrength checks the permanent-password policy: minimum
// length, at least one digit, one uppercase letter, one lowercase letter and
// one special character. Validation short-circuits at the first failing rule.
func ValidatePasswordStrength(password string) error {
	if len(password) < passwordMinLength {
		return domain.ErrWeakPassword
	}

	var hasDigit, hasUpper, hasLower, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasDigit || !hasUpper || !hasLower || !hasSpecial {
		return domain.ErrWeakPassword
	}
	return nil
}

// ValidateEmailFormat checks the address against the registration pattern.
func ValidateEmailFormat(email string) error {
	if !emailPattern.MatchString(email) {
		return domain.ErrInvalidEmail
	}
	return nil
}
