package service

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

const (
	verificationCodeDigits = 6

	// RandomPasswordLength is the fixed length of generated one-time
	// passwords. The login workflow relies on this length as a fallback
	// discriminant for recovery attempts, so the generator and the login
	// branch must stay in lock-step.
	RandomPasswordLength = 8
)

const randomPasswordCharset = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"

// GenerateVerificationCode produces a zero-padded numeric code for email and
// phone confirmation.
func GenerateVerificationCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < verificationCodeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", verificationCodeDigits, n), nil
}

// GenerateRandomPassword produces a one-time recovery password of
// RandomPasswordLength characters from an unambiguous alphanumeric charset.
func GenerateRandomPassword() (string, error) {
	buf := make([]byte, RandomPasswordLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(randomPasswordCharset))))
		if err != nil {
			return "", fmt.Errorf("generate random password: %w", err)
		}
		buf[i] = randomPasswordCharset[n.Int64()]
	}
	return string(buf), nil
}

// secretsEqual compares two one-time secrets in constant time.
func secretsEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
