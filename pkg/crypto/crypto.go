package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Verification codes are four digits, 1000–9999 inclusive.
const (
	verificationCodeMin  = 1000
	verificationCodeSpan = 9000
)

// HashPassword returns a bcrypt hash of the supplied password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares the hashed password with the plaintext candidate.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// GenerateVerificationCode returns a uniformly distributed four digit code
// drawn from a cryptographically secure source.
func GenerateVerificationCode() (int, error) {
	// Rejection sampling keeps the distribution uniform over the span.
	max := uint64(verificationCodeSpan)
	limit := (^uint64(0) / max) * max

	var buf [8]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, fmt.Errorf("crypto: read random bytes: %w", err)
		}
		n := binary.BigEndian.Uint64(buf[:])
		if n < limit {
			return verificationCodeMin + int(n%max), nil
		}
	}
}
