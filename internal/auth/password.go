package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash stored in AUTH_ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is empty")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// BasicVerifier checks Basic credentials against the configured admin user
// and bcrypt hash.
type BasicVerifier struct {
	user string
	hash []byte
}

// NewBasicVerifier returns nil when either value is empty, which disables
// Basic authentication.
func NewBasicVerifier(user, passwordHash string) *BasicVerifier {
	if user == "" || passwordHash == "" {
		return nil
	}
	return &BasicVerifier{user: user, hash: []byte(passwordHash)}
}

// Verify reports whether user and password match.
func (v *BasicVerifier) Verify(user, password string) bool {
	if v == nil {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(v.user)) == 1
	// Always run bcrypt so a wrong user costs the same as a wrong password.
	passOK := bcrypt.CompareHashAndPassword(v.hash, []byte(password)) == nil
	return userOK && passOK
}
