package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// VerifyPassword compares a submitted password against the stored value.
// Seeded accounts store plaintext, so the default is constant-time
// equality; rows that hold a bcrypt hash are compared as hashes, which
// lets an operator migrate accounts without changing the login contract.
func VerifyPassword(stored, submitted string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(submitted)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
