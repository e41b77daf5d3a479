package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// NewResetToken returns a random password reset token and the hash to store
// for it. Only the token goes into the emailed link.
func NewResetToken() (token, hash string) {
	token = rand.Text()
	return token, HashResetToken(token)
}

// HashResetToken returns the stored form of a reset token.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
