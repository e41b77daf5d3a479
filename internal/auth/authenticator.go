// Package auth registers users and issues the tokens that authenticate them.
package auth

import (
	"context"

	"github.com/siddhardh4356/slipwise/internal/models"
)

// Authenticator verifies user credentials. Implementations decide what a
// credential is; PasswordAuthenticator uses bcrypt-hashed passwords.
type Authenticator interface {
	// Register creates an account and returns the stored user.
	Register(ctx context.Context, email, name, credential string) (*models.User, error)

	// Authenticate returns the user whose credential matches, or ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks a credential before it is stored.
	ValidateCredential(credential string) error

	// HashCredential validates a new credential and returns the value to store
	// in models.User.PasswordHash.
	HashCredential(credential string) (string, error)
}
