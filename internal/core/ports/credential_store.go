package ports

import (
	"context"

	"github.com/storefront/identity-service/internal/core/domain"
)

// CreateIdentityInput carries the already-validated fields for a new
// customer identity. The secret arrives in plaintext and is hashed before
// it touches any store or log.
type CreateIdentityInput struct {
	Email     string
	Secret    string
	FirstName string
	LastName  string
	Phone     string
}

// CredentialStore verifies and creates password credentials. Verification
// takes the same amount of hashing work whether or not the email exists.
type CredentialStore interface {
	// Verify returns the identity on a match and domain.ErrInvalidCredentials
	// otherwise — unknown email and wrong password are indistinguishable.
	Verify(ctx context.Context, email, secret string) (*domain.Identity, error)

	// Create normalizes the email, hashes the secret, and inserts a customer
	// identity. Duplicate emails (including the admin's) fail with
	// domain.ErrEmailTaken.
	Create(ctx context.Context, input CreateIdentityInput) (*domain.Identity, error)

	// UpdatePassword re-hashes newSecret and replaces the identity's stored
	// hash. Used by the password reset flow.
	UpdatePassword(ctx context.Context, identityID, newSecret string) error
}
