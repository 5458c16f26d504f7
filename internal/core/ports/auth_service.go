package ports

import (
	"context"

	"github.com/storefront/identity-service/internal/core/domain"
)

// AuthService authenticates existing identities and hands out session tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.Identity, error)
}

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// RegistrationService creates customer accounts. Registration and first login
// are one user-facing step: a successful Register returns a usable token.
type RegistrationService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.Identity, error)
}
