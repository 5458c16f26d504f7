package ports

import (
	"context"

	"github.com/storefront/identity-service/internal/core/domain"
)

// IdentityRepository persists customer identities. Email uniqueness is the
// store's responsibility: Create must fail with domain.ErrEmailTaken when a
// concurrent insert wins the race.
type IdentityRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	UpdatePasswordHash(ctx context.Context, identityID, passwordHash string) error
	ListCustomers(ctx context.Context) ([]domain.Identity, error)
}
