package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/identity-service/internal/core/domain"
	"github.com/storefront/identity-service/internal/core/ports"
)

// AdminAccount is the single operator identity, provisioned out-of-band via
// environment configuration. It never lives in the identity store and is
// never created through registration.
type AdminAccount struct {
	Email        string
	PasswordHash string
}

// CredentialService verifies and creates password credentials on top of the
// identity repository plus the configured admin account.
type CredentialService struct {
	repo      ports.IdentityRepository
	admin     AdminAccount
	dummyHash []byte
}

// NewCredentialService precomputes a dummy bcrypt hash so that verification
// against an unknown email still pays exactly one hash comparison —
// otherwise response latency would reveal which emails are registered.
func NewCredentialService(repo ports.IdentityRepository, admin AdminAccount) (*CredentialService, error) {
	admin.Email = NormalizeEmail(admin.Email)

	filler := make([]byte, 32)
	if _, err := rand.Read(filler); err != nil {
		return nil, fmt.Errorf("credential service: seed dummy hash: %w", err)
	}
	dummy, err := bcrypt.GenerateFromPassword(filler, bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("credential service: generate dummy hash: %w", err)
	}

	return &CredentialService{repo: repo, admin: admin, dummyHash: dummy}, nil
}

// Verify checks the candidate secret against the stored hash. No lock is held
// during the bcrypt comparison; verifications for different accounts proceed
// in parallel.
func (s *CredentialService) Verify(ctx context.Context, email, secret string) (*domain.Identity, error) {
	email = NormalizeEmail(email)

	if s.admin.Email != "" && email == s.admin.Email {
		if bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(secret)) != nil {
			return nil, domain.ErrInvalidCredentials
		}
		return &domain.Identity{ID: "admin", Email: s.admin.Email, Role: domain.RoleAdmin}, nil
	}

	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Burn the same hashing work as the found path before answering.
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(secret))
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(secret)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return identity, nil
}

// Create inserts a new customer identity. Uniqueness is enforced by the
// repository's unique email index, so a racing duplicate loses cleanly with
// domain.ErrEmailTaken.
func (s *CredentialService) Create(ctx context.Context, input ports.CreateIdentityInput) (*domain.Identity, error) {
	email := NormalizeEmail(input.Email)
	if s.admin.Email != "" && email == s.admin.Email {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	identity := &domain.Identity{
		Email:        email,
		Role:         domain.RoleCustomer,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		CreatedAt:    time.Now().UTC(),
	}

	return s.repo.Create(ctx, identity)
}

// UpdatePassword re-hashes newSecret and replaces the identity's stored hash.
func (s *CredentialService) UpdatePassword(ctx context.Context, identityID, newSecret string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newSecret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePasswordHash(ctx, identityID, string(hash))
}

// NormalizeEmail lowercases and trims an address so uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
