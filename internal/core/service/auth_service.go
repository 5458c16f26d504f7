package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/storefront/identity-service/internal/core/domain"
	"github.com/storefront/identity-service/internal/core/ports"
)

// AuthService authenticates identities and issues session tokens.
type AuthService struct {
	creds  ports.CredentialStore
	tokens ports.TokenService
	logger zerolog.Logger
}

func NewAuthService(creds ports.CredentialStore, tokens ports.TokenService, logger zerolog.Logger) *AuthService {
	return &AuthService{creds: creds, tokens: tokens, logger: logger}
}

// Login verifies the credentials and returns a fresh bearer token. Failures
// are generic towards the caller; the reason stays in the server log.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Identity, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	identity, err := s.creds.Verify(ctx, email, password)
	if err != nil {
		s.logger.Warn().Str("email", NormalizeEmail(email)).Msg("login failed")
		return "", nil, err
	}

	token, err := s.tokens.Issue(identity.ID, identity.Role)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("identity_id", identity.ID).Str("role", identity.Role).Msg("login succeeded")
	return token, identity, nil
}
