package service

import (
	"context"
	"net/mail"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/storefront/identity-service/internal/core/domain"
	"github.com/storefront/identity-service/internal/core/ports"
)

const (
	minPasswordLength = 8
	maxNameLength     = 100
	maxPhoneLength    = 32
)

// RegistrationService validates and normalizes new-account input, creates the
// identity, and issues an immediately usable customer session token.
type RegistrationService struct {
	creds  ports.CredentialStore
	tokens ports.TokenService
	logger zerolog.Logger
}

func NewRegistrationService(creds ports.CredentialStore, tokens ports.TokenService, logger zerolog.Logger) *RegistrationService {
	return &RegistrationService{creds: creds, tokens: tokens, logger: logger}
}

// Register creates a customer account and returns its first session token.
func (s *RegistrationService) Register(ctx context.Context, input ports.RegisterInput) (string, *domain.Identity, error) {
	email := NormalizeEmail(input.Email)
	firstName := sanitizeField(input.FirstName)
	lastName := sanitizeField(input.LastName)
	phone := sanitizeField(input.Phone)

	if _, err := mail.ParseAddress(email); err != nil {
		return "", nil, domain.ErrInvalidInput
	}
	if len(input.Password) < minPasswordLength {
		return "", nil, domain.ErrInvalidInput
	}
	if firstName == "" || lastName == "" {
		return "", nil, domain.ErrInvalidInput
	}
	if len(firstName) > maxNameLength || len(lastName) > maxNameLength || len(phone) > maxPhoneLength {
		return "", nil, domain.ErrInvalidInput
	}

	identity, err := s.creds.Create(ctx, ports.CreateIdentityInput{
		Email:     email,
		Secret:    input.Password,
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(identity.ID, domain.RoleCustomer)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("identity_id", identity.ID).Msg("customer registered")
	return token, identity, nil
}

// sanitizeField trims whitespace and strips control characters so that
// stored profile fields can never carry terminal escapes or header
// injection payloads.
func sanitizeField(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(cleaned)
}
