package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/identity-service/internal/core/domain"
	"github.com/storefront/identity-service/internal/core/ports"
)

// resetTokenBytes gives 256 bits of entropy per token.
const resetTokenBytes = 32

// PasswordResetService runs the two-phase reset protocol: Request mints and
// delivers a single-use token, Complete consumes it and replaces the account
// password.
type PasswordResetService struct {
	identities ports.IdentityRepository
	tokens     ports.ResetTokenRepository
	creds      ports.CredentialStore
	notifier   ports.ResetNotifier
	ttl        time.Duration
	logger     zerolog.Logger
}

func NewPasswordResetService(
	identities ports.IdentityRepository,
	tokens ports.ResetTokenRepository,
	creds ports.CredentialStore,
	notifier ports.ResetNotifier,
	ttl time.Duration,
	logger zerolog.Logger,
) *PasswordResetService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PasswordResetService{
		identities: identities,
		tokens:     tokens,
		creds:      creds,
		notifier:   notifier,
		ttl:        ttl,
		logger:     logger,
	}
}

// Request never reveals whether the email is registered: both paths mint a
// token, both return nil, and delivery happens off the request path through
// the notifier queue. Internal failures are logged and swallowed — the
// response to the caller is the same success either way.
func (s *PasswordResetService) Request(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	token, err := newResetToken()
	if err != nil {
		s.logger.Error().Err(err).Msg("reset token generation failed")
		return nil
	}

	identity, err := s.identities.FindByEmail(ctx, email)
	if err != nil {
		// Unregistered address: the token is discarded, nothing is stored,
		// nothing is sent.
		s.logger.Debug().Msg("password reset requested for unknown email")
		return nil
	}

	record := &domain.PasswordResetToken{
		Token:      token,
		IdentityID: identity.ID,
		Email:      identity.Email,
		ExpiresAt:  time.Now().UTC().Add(s.ttl),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.tokens.Save(ctx, record); err != nil {
		s.logger.Error().Err(err).Str("identity_id", identity.ID).Msg("reset token save failed")
		return nil
	}

	s.notifier.EnqueueReset(identity.Email, token)
	s.logger.Info().Str("identity_id", identity.ID).Msg("password reset requested")
	return nil
}

// Complete consumes the token and updates the password. The consume happens
// first and is atomic in the store; if the subsequent password update fails
// the token is already burned and the user must request a fresh one — a
// stale-but-usable token can never survive a partial failure.
func (s *PasswordResetService) Complete(ctx context.Context, token, newSecret string) (string, error) {
	if len(newSecret) < minPasswordLength {
		return "", domain.ErrInvalidInput
	}

	record, err := s.tokens.Consume(ctx, token, time.Now().UTC())
	if err != nil {
		return "", err
	}

	if err := s.creds.UpdatePassword(ctx, record.IdentityID, newSecret); err != nil {
		s.logger.Error().Err(err).
			Str("identity_id", record.IdentityID).
			Msg("password update failed after token consumption, account needs a fresh reset")
		return "", err
	}

	s.logger.Info().Str("identity_id", record.IdentityID).Msg("password reset completed")
	return record.Email, nil
}

func newResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
