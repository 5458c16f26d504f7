package ports

import (
	"context"
	"time"

	"github.com/storefront/identity-service/internal/core/domain"
)

// ResetTokenRepository persists password reset tokens.
type ResetTokenRepository interface {
	Save(ctx context.Context, token *domain.PasswordResetToken) error

	// Consume atomically marks the token consumed and returns its record.
	// It fails with domain.ErrResetTokenInvalid when the token is absent,
	// already consumed, or expired as of now — a consumed token can never
	// be consumed again, even under concurrent calls.
	Consume(ctx context.Context, token string, now time.Time) (*domain.PasswordResetToken, error)
}
