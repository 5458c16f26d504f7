package ports

import "context"

// PasswordResetService runs the two-phase reset protocol.
type PasswordResetService interface {
	// Request mints and delivers a reset token when the email is registered.
	// Its observable behavior — return value, response timing, side channel —
	// is identical for registered and unregistered emails; internal failures
	// are logged, never surfaced.
	Request(ctx context.Context, email string) error

	// Complete consumes the token exactly once and replaces the account
	// password. Returns the account email for server-side logging only.
	Complete(ctx context.Context, token, newSecret string) (string, error)
}

// ResetNotifier delivers reset tokens off the request path.
type ResetNotifier interface {
	EnqueueReset(email, token string)
}

// Mailer sends outbound mail. Implementations live in infrastructure; the
// core never formats SMTP traffic itself.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, token string) error
}
