package domain

import "errors"

var (
	// ErrInvalidInput covers user-correctable validation failures.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is deliberately generic: it never distinguishes
	// a wrong password from an unknown email.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEmailTaken       = errors.New("email already registered")
	ErrIdentityNotFound = errors.New("identity not found")
	ErrForbidden        = errors.New("access forbidden")
	ErrOrderNotFound    = errors.New("order not found")

	// ErrResetTokenInvalid covers absent, consumed, and expired reset tokens
	// alike; the caller never learns which.
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")

	// Token verification failures are distinct error kinds so the gate can
	// log the specific reason, even though all three surface as 401.
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
)
