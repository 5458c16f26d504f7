package domain

import "time"

// PasswordResetToken is a single-use credential for the two-phase password
// reset flow. A token that is expired or consumed is permanently invalid.
type PasswordResetToken struct {
	Token      string    `json:"-"`
	IdentityID string    `json:"identity_id"`
	Email      string    `json:"email"`
	ExpiresAt  time.Time `json:"expires_at"`
	Consumed   bool      `json:"consumed"`
	CreatedAt  time.Time `json:"created_at"`
}

// Usable reports whether the token can still authorize a password change.
func (t *PasswordResetToken) Usable(now time.Time) bool {
	return !t.Consumed && now.Before(t.ExpiresAt)
}
