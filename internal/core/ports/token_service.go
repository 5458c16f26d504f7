package ports

import "github.com/storefront/identity-service/internal/core/domain"

// TokenService issues and verifies signed bearer tokens. Verification is a
// pure function of the token string and the signing secret — no lookup table.
type TokenService interface {
	// Issue signs a token for the subject using the TTL configured for its
	// role (admin and customer TTLs are independent).
	Issue(subjectID, role string) (string, error)

	// Verify rejects expired, malformed, and wrongly signed tokens with the
	// corresponding domain error (ErrTokenExpired, ErrTokenMalformed,
	// ErrTokenSignature).
	Verify(token string) (*domain.TokenClaims, error)
}
