package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/storefront/identity-service/internal/core/domain"
)

// TokenService issues and verifies HS256 bearer tokens carrying the subject
// and role. It holds no mutable state; all methods are safe for concurrent
// use.
type TokenService struct {
	secret      []byte
	adminTTL    time.Duration
	customerTTL time.Duration
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewTokenService fails when the signing secret is empty — a missing secret
// is a fatal configuration error, never a per-request one.
func NewTokenService(secret string, adminTTL, customerTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token service: signing secret is required")
	}
	if adminTTL <= 0 {
		adminTTL = 12 * time.Hour
	}
	if customerTTL <= 0 {
		customerTTL = 7 * 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), adminTTL: adminTTL, customerTTL: customerTTL}, nil
}

// Issue signs a token for the subject using the TTL configured for its role.
func (s *TokenService) Issue(subjectID, role string) (string, error) {
	if role != domain.RoleAdmin && role != domain.RoleCustomer {
		return "", fmt.Errorf("token service: unknown role %q", role)
	}

	ttl := s.customerTTL
	if role == domain.RoleAdmin {
		ttl = s.adminTTL
	}

	now := time.Now().UTC()
	claims := sessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates the token, mapping failures onto the three
// distinct domain errors so callers can log the specific reason.
func (s *TokenService) Verify(token string) (*domain.TokenClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrTokenSignature
		default:
			return nil, domain.ErrTokenMalformed
		}
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenSignature
	}
	if claims.Subject == "" || (claims.Role != domain.RoleAdmin && claims.Role != domain.RoleCustomer) {
		return nil, domain.ErrTokenMalformed
	}

	return &domain.TokenClaims{SubjectID: claims.Subject, Role: claims.Role}, nil
}
