package domain

import "time"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Identity models an authenticated actor: either the single operator account
// (provisioned from environment configuration, never persisted) or a
// registered customer.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TokenClaims is the verified content of a bearer token.
type TokenClaims struct {
	SubjectID string
	Role      string
}
