package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/identity-service/internal/core/domain"
	"github.com/storefront/identity-service/internal/core/ports"
)

type stubResetRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.PasswordResetToken
}

func newStubResetRepo() *stubResetRepo {
	return &stubResetRepo{tokens: make(map[string]*domain.PasswordResetToken)}
}

func (r *stubResetRepo) Save(_ context.Context, token *domain.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *token
	r.tokens[token.Token] = &clone
	return nil
}

func (r *stubResetRepo) Consume(_ context.Context, token string, now time.Time) (*domain.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.tokens[token]
	if !ok || record.Consumed || !now.Before(record.ExpiresAt) {
		return nil, domain.ErrResetTokenInvalid
	}
	record.Consumed = true
	clone := *record
	return &clone, nil
}

type stubNotifier struct {
	mu     sync.Mutex
	sent   []string
	tokens []string
}

func (n *stubNotifier) EnqueueReset(email, token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, email)
	n.tokens = append(n.tokens, token)
}

func (n *stubNotifier) lastToken(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.tokens) == 0 {
		t.Fatalf("no reset mail enqueued")
	}
	return n.tokens[len(n.tokens)-1]
}

func newTestResetSetup(t *testing.T, ttl time.Duration) (*PasswordResetService, *CredentialService, *stubResetRepo, *stubNotifier) {
	t.Helper()
	repo := newStubIdentityRepo()
	creds := newTestCredentialService(t, repo, AdminAccount{})
	resetRepo := newStubResetRepo()
	notifier := &stubNotifier{}
	svc := NewPasswordResetService(repo, resetRepo, creds, notifier, ttl, zerolog.Nop())
	return svc, creds, resetRepo, notifier
}

func registerTestAccount(t *testing.T, creds *CredentialService) *domain.Identity {
	t.Helper()
	identity, err := creds.Create(context.Background(), ports.CreateIdentityInput{
		Email:     "alice@example.com",
		Secret:    "password123",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return identity
}

func TestPasswordResetService_RequestAndComplete(t *testing.T) {
	svc, creds, _, notifier := newTestResetSetup(t, time.Hour)
	identity := registerTestAccount(t, creds)

	if err := svc.Request(context.Background(), "Alice@Example.com"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	token := notifier.lastToken(t)
	if len(token) < 32 {
		t.Fatalf("reset token too short: %d chars", len(token))
	}

	email, err := svc.Complete(context.Background(), token, "newpassword1")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if email != identity.Email {
		t.Fatalf("unexpected email: %s", email)
	}

	if _, err := creds.Verify(context.Background(), identity.Email, "newpassword1"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
	if _, err := creds.Verify(context.Background(), identity.Email, "password123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted")
	}
}

func TestPasswordResetService_TokenIsSingleUse(t *testing.T) {
	svc, creds, _, notifier := newTestResetSetup(t, time.Hour)
	registerTestAccount(t, creds)

	if err := svc.Request(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	token := notifier.lastToken(t)

	if _, err := svc.Complete(context.Background(), token, "newpassword1"); err != nil {
		t.Fatalf("first Complete: %v", err)
	}
	if _, err := svc.Complete(context.Background(), token, "newpassword2"); !errors.Is(err, domain.ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid on replay, got %v", err)
	}
}

func TestPasswordResetService_ExpiredToken(t *testing.T) {
	svc, creds, resetRepo, _ := newTestResetSetup(t, time.Hour)
	identity := registerTestAccount(t, creds)

	expired := &domain.PasswordResetToken{
		Token:      "expiredtoken",
		IdentityID: identity.ID,
		Email:      identity.Email,
		ExpiresAt:  time.Now().UTC().Add(-time.Minute),
		CreatedAt:  time.Now().UTC().Add(-2 * time.Hour),
	}
	if err := resetRepo.Save(context.Background(), expired); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := svc.Complete(context.Background(), "expiredtoken", "newpassword1"); !errors.Is(err, domain.ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid for expired token, got %v", err)
	}
}

func TestPasswordResetService_UnknownEmail_Indistinguishable(t *testing.T) {
	svc, creds, resetRepo, notifier := newTestResetSetup(t, time.Hour)
	registerTestAccount(t, creds)

	// Same nil return for registered and unregistered addresses; the only
	// observable difference is internal (no record, no mail).
	if err := svc.Request(context.Background(), "nobody@doesnotexist.example"); err != nil {
		t.Fatalf("Request for unknown email returned %v, must be nil", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("mail enqueued for unknown email")
	}
	resetRepo.mu.Lock()
	stored := len(resetRepo.tokens)
	resetRepo.mu.Unlock()
	if stored != 0 {
		t.Fatalf("token stored for unknown email")
	}

	if err := svc.Request(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("Request for known email returned %v, must be nil", err)
	}
}

func TestPasswordResetService_Complete_ShortPassword(t *testing.T) {
	svc, _, _, _ := newTestResetSetup(t, time.Hour)

	if _, err := svc.Complete(context.Background(), "whatever", "short"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPasswordResetService_Complete_UnknownToken(t *testing.T) {
	svc, _, _, _ := newTestResetSetup(t, time.Hour)

	if _, err := svc.Complete(context.Background(), "deadbeef", "newpassword1"); !errors.Is(err, domain.ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid, got %v", err)
	}
}
