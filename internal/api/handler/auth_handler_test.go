package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/storefront/identity-service/internal/core/domain"
	"github.com/storefront/identity-service/internal/core/ports"
)

type stubAuthService struct {
	token    string
	identity *domain.Identity
	err      error
}

func (s *stubAuthService) Login(context.Context, string, string) (string, *domain.Identity, error) {
	return s.token, s.identity, s.err
}

type stubRegistrationService struct {
	token    string
	identity *domain.Identity
	err      error
	lastIn   ports.RegisterInput
}

func (s *stubRegistrationService) Register(_ context.Context, in ports.RegisterInput) (string, *domain.Identity, error) {
	s.lastIn = in
	return s.token, s.identity, s.err
}

type stubResetService struct {
	requested   []string
	completeErr error
}

func (s *stubResetService) Request(_ context.Context, email string) error {
	s.requested = append(s.requested, email)
	return nil
}

func (s *stubResetService) Complete(context.Context, string, string) (string, error) {
	if s.completeErr != nil {
		return "", s.completeErr
	}
	return "alice@example.com", nil
}

func postJSON(t *testing.T, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	registration := &stubRegistrationService{
		token:    "tok_abc",
		identity: &domain.Identity{ID: "id_1", Email: "alice@example.com", Role: domain.RoleCustomer},
	}
	h := NewAuthHandler(&stubAuthService{}, registration, &stubResetService{})

	c, rec := postJSON(t, "/auth/register", `{
		"email": "alice@example.com",
		"password": "password123",
		"first_name": "Alice",
		"last_name": "Smith",
		"phone": "+1 555 0100"
	}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var resp struct {
		Token    string           `json:"token"`
		Customer *domain.Identity `json:"customer"`
	}
	decodeBody(t, rec, &resp)
	if resp.Token != "tok_abc" {
		t.Fatalf("token = %q", resp.Token)
	}
	if resp.Customer == nil || resp.Customer.ID != "id_1" {
		t.Fatalf("customer = %+v", resp.Customer)
	}
	if registration.lastIn.Email != "alice@example.com" {
		t.Fatalf("input not passed through: %+v", registration.lastIn)
	}
}

func TestAuthHandler_Register_ValidationRejects(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubRegistrationService{}, &stubResetService{})

	cases := []struct {
		name string
		body string
	}{
		{"bad email", `{"email":"nope","password":"password123","first_name":"A","last_name":"B"}`},
		{"short password", `{"email":"a@b.com","password":"short","first_name":"A","last_name":"B"}`},
		{"missing names", `{"email":"a@b.com","password":"password123"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := postJSON(t, "/auth/register", tc.body)
			if err := h.Register(c); err != nil {
				t.Fatalf("Register: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestAuthHandler_Register_DuplicatePropagates(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubRegistrationService{err: domain.ErrEmailTaken}, &stubResetService{})

	c, _ := postJSON(t, "/auth/register", `{
		"email": "alice@example.com",
		"password": "password123",
		"first_name": "Alice",
		"last_name": "Smith"
	}`)
	// Domain errors are mapped centrally; the handler returns them as-is.
	if err := h.Register(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	auth := &stubAuthService{
		token:    "tok_login",
		identity: &domain.Identity{ID: "id_1", Email: "alice@example.com", Role: domain.RoleCustomer},
	}
	h := NewAuthHandler(auth, &stubRegistrationService{}, &stubResetService{})

	c, rec := postJSON(t, "/auth/login", `{"email":"alice@example.com","password":"password123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &resp)
	if resp.Token != "tok_login" {
		t.Fatalf("token = %q", resp.Token)
	}
}

func TestAuthHandler_Login_BadCredentialsPropagate(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: domain.ErrInvalidCredentials}, &stubRegistrationService{}, &stubResetService{})

	c, _ := postJSON(t, "/auth/login", `{"email":"alice@example.com","password":"wrongpass"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_ForgotPassword_AlwaysSucceeds(t *testing.T) {
	resets := &stubResetService{}
	h := NewAuthHandler(&stubAuthService{}, &stubRegistrationService{}, resets)

	c, rec := postJSON(t, "/auth/forgot-password", `{"email":"whoever@example.com"}`)
	if err := h.ForgotPassword(c); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp successResponse
	decodeBody(t, rec, &resp)
	if !resp.Success {
		t.Fatalf("success = false")
	}
	if len(resets.requested) != 1 || resets.requested[0] != "whoever@example.com" {
		t.Fatalf("request not forwarded: %v", resets.requested)
	}
}

func TestAuthHandler_ForgotPassword_BadEmail(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubRegistrationService{}, &stubResetService{})

	c, rec := postJSON(t, "/auth/forgot-password", `{"email":"not-an-email"}`)
	if err := h.ForgotPassword(c); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubRegistrationService{}, &stubResetService{})

	c, rec := postJSON(t, "/auth/reset-password", `{"token":"tok","new_password":"newpassword1"}`)
	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAuthHandler_ResetPassword_InvalidTokenPropagates(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubRegistrationService{}, &stubResetService{completeErr: domain.ErrResetTokenInvalid})

	c, _ := postJSON(t, "/auth/reset-password", `{"token":"bad","new_password":"newpassword1"}`)
	if err := h.ResetPassword(c); !errors.Is(err, domain.ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid, got %v", err)
	}
}

func TestAuthHandler_ResetPassword_ShortPasswordRejected(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubRegistrationService{}, &stubResetService{})

	c, rec := postJSON(t, "/auth/reset-password", `{"token":"tok","new_password":"short"}`)
	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
