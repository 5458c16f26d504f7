package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/storefront/identity-service/internal/api/middleware"
	"github.com/storefront/identity-service/internal/core/domain"
)

type stubOrderService struct {
	orders []domain.Order
	err    error
}

func (s *stubOrderService) ListForCustomer(context.Context, string) ([]domain.Order, error) {
	return s.orders, s.err
}

func (s *stubOrderService) GetForCustomer(_ context.Context, customerID, orderID string) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, o := range s.orders {
		if o.ID == orderID && o.CustomerID == customerID {
			clone := o
			return &clone, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func getWithClaims(t *testing.T, path, subjectID, role string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if subjectID != "" {
		c.Set(middleware.CtxSubjectID, subjectID)
	}
	if role != "" {
		c.Set(middleware.CtxRole, role)
	}
	return c, rec
}

func TestOrderHandler_List(t *testing.T) {
	h := NewOrderHandler(&stubOrderService{orders: []domain.Order{
		{ID: "ord_1", CustomerID: "cust_a"},
		{ID: "ord_2", CustomerID: "cust_a"},
	}})

	c, rec := getWithClaims(t, "/orders", "cust_a", domain.RoleCustomer)
	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var orders []domain.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &orders); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
}

func TestOrderHandler_Get(t *testing.T) {
	h := NewOrderHandler(&stubOrderService{orders: []domain.Order{
		{ID: "ord_1", CustomerID: "cust_a"},
	}})

	c, rec := getWithClaims(t, "/orders/ord_1", "cust_a", domain.RoleCustomer)
	c.SetParamNames("id")
	c.SetParamValues("ord_1")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestOrderHandler_Get_ForbiddenPropagates(t *testing.T) {
	h := NewOrderHandler(&stubOrderService{err: domain.ErrForbidden})

	c, _ := getWithClaims(t, "/orders/ord_3", "cust_a", domain.RoleCustomer)
	c.SetParamNames("id")
	c.SetParamValues("ord_3")
	if err := h.Get(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestOrderHandler_MissingClaims(t *testing.T) {
	h := NewOrderHandler(&stubOrderService{})

	c, _ := getWithClaims(t, "/orders", "", "")
	err := h.List(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
