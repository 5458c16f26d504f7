package ports

import (
	"context"

	"github.com/storefront/identity-service/internal/core/domain"
)

// OrderService serves order records scoped to their owner. The ownership
// check is part of the contract, not the handler's courtesy.
type OrderService interface {
	ListForCustomer(ctx context.Context, customerID string) ([]domain.Order, error)

	// GetForCustomer fails with domain.ErrForbidden when the order exists
	// but belongs to a different customer.
	GetForCustomer(ctx context.Context, customerID, orderID string) (*domain.Order, error)
}

// AdminService exposes the operator's cross-customer views.
type AdminService interface {
	ListCustomers(ctx context.Context) ([]domain.Identity, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
}
