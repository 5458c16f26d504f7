package ports

import (
	"context"

	"github.com/storefront/identity-service/internal/core/domain"
)

// OrderRepository reads order records written by the external order workflow.
type OrderRepository interface {
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	FindByID(ctx context.Context, orderID string) (*domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
}
