package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/storefront/identity-service/internal/core/domain"
	"github.com/storefront/identity-service/internal/core/ports"
)

// OrderService serves order records scoped to their owning customer.
type OrderService struct {
	repo   ports.OrderRepository
	logger zerolog.Logger
}

func NewOrderService(repo ports.OrderRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, logger: logger}
}

func (s *OrderService) ListForCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// GetForCustomer enforces ownership after the role check has already passed:
// a valid customer token for A must never read B's order.
func (s *OrderService) GetForCustomer(ctx context.Context, customerID, orderID string) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		s.logger.Warn().
			Str("customer_id", customerID).
			Str("order_id", orderID).
			Msg("cross-customer order access denied")
		return nil, domain.ErrForbidden
	}
	return order, nil
}

// AdminService exposes the operator's cross-customer views.
type AdminService struct {
	identities ports.IdentityRepository
	orders     ports.OrderRepository
}

func NewAdminService(identities ports.IdentityRepository, orders ports.OrderRepository) *AdminService {
	return &AdminService{identities: identities, orders: orders}
}

func (s *AdminService) ListCustomers(ctx context.Context) ([]domain.Identity, error) {
	return s.identities.ListCustomers(ctx)
}

func (s *AdminService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListAll(ctx)
}
