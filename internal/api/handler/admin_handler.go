package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/identity-service/internal/core/ports"
)

// AdminHandler serves the operator's cross-customer views. Routes using it
// sit behind RequireRole(admin).
type AdminHandler struct {
	admin ports.AdminService
}

func NewAdminHandler(admin ports.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// ListIdentities returns all customer accounts.
//
// @Summary      List customer accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Identity
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/identities [get]
func (h *AdminHandler) ListIdentities(c echo.Context) error {
	identities, err := h.admin.ListCustomers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identities)
}

// ListOrders returns orders across all customers.
//
// @Summary      List all orders
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Order
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/orders [get]
func (h *AdminHandler) ListOrders(c echo.Context) error {
	orders, err := h.admin.ListOrders(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}
