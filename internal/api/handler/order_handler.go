package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/identity-service/internal/core/ports"
)

// OrderHandler serves the owned-resource surface: a customer token only ever
// sees its own orders.
type OrderHandler struct {
	orders ports.OrderService
}

func NewOrderHandler(orders ports.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List returns the authenticated customer's orders.
//
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Order
// @Failure      401  {object}  errorResponse
// @Router       /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	subjectID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	orders, err := h.orders.ListForCustomer(c.Request().Context(), subjectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// Get returns one order, only when the authenticated customer owns it.
//
// @Summary      Fetch one own order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  domain.Order
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	subjectID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	order, err := h.orders.GetForCustomer(c.Request().Context(), subjectID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}
