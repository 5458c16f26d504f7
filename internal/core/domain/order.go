package domain

import "time"

// OrderStatus is the lifecycle state of an order. The order workflow itself
// is owned by an external system; this service only serves order records as
// the owned-resource surface.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderItem is a single line on an order.
type OrderItem struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Order belongs to exactly one customer. Access is scoped to that customer;
// only the admin may read across owners.
type Order struct {
	ID         string      `json:"id"`
	Number     string      `json:"number"`
	CustomerID string      `json:"customer_id"`
	Status     OrderStatus `json:"status"`
	Items      []OrderItem `json:"items"`
	Total      float64     `json:"total"`
	Currency   string      `json:"currency"`
	PlacedAt   time.Time   `json:"placed_at"`
}
