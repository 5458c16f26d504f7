package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/storefront/identity-service/internal/core/domain"
)

const orderCollection = "orders"

// OrderRepository reads order records. Writes happen in the external order
// workflow; this service only serves them as the owned-resource surface.
type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(orderCollection)}
}

type mongoOrderItem struct {
	SKU       string  `bson:"sku"`
	Name      string  `bson:"name"`
	Quantity  int     `bson:"quantity"`
	UnitPrice float64 `bson:"unit_price"`
}

type mongoOrder struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Number     string             `bson:"number"`
	CustomerID string             `bson:"customer_id"`
	Status     string             `bson:"status"`
	Items      []mongoOrderItem   `bson:"items"`
	Total      float64            `bson:"total"`
	Currency   string             `bson:"currency"`
	PlacedAt   time.Time          `bson:"placed_at"`
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return r.list(ctx, bson.M{"customer_id": customerID})
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	var mo mongoOrder
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mo); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return mo.toDomain(), nil
}

func (r *OrderRepository) list(ctx context.Context, filter bson.M) ([]domain.Order, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Order
	for cur.Next(ctx) {
		var mo mongoOrder
		if err := cur.Decode(&mo); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		out = append(out, *mo.toDomain())
	}
	return out, cur.Err()
}

func (mo *mongoOrder) toDomain() *domain.Order {
	items := make([]domain.OrderItem, 0, len(mo.Items))
	for _, it := range mo.Items {
		items = append(items, domain.OrderItem{
			SKU:       it.SKU,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return &domain.Order{
		ID:         mo.ID.Hex(),
		Number:     mo.Number,
		CustomerID: mo.CustomerID,
		Status:     domain.OrderStatus(mo.Status),
		Items:      items,
		Total:      mo.Total,
		Currency:   mo.Currency,
		PlacedAt:   mo.PlacedAt,
	}
}
