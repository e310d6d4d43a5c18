package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/courier-orders/internal/core/domain"
)

type OrderRepository struct {
	coll *mongo.Collection
	ids  *sequence
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(collectionOrders), ids: newSequence(db, collectionOrders)}
}

type mongoOrder struct {
	ID              int64     `bson:"_id"`
	CustomerID      int64     `bson:"customer_id"`
	PickupAddress   string    `bson:"pickup_address"`
	DeliveryAddress string    `bson:"delivery_address"`
	Status          string    `bson:"status"`
	Weight          float64   `bson:"weight"`
	CreatedAt       time.Time `bson:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

// Create inserts a new order document.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return nil, err
	}

	status := order.Status
	if status == "" {
		status = domain.StatusPending
	}
	// BSON dates carry millisecond precision.
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := mongoOrder{
		ID:              id,
		CustomerID:      order.CustomerID,
		PickupAddress:   order.PickupAddress,
		DeliveryAddress: order.DeliveryAddress,
		Status:          status,
		Weight:          order.Weight,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return doc.toDomain(), nil
}

// ListByCustomer returns the customer's orders sorted by ID.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx,
		bson.M{"customer_id": customerID},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoOrder
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]*domain.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, d.toDomain())
	}
	return orders, nil
}

func (d mongoOrder) toDomain() *domain.Order {
	return &domain.Order{
		ID:              d.ID,
		CustomerID:      d.CustomerID,
		PickupAddress:   d.PickupAddress,
		DeliveryAddress: d.DeliveryAddress,
		Status:          d.Status,
		Weight:          d.Weight,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
}
