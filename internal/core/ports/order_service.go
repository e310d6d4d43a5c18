package ports

import (
	"context"
	"time"

	"github.com/99minutos/courier-orders/internal/core/domain"
)

// CreateOrderInput carries all data needed to create a new order.
type CreateOrderInput struct {
	CustomerID      int64
	PickupAddress   string
	DeliveryAddress string
	Weight          float64
	// IdempotencyKey is optional; an empty key disables replay detection.
	IdempotencyKey string
}

// OrderResult is returned by the service after creating an order.
type OrderResult struct {
	ID        int64
	Status    string
	CreatedAt time.Time
	// AlreadyExisted is true when the Idempotency-Key matched an earlier order.
	AlreadyExisted bool
}

// OrderService defines use-case operations for orders.
type OrderService interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderResult, error)
	ListOrders(ctx context.Context, customerID int64) ([]*domain.Order, error)
}
