package ports

import (
	"context"

	"github.com/99minutos/courier-orders/internal/core/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// ListByCustomer returns every order owned by customerID in ascending ID order.
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error)
}
