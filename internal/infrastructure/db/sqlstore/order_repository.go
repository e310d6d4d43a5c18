package sqlstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/99minutos/courier-orders/internal/core/domain"
)

type OrderRepository struct {
	db *gorm.DB
}

// Create inserts the order; ID and timestamps are assigned by the store.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	status := order.Status
	if status == "" {
		status = domain.StatusPending
	}
	m := orderModel{
		CustomerID:      order.CustomerID,
		PickupAddress:   order.PickupAddress,
		DeliveryAddress: order.DeliveryAddress,
		Status:          status,
		Weight:          order.Weight,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return m.toDomain(), nil
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	var rows []orderModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := make([]*domain.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, rows[i].toDomain())
	}
	return orders, nil
}
