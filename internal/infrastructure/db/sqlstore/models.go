package sqlstore

import (
	"time"

	"github.com/99minutos/courier-orders/internal/core/domain"
)

type userModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"size:80;not null;uniqueIndex"`
	PasswordHash string    `gorm:"size:120;not null"`
	Role         string    `gorm:"size:20;not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (userModel) TableName() string { return "users" }

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

type orderModel struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	CustomerID      int64     `gorm:"not null;index"`
	PickupAddress   string    `gorm:"size:200;not null"`
	DeliveryAddress string    `gorm:"size:200;not null"`
	Status          string    `gorm:"size:20;not null;default:pending"`
	Weight          float64   `gorm:"not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (orderModel) TableName() string { return "orders" }

func (m *orderModel) toDomain() *domain.Order {
	return &domain.Order{
		ID:              m.ID,
		CustomerID:      m.CustomerID,
		PickupAddress:   m.PickupAddress,
		DeliveryAddress: m.DeliveryAddress,
		Status:          m.Status,
		Weight:          m.Weight,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}
