package domain

import (
	"math"
	"time"
)

// StatusPending is assigned to every new order. Status is otherwise free text
// and no transitions are enforced.
const StatusPending = "pending"

// Order is a delivery request owned by the customer who created it.
type Order struct {
	ID              int64     `json:"id"`
	CustomerID      int64     `json:"customer_id"`
	PickupAddress   string    `json:"pickup_address"`
	DeliveryAddress string    `json:"delivery_address"`
	Status          string    `json:"status"`
	Weight          float64   `json:"weight"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ValidateWeight reports whether w is usable as a package weight.
func ValidateWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return ErrInvalidWeight
	}
	if w <= 0 {
		return ErrWeightNotPositive
	}
	return nil
}
