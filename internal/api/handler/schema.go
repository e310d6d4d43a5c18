package handler

import "encoding/json"

// messageResponse is the envelope for every non-list response, success or error.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,max=80"`
	Password string `json:"password" validate:"required,max=72"`
	Role     string `json:"role"     validate:"required,max=20"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// --- Orders ---

type createOrderRequest struct {
	PickupAddress   string `json:"pickup_address"   validate:"required,max=200"`
	DeliveryAddress string `json:"delivery_address" validate:"required,max=200"`
	// Weight accepts a JSON number or a string holding one.
	Weight json.RawMessage `json:"weight" swaggertype:"number"`
}

type createOrderResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type orderResponse struct {
	ID              int64   `json:"id"`
	PickupAddress   string  `json:"pickup_address"`
	DeliveryAddress string  `json:"delivery_address"`
	Status          string  `json:"status"`
	Weight          float64 `json:"weight"`
	CreatedAt       string  `json:"created_at"`
}
