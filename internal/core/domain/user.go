package domain

import "time"

// User models an account that can authenticate and own orders.
// Role is free text; no role is privileged by the API.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
