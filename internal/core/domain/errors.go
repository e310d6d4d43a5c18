package domain

import "errors"

var (
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidWeight       = errors.New("invalid weight value")
	ErrWeightNotPositive   = errors.New("weight must be greater than 0")
	ErrIdempotencyInFlight = errors.New("a request with this idempotency key is still in progress")
)
