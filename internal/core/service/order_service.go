package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/99minutos/courier-orders/internal/core/domain"
	"github.com/99minutos/courier-orders/internal/core/ports"
)

// IdempotencyStore abstracts the replay-protection store (Redis).
//
// Claim reserves key within scope. When the key was already reserved it
// returns claimed=false together with the order ID recorded by Complete, or 0
// if the first request has not finished yet.
type IdempotencyStore interface {
	Claim(ctx context.Context, scope, key string) (orderID int64, claimed bool, err error)
	Complete(ctx context.Context, scope, key string, orderID int64) error
	Release(ctx context.Context, scope, key string) error
}

type OrderService struct {
	repo   ports.OrderRepository
	idem   IdempotencyStore
	events ports.EventSink
	logger zerolog.Logger
}

// NewOrderService wires the order use cases. idem and events may be nil.
func NewOrderService(repo ports.OrderRepository, idem IdempotencyStore, events ports.EventSink, logger zerolog.Logger) *OrderService {
	if events == nil {
		events = discardSink{}
	}
	return &OrderService{repo: repo, idem: idem, events: events, logger: logger}
}

// CreateOrder validates and stores a new pending order for the customer.
func (s *OrderService) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*ports.OrderResult, error) {
	if strings.TrimSpace(input.PickupAddress) == "" || strings.TrimSpace(input.DeliveryAddress) == "" {
		return nil, fmt.Errorf("%w: pickup_address and delivery_address are required", domain.ErrInvalidInput)
	}
	if err := domain.ValidateWeight(input.Weight); err != nil {
		return nil, err
	}

	scope := strconv.FormatInt(input.CustomerID, 10)
	claimed := false
	if input.IdempotencyKey != "" && s.idem != nil {
		existingID, ok, err := s.idem.Claim(ctx, scope, input.IdempotencyKey)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("idempotency claim failed, creating anyway")
		case !ok && existingID == 0:
			return nil, domain.ErrIdempotencyInFlight
		case !ok:
			s.logger.Info().Str("idempotency_key", input.IdempotencyKey).Int64("order_id", existingID).Msg("idempotent replay")
			return &ports.OrderResult{ID: existingID, Status: domain.StatusPending, AlreadyExisted: true}, nil
		default:
			claimed = true
		}
	}

	created, err := s.repo.Create(ctx, &domain.Order{
		CustomerID:      input.CustomerID,
		PickupAddress:   input.PickupAddress,
		DeliveryAddress: input.DeliveryAddress,
		Status:          domain.StatusPending,
		Weight:          input.Weight,
	})
	if err != nil {
		if claimed {
			if relErr := s.idem.Release(ctx, scope, input.IdempotencyKey); relErr != nil {
				s.logger.Warn().Err(relErr).Str("idempotency_key", input.IdempotencyKey).Msg("failed to release idempotency key")
			}
		}
		s.logger.Error().Err(err).Int64("customer_id", input.CustomerID).Msg("failed to create order")
		return nil, fmt.Errorf("create order: %w", err)
	}

	if claimed {
		if err := s.idem.Complete(ctx, scope, input.IdempotencyKey, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("failed to record idempotency key")
		}
	}

	s.events.Enqueue(domain.Event{
		Type:       domain.EventOrderCreated,
		Key:        strconv.FormatInt(created.ID, 10),
		OccurredAt: created.CreatedAt,
		Payload:    created,
	})
	s.logger.Info().Int64("order_id", created.ID).Int64("customer_id", created.CustomerID).Msg("order created")

	return &ports.OrderResult{
		ID:        created.ID,
		Status:    created.Status,
		CreatedAt: created.CreatedAt,
	}, nil
}

// ListOrders returns all orders owned by customerID.
func (s *OrderService) ListOrders(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	orders, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
