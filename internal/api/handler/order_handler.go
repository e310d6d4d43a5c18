package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/courier-orders/internal/api/metrics"
	"github.com/99minutos/courier-orders/internal/core/ports"
)

const (
	headerIdempotencyKey     = "Idempotency-Key"
	headerIdempotentReplayed = "Idempotent-Replayed"
)

// OrderHandler handles HTTP requests for courier orders.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /api/orders.
//
// @Summary      Create an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string              false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createOrderRequest  true   "Order details"
// @Success      201              {object}  createOrderResponse
// @Failure      400              {object}  messageResponse
// @Failure      401              {object}  messageResponse
// @Failure      409              {object}  messageResponse
// @Failure      500              {object}  messageResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	customerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	weight, err := parseWeight(req.Weight)
	if err != nil {
		return err
	}

	result, err := h.service.CreateOrder(c.Request().Context(), ports.CreateOrderInput{
		CustomerID:      customerID,
		PickupAddress:   req.PickupAddress,
		DeliveryAddress: req.DeliveryAddress,
		Weight:          weight,
		IdempotencyKey:  c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return err
	}

	if result.AlreadyExisted {
		metrics.IdempotentReplaysTotal.Inc()
		c.Response().Header().Set(headerIdempotentReplayed, "true")
	} else {
		metrics.OrdersCreatedTotal.Inc()
	}

	return c.JSON(http.StatusCreated, createOrderResponse{
		Message: "Order created successfully",
		ID:      result.ID,
	})
}

// List handles GET /api/orders.
//
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   orderResponse
// @Failure      401  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	customerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListOrders(c.Request().Context(), customerID)
	if err != nil {
		return err
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, orderResponse{
			ID:              o.ID,
			PickupAddress:   o.PickupAddress,
			DeliveryAddress: o.DeliveryAddress,
			Status:          o.Status,
			Weight:          o.Weight,
			CreatedAt:       o.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return c.JSON(http.StatusOK, resp)
}
