package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/courier-orders/docs"
	"github.com/99minutos/courier-orders/internal/api/handler"
	"github.com/99minutos/courier-orders/internal/api/metrics"
	"github.com/99minutos/courier-orders/internal/api/middleware"
	"github.com/99minutos/courier-orders/internal/core/ports"
)

// Deps holds everything the HTTP layer needs. Services are built by the
// caller so the router stays independent of the storage backend.
type Deps struct {
	Logger       zerolog.Logger
	JWTSecret    string
	AuthService  ports.AuthService
	OrderService ports.OrderService
	// HealthChecks are pinged by /health/ready, keyed by dependency name.
	HealthChecks map[string]handler.Check
	// MetricsRegisterer receives the HTTP and business metrics, and
	// MetricsGatherer serves /metrics. Both default to the Prometheus
	// default registry.
	MetricsRegisterer prometheus.Registerer
	MetricsGatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	reg := deps.MetricsRegisterer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := deps.MetricsGatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if err := metrics.Register(reg); err != nil {
		deps.Logger.Error().Err(err).Msg("register business metrics")
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "courier",
		Registerer: reg,
	}))

	authHandler := handler.NewAuthHandler(deps.AuthService)
	orderHandler := handler.NewOrderHandler(deps.OrderService)
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)
	authMiddleware := middleware.Auth(deps.JWTSecret)

	// --- Auth routes ---
	e.POST("/api/register", authHandler.Register)
	e.POST("/api/login", authHandler.Login)

	// --- Order routes (bearer token required) ---
	e.POST("/api/orders", orderHandler.Create, authMiddleware)
	e.GET("/api/orders", orderHandler.List, authMiddleware)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
