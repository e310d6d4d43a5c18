package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/courier-orders/internal/api/handler"
	"github.com/99minutos/courier-orders/internal/core/ports"
	"github.com/99minutos/courier-orders/internal/core/service"
	"github.com/99minutos/courier-orders/internal/infrastructure/config"
	mongostore "github.com/99minutos/courier-orders/internal/infrastructure/db/mongo"
	redisstore "github.com/99minutos/courier-orders/internal/infrastructure/db/redis"
	"github.com/99minutos/courier-orders/internal/infrastructure/db/sqlstore"
	"github.com/99minutos/courier-orders/internal/infrastructure/events"
	"github.com/99minutos/courier-orders/internal/infrastructure/queue"
	"github.com/99minutos/courier-orders/pkg/logger"
)

const (
	serviceName  = "courier-orders"
	closeTimeout = 5 * time.Second
)

func initLogger(cfg *config.Config) {
	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.PrettyLogs(), Service: serviceName})
}

// store is the opened persistence backend with its schema in place.
type store struct {
	users  ports.UserRepository
	orders ports.OrderRepository
	ping   handler.Check
	closer func(ctx context.Context) error
}

func (s *store) close(log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := s.closer(ctx); err != nil {
		log.Warn().Err(err).Msg("database close")
	}
}

// openStore connects to the configured backend and creates the schema
// (tables for SQL drivers, indexes for MongoDB).
func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	if cfg.DB.Driver == config.DriverMongo {
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &store{
			users:  mongostore.NewUserRepository(db),
			orders: mongostore.NewOrderRepository(db),
			ping:   func(ctx context.Context) error { return client.Ping(ctx, nil) },
			closer: client.Disconnect,
		}, nil
	}

	sqlStore, err := sqlstore.Open(ctx, sqlstore.Config{Driver: cfg.DB.Driver, DSN: cfg.DB.DSN})
	if err != nil {
		return nil, err
	}
	if err := sqlStore.Migrate(ctx); err != nil {
		_ = sqlStore.Close()
		return nil, err
	}
	return &store{
		users:  sqlStore.Users(),
		orders: sqlStore.Orders(),
		ping:   sqlStore.Ping,
		closer: func(context.Context) error { return sqlStore.Close() },
	}, nil
}

// app holds everything runServe wires into the router.
type app struct {
	cfg         *config.Config
	log         zerolog.Logger
	users       ports.UserRepository
	orders      ports.OrderRepository
	idempotency service.IdempotencyStore
	events      ports.EventSink
	checks      map[string]handler.Check

	cleanup []func()
}

// bootstrap loads configuration and opens every configured dependency.
// Redis and Kafka are optional.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	initLogger(cfg)
	log := logger.Get()

	a := &app{cfg: cfg, log: log, checks: map[string]handler.Check{}}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DB.Driver, err)
	}
	a.users, a.orders = st.users, st.orders
	a.checks["database"] = st.ping
	a.onClose(func() { st.close(log) })

	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			a.close()
			return nil, err
		}
		a.idempotency = redisstore.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		a.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		a.onClose(func() { _ = rdb.Close() })
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency store enabled")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			a.close()
			return nil, err
		}
		dispatcher := queue.NewDispatcher(cfg.Kafka.Workers, publisher, log)
		dispatcher.Start(ctx)
		a.events = dispatcher
		a.onClose(func() {
			if err := publisher.Close(); err != nil {
				log.Warn().Err(err).Msg("kafka writer close")
			}
		})
		// Registered after the publisher so it runs first: drain, then close.
		a.onClose(dispatcher.Close)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("event publishing enabled")
	}

	return a, nil
}

func (a *app) onClose(fn func()) {
	a.cleanup = append(a.cleanup, fn)
}

// close runs the cleanup functions in reverse registration order.
func (a *app) close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	a.cleanup = nil
}
