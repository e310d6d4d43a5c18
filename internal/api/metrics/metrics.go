// Package metrics defines the custom Prometheus metrics of the courier API.
// HTTP request metrics come from the echoprometheus middleware; the ones here
// cover business outcomes and the event pipeline. They are exported on
// whichever registry Register is given.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "courier"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// UsersRegisteredTotal counts successful registrations.
var UsersRegisteredTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of users registered.",
	},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

var OrdersCreatedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created.",
	},
)

// IdempotentReplaysTotal counts order requests answered from a previous
// Idempotency-Key instead of creating a new order.
var IdempotentReplaysTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_idempotent_replays_total",
		Help:      "Total number of order creations replayed from an idempotency key.",
	},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsPublishedTotal counts publish attempts.
// Labels:
//   - type: event type (e.g. "order.created")
//   - result: "ok" or "error"
var EventsPublishedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of domain events handed to the publisher, by type and result.",
	},
	[]string{"type", "result"},
)

// EventsDroppedTotal counts events discarded because a worker queue was full
// or the dispatcher was already closed.
var EventsDroppedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dropped_total",
		Help:      "Total number of domain events dropped before publishing.",
	},
	[]string{"type"},
)

// EventsQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventPublishDuration measures a single publish call.
var EventPublishDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_publish_duration_seconds",
		Help:      "Duration of publishing one domain event.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"type"},
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		UsersRegisteredTotal,
		LoginAttemptsTotal,
		OrdersCreatedTotal,
		IdempotentReplaysTotal,
		EventsPublishedTotal,
		EventsDroppedTotal,
		EventsQueueDepth,
		EventPublishDuration,
	}
}

// Register adds every metric of this package to reg. Metrics already on reg
// are skipped, so building several routers on one registry is safe.
func Register(reg prometheus.Registerer) error {
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}
