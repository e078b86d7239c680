// Package metrics defines and registers the custom Prometheus metrics of the
// shipment tracking API. It is the single source of truth for metric names,
// labels and help strings.
//
// All metrics are registered with the default registry at package init via
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shipping"

// ── Shipment metrics ──────────────────────────────────────────────────────────

// ShipmentsCreatedTotal counts newly created shipments.
// Label:
//   - province: canonical destination province (e.g. "Cordoba")
var ShipmentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shipments_created_total",
		Help:      "Total number of shipments created, by province.",
	},
	[]string{"province"},
)

// TrackingCodeCollisionsTotal counts inserts rejected because another writer
// took the same counter first. Each one triggers a counter re-read.
var TrackingCodeCollisionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracking_code_collisions_total",
		Help:      "Total number of tracking-code collisions detected at insert time.",
	},
)

// IdempotentReplaysTotal counts creates answered from the idempotency store.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of create requests answered by an earlier result.",
	},
)

// ── Status metrics ────────────────────────────────────────────────────────────

// StatusChangesTotal counts state machine operations.
// Labels:
//   - action: "advance", "set" or "return"
//   - result: "ok" or the failure kind (e.g. "illegal_transition", "not_found")
var StatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_changes_total",
		Help:      "Total number of status change attempts, by action and result.",
	},
	[]string{"action", "result"},
)

// ── Dispatcher metrics ────────────────────────────────────────────────────────

// CommandsQueueDepth tracks the number of status commands waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var CommandsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "commands_queue_depth",
		Help:      "Current number of status commands pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// CommandProcessingDuration measures how long a queued status command takes
// from dequeue to persistence.
// Label:
//   - action: the command action
var CommandProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "command_processing_duration_seconds",
		Help:      "Duration of status command processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"action"},
)

// ── Store metrics ─────────────────────────────────────────────────────────────

// BreakerState exposes the repository circuit breaker state
// (0 closed, 1 half-open, 2 open).
var BreakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "repository_breaker_state",
		Help:      "Repository circuit breaker state: 0 closed, 1 half-open, 2 open.",
	},
	[]string{"name"},
)
