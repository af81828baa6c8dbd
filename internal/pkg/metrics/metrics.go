// Package metrics defines and registers all custom Prometheus metrics for the
// user service. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto); HTTP request metrics come from the echoprometheus
// middleware wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "user_service"

// ── Authentication ────────────────────────────────────────────────────────────

// AuthDecisionsTotal counts gate decisions.
// Labels:
//   - result: "admitted", "rejected" or "error"
//   - reason: rejection reason (e.g. "expired", "invalid"), empty otherwise
var AuthDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_decisions_total",
		Help:      "Total number of bearer token decisions, by result and rejection reason.",
	},
	[]string{"result", "reason"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "unknown_email", "bad_password" or "inactive"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AccountsRegisteredTotal counts successful self-service registrations.
var AccountsRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_registered_total",
		Help:      "Total number of accounts created through registration.",
	},
)

// ── Wallet cascade ────────────────────────────────────────────────────────────

// CascadeCallsTotal counts propagation attempts to the wallet service.
// Labels:
//   - action: "blacklist", "unblock", "delete" or "provision"
//   - outcome: "ok" or "remote_failure"
var CascadeCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cascade_calls_total",
		Help:      "Total number of wallet cascade calls, by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// CascadeDuration measures the wallet round trip, timeouts included.
var CascadeDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cascade_duration_seconds",
		Help:      "Duration of wallet cascade calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"action"},
)

// ProvisionQueueDepth tracks pending provisioning jobs per worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ProvisionQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "provision_queue_depth",
		Help:      "Current number of wallet provisioning jobs pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// ProvisionDroppedTotal counts provisioning jobs dropped because a shard was full.
var ProvisionDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provision_dropped_total",
		Help:      "Total number of wallet provisioning jobs dropped on a full queue.",
	},
)
