// Package metrics defines and registers all custom Prometheus metrics for
// the user-management API. It is the single source of truth for metric
// names, labels, and help strings. Metrics register themselves with the
// default registry at import time; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crud"

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "conflict" (duplicate email), "invalid", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "rejected"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ListingQueriesTotal counts GET /home listing queries.
// Label:
//   - action: the listing action parameter (e.g. "getAllUsersOrderedByDefault")
var ListingQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_queries_total",
		Help:      "Total number of listing queries, by action.",
	},
	[]string{"action"},
)

// MutationsTotal counts user-mutating operations.
// Labels:
//   - op: "delete", "edit_profile", or "edit_phone"
//   - result: "ok", "denied", "duplicate", or "error"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of user mutations, by operation and result.",
	},
	[]string{"op", "result"},
)
