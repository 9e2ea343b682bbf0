// Package metrics defines and registers the custom Prometheus metrics for the
// accounts API. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics are registered with the default registry at package init through
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// Values for the "result" label.
const (
	ResultSuccess      = "success"
	ResultRejected     = "rejected"
	ResultUnauthorized = "unauthorized"
	ResultError        = "error"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

// AccountsCreatedTotal counts create-account attempts.
// Label:
//   - result: "success", "rejected" (validation, duplicate) or "error"
var AccountsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_created_total",
		Help:      "Total number of create-account requests, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "rejected" (missing fields), "unauthorized" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login requests, by result.",
	},
	[]string{"result"},
)

// UserCacheRequestsTotal counts user cache lookups.
// Label:
//   - result: "hit" or "miss"
var UserCacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_cache_requests_total",
		Help:      "Total number of user cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
