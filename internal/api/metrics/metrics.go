// Package metrics defines the Prometheus metrics exposed by the identity
// service. It is the single source of truth for metric names, labels, and
// help strings; everything registers with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// TokenRequestsTotal counts password-grant calls made by the token broker.
// Label:
//   - outcome: "issued" when the endpoint returned 2xx, "rejected" otherwise
var TokenRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_requests_total",
		Help:      "Total number of token-endpoint calls made by the broker.",
	},
	[]string{"outcome"},
)

// TokenRequestDuration measures the round-trip time of a token-endpoint call.
var TokenRequestDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "token_request_duration_seconds",
		Help:      "Duration of outbound token-endpoint calls.",
		Buckets:   prometheus.DefBuckets,
	},
)

// UsersWrittenTotal counts user-store write operations.
// Label:
//   - op: "create", "edit", "delete", "add_authority" or "remove_authority"
var UsersWrittenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_written_total",
		Help:      "Total number of successful user-store writes, by operation.",
	},
	[]string{"op"},
)
