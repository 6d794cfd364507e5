// Package metrics defines all custom Prometheus metrics for the request
// tracker API. It is the single source of truth for metric names, labels,
// and help strings. Collectors register themselves via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "uixom"

// RequestsCreatedTotal counts service requests created through the public form.
// Label:
//   - source: "public" (anonymous) or "internal" (authenticated submitter)
var RequestsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_created_total",
		Help:      "Total number of service requests created.",
	},
	[]string{"source"},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", "disabled", "forbidden", "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// NotificationsTotal counts notification deliveries by channel and outcome.
// Labels:
//   - channel: "mail" or "webhook"
//   - result: "sent" or "failed"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of request-created notifications, by channel and result.",
	},
	[]string{"channel", "result"},
)

// UsersCreatedTotal counts accounts created through the admin panel.
// Label:
//   - role: "super_admin", "admin", or "client"
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created, by role.",
	},
	[]string{"role"},
)
