// Package metrics defines the custom Prometheus metrics of the storefront API.
// HTTP request metrics come from the echoprometheus middleware; the ones here
// count business events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aurawell"

// AuthAttemptsTotal counts login and registration attempts.
// Labels:
//   - action: "login" or "register"
//   - result: "success", "rejected" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login and registration attempts.",
	},
	[]string{"action", "result"},
)

// CartMutationsTotal counts cart writes.
// Labels:
//   - op: "add", "update", "remove" or "clear"
//   - result: "success" or "error"
var CartMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Total number of cart mutations.",
	},
	[]string{"op", "result"},
)

// OrdersPlacedTotal counts successful checkouts.
var OrdersPlacedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed.",
	},
)

// OrderAmount observes order totals in ringgit.
var OrderAmount = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_amount_ringgit",
		Help:      "Distribution of order totals.",
		Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000},
	},
)

// OrderStatusChangesTotal counts admin status updates.
// Label:
//   - status: the new order status
var OrderStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_changes_total",
		Help:      "Total number of order status updates, by new status.",
	},
	[]string{"status"},
)

// ImagesUploadedTotal counts accepted product image uploads.
var ImagesUploadedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "images_uploaded_total",
		Help:      "Total number of product images uploaded.",
	},
)
