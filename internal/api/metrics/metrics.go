// Package metrics defines and registers all custom Prometheus metrics for the
// sweet shop inventory API. It is the single source of truth for metric names,
// labels, and help strings. Collectors register themselves with the default
// registry at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sweetshop"

// PurchasesTotal counts purchase attempts.
// Label:
//   - result: "ok", "insufficient_stock", "not_found", or "error"
var PurchasesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Total number of purchase attempts, labelled by result.",
	},
	[]string{"result"},
)

// UnitsPurchasedTotal counts the units of stock sold through successful purchases.
var UnitsPurchasedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "units_purchased_total",
		Help:      "Total units of stock decremented by successful purchases.",
	},
)

// RestocksTotal counts successful restock operations.
var RestocksTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "restocks_total",
		Help:      "Total number of successful restock operations.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successful account registrations.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of successful account registrations.",
	},
)

// CatalogCacheTotal counts catalog cache lookups.
// Label:
//   - result: "hit" or "miss"
var CatalogCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_cache_total",
		Help:      "Total number of catalog cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
