package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CartMutations counts cart mutations by operation (add, remove, update, clear, settle).
	CartMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_mutations_total",
			Help: "Total number of cart mutations",
		},
		[]string{"operation"},
	)

	// CartSnapshotFailures counts failed snapshot reads and writes.
	CartSnapshotFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_snapshot_failures_total",
			Help: "Total number of failed cart snapshot loads and saves",
		},
		[]string{"operation"},
	)

	// CartSessions is the number of cart sessions held in memory.
	CartSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_cart_sessions",
			Help: "Current number of in-memory cart sessions",
		},
	)

	// CheckoutsTotal counts checkout attempts by outcome (placed, invalid, failed).
	CheckoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_checkouts_total",
			Help: "Total number of checkout attempts",
		},
		[]string{"outcome"},
	)

	// CatalogFetchFailures counts catalog listings that degraded to an empty result.
	CatalogFetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_catalog_fetch_failures_total",
			Help: "Total number of catalog fetches that failed and returned no products",
		},
	)
)

// Checkout outcomes
const (
	OutcomePlaced  = "placed"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)
