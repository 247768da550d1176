package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Purchase outcome labels.
const (
	OutcomeSuccess    = "success"
	OutcomeOutOfStock = "out_of_stock"
	OutcomeError      = "error"
)

var (
	// PurchaseAttempts counts purchase calls by method (safe/unsafe) and outcome.
	PurchaseAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flashsale",
		Name:      "purchase_attempts_total",
		Help:      "Purchase attempts by decrement method and outcome.",
	}, []string{"method", "outcome"})

	// PurchaseDuration observes purchase call latency by method.
	PurchaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "flashsale",
		Name:      "purchase_duration_seconds",
		Help:      "Purchase call latency by decrement method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	// StockResets counts stock reset operations.
	StockResets = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "flashsale",
		Name:      "stock_resets_total",
		Help:      "Stock reset operations.",
	})
)
