package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_logins_total",
		Help: "Total number of successful logins",
	})

	LoginsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_logins_failed_total",
		Help: "Total number of rejected login attempts",
	})

	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Total number of cart mutations",
	}, []string{"op"})

	WishlistTogglesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_wishlist_toggles_total",
		Help: "Total number of wishlist toggles",
	})

	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Total number of orders placed",
	})

	OrdersRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_orders_rejected_total",
		Help: "Total number of rejected checkout attempts",
	}, []string{"reason"})

	ReviewsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_reviews_added_total",
		Help: "Total number of reviews appended",
	})

	RecommendationsComputedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_recommendations_computed_total",
		Help: "Total number of recommendation runs",
	})

	RecommendationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_recommendation_latency_seconds",
		Help:    "Latency of recommendation computation",
		Buckets: prometheus.DefBuckets,
	})

	EventsAuditedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_events_audited_total",
		Help: "Total number of domain events observed by the audit worker",
	}, []string{"type"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
