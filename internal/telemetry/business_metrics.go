package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level observability
// of the checkout funnel.
type BusinessMetrics struct {
	// Checkout funnel
	SessionsStarted   prometheus.Counter
	SessionsExpired   prometheus.Counter
	CheckoutStep      *prometheus.CounterVec
	CheckoutCompleted prometheus.Counter

	// Shipping quotes
	QuotesRequested  *prometheus.CounterVec
	QuotesFailed     *prometheus.CounterVec
	QuoteUnavailable *prometheus.CounterVec
	QuoteFee         *prometheus.HistogramVec

	// Cart
	CartUpdated *prometheus.CounterVec
	CartValue   prometheus.Histogram

	// Orders
	OrdersSubmitted prometheus.Counter
	OrdersRejected  *prometheus.CounterVec
	OrderValue      prometheus.Histogram
	OrderItemCount  prometheus.Histogram

	// External API performance
	ProviderAPILatency *prometheus.HistogramVec
}

// NewBusinessMetrics creates and registers all business metrics
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "kahina"
	}

	subsystem := "business"

	m := &BusinessMetrics{
		// =======================================================================
		// Checkout Funnel
		// =======================================================================
		SessionsStarted: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_sessions_started_total",
				Help:      "Total checkout sessions created",
			},
		),
		SessionsExpired: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_sessions_expired_total",
				Help:      "Total checkout sessions evicted after idle timeout",
			},
		),
		CheckoutStep: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_step_total",
				Help:      "Total completions of each checkout step",
			},
			[]string{"step"}, // step: wilaya, commune, delivery_mode, center
		),
		CheckoutCompleted: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_completed_total",
				Help:      "Total checkouts that reached a successful submission",
			},
		),

		// =======================================================================
		// Shipping Quotes
		// =======================================================================
		QuotesRequested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "quotes_requested_total",
				Help:      "Total shipping quote requests issued upstream",
			},
			[]string{"delivery_mode"}, // delivery_mode: home, stop_desk
		),
		QuotesFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "quotes_failed_total",
				Help:      "Total quote requests that failed",
			},
			[]string{"error_type"}, // error_type: network, server
		),
		QuoteUnavailable: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "quotes_unavailable_total",
				Help:      "Total quote requests for unserviceable destinations",
			},
			[]string{"wilaya_id"},
		),
		QuoteFee: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "quote_total_fee_centimes",
				Help:      "Quoted total shipping fee distribution in centimes",
				Buckets:   []float64{20000, 40000, 60000, 80000, 100000, 150000, 200000},
			},
			[]string{"delivery_mode"},
		),

		// =======================================================================
		// Cart
		// =======================================================================
		CartUpdated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_updated_total",
				Help:      "Total cart update operations",
			},
			[]string{"action"}, // action: add, remove, update, set_quantity
		),
		CartValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_value_centimes",
				Help:      "Cart value at submission in centimes",
				Buckets:   []float64{100000, 250000, 500000, 750000, 1000000, 2500000, 5000000},
			},
		),

		// =======================================================================
		// Orders
		// =======================================================================
		OrdersSubmitted: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_submitted_total",
				Help:      "Total orders accepted by the order service",
			},
		),
		OrdersRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_rejected_total",
				Help:      "Total order submissions rejected or failed",
			},
			[]string{"reason"}, // reason: validation, submission
		),
		OrderValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value_centimes",
				Help:      "Order value distribution in centimes",
				Buckets:   []float64{100000, 250000, 500000, 750000, 1000000, 2500000, 5000000},
			},
		),
		OrderItemCount: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_item_count",
				Help:      "Number of items per order",
				Buckets:   []float64{1, 2, 3, 5, 10, 15, 20},
			},
		),

		// =======================================================================
		// External API Performance
		// =======================================================================
		ProviderAPILatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "provider_api_duration_seconds",
				Help:      "Shipping provider API call duration (helps differentiate app slowness from provider issues)",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"}, // operation: list_wilayas, list_communes, list_centers, calculate_fees
		),
	}

	return m
}

// Global instance for easy access from handlers
var Business *BusinessMetrics

// InitBusinessMetrics initializes the global business metrics instance
func InitBusinessMetrics(namespace string) *BusinessMetrics {
	Business = NewBusinessMetrics(namespace)
	return Business
}
