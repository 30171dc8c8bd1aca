// Package metrics owns the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	paymentInvoicesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_invoices_total",
			Help: "Invoice creation attempts by result",
		},
		[]string{"result"},
	)

	paymentWebhooksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_webhooks_total",
			Help: "Gateway webhook deliveries by result",
		},
		[]string{"result"},
	)

	subscriptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscriptions_total",
			Help: "Subscription lookups by result (issued or reused)",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(paymentInvoicesTotal)
	prometheus.MustRegister(paymentWebhooksTotal)
	prometheus.MustRegister(subscriptionsTotal)
}

func ObserveHTTP(method, path, status string, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func RecordInvoice(result string) {
	paymentInvoicesTotal.WithLabelValues(result).Inc()
}

func RecordWebhook(result string) {
	paymentWebhooksTotal.WithLabelValues(result).Inc()
}

func RecordSubscription(result string) {
	subscriptionsTotal.WithLabelValues(result).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
