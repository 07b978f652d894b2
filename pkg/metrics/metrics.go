package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PaymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "armonia",
			Name:      "payments_total",
			Help:      "Payment operations by operation and resulting status",
		},
		[]string{"operation", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "armonia",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status",
			Buckets: []float64{
				0.005, 0.01, 0.025, 0.05, 0.1,
				0.25, 0.5, 1, 2.5, 5, 10,
			},
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	prometheus.MustRegister(PaymentsTotal, HTTPRequestDuration)
}

func IncPayment(operation, status string) {
	PaymentsTotal.WithLabelValues(operation, status).Inc()
}

func ObserveHTTP(method, route, status string, seconds float64) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(seconds)
}
