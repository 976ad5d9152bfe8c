package metrics

import "github.com/prometheus/client_golang/prometheus"

// Entitlement and popularity Prometheus metrics.
var (
	ReceiptVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradex",
			Name:      "receipt_verifications_total",
			Help:      "Total receipt verification calls by outcome",
		},
		[]string{"result"}, // "purchased" / "not_purchased" / "unparseable" / "error"
	)

	ReceiptVerificationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tradex",
			Name:      "receipt_verification_duration_seconds",
			Help:      "Receipt verification call duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		},
		[]string{"environment"},
	)

	EntitlementCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradex",
			Name:      "entitlement_cache_total",
			Help:      "Entitlement cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss" / "mismatch"
	)

	HitSamplesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradex",
			Name:      "hit_samples_total",
			Help:      "Sampled popularity counter outcomes",
		},
		[]string{"result"}, // "sampled" / "skipped"
	)
)

var entMetricsRegistered bool

// RegisterEntitlementMetrics registers Prometheus entitlement metrics. Must be called once from main.
func RegisterEntitlementMetrics() {
	if entMetricsRegistered {
		return
	}
	prometheus.MustRegister(ReceiptVerificationsTotal)
	prometheus.MustRegister(ReceiptVerificationDuration)
	prometheus.MustRegister(EntitlementCacheTotal)
	prometheus.MustRegister(HitSamplesTotal)
	entMetricsRegistered = true
}
