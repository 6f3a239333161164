package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the backend
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Token Metrics
	TokensIssuedTotal    prometheus.CounterVec
	TokensConsumedTotal  prometheus.CounterVec
	TokensThrottledTotal prometheus.CounterVec

	// Business Metrics
	DonationsSettledTotal prometheus.Counter
	RefillsTotal          prometheus.Counter
	LettersDispatched     prometheus.CounterVec
	LettersDropped        prometheus.Counter
	LetterQueueLength     prometheus.Gauge
}

// Increment helpers are nil-safe so code paths under test can run without a
// registry (promauto registers globally, which forbids a second instance).

func (m *MetricsRegistry) TokenIssued(kind string) {
	if m == nil {
		return
	}
	m.TokensIssuedTotal.WithLabelValues(kind).Inc()
}

func (m *MetricsRegistry) TokenConsumed(kind string) {
	if m == nil {
		return
	}
	m.TokensConsumedTotal.WithLabelValues(kind).Inc()
}

func (m *MetricsRegistry) TokenThrottled(kind string) {
	if m == nil {
		return
	}
	m.TokensThrottledTotal.WithLabelValues(kind).Inc()
}

func (m *MetricsRegistry) DonationSettled() {
	if m == nil {
		return
	}
	m.DonationsSettledTotal.Inc()
}

func (m *MetricsRegistry) RefillRecorded() {
	if m == nil {
		return
	}
	m.RefillsTotal.Inc()
}

func (m *MetricsRegistry) LetterDispatched(kind string) {
	if m == nil {
		return
	}
	m.LettersDispatched.WithLabelValues(kind).Inc()
}

func (m *MetricsRegistry) LetterDropped() {
	if m == nil {
		return
	}
	m.LettersDropped.Inc()
}

func (m *MetricsRegistry) SetLetterQueueLength(n int64) {
	if m == nil {
		return
	}
	m.LetterQueueLength.Set(float64(n))
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donatello_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "donatello_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "donatello_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Token Metrics
		TokensIssuedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donatello_tokens_issued_total",
				Help: "Total auth tokens issued by kind",
			},
			[]string{"kind"},
		),
		TokensConsumedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donatello_tokens_consumed_total",
				Help: "Total auth tokens successfully consumed by kind",
			},
			[]string{"kind"},
		),
		TokensThrottledTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donatello_tokens_throttled_total",
				Help: "Total token issue requests rejected by the cooldown window",
			},
			[]string{"kind"},
		),

		// Business Metrics
		DonationsSettledTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "donatello_donations_settled_total",
				Help: "Total donations settled",
			},
		),
		RefillsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "donatello_refills_total",
				Help: "Total balance refills recorded",
			},
		),
		LettersDispatched: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donatello_letters_dispatched_total",
				Help: "Total outbound letters delivered to the mailer by kind",
			},
			[]string{"kind"},
		),
		LettersDropped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "donatello_letters_dropped_total",
				Help: "Total letters dropped after exhausting delivery retries",
			},
		),
		LetterQueueLength: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "donatello_letter_queue_length",
				Help: "Messages currently waiting in the outbound letter stream",
			},
		),
	}
}
