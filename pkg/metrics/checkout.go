package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records outcomes and latency for checkout attempts.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	outcome  *prometheus.CounterVec
	upstream *prometheus.HistogramVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_attempt_duration_seconds",
		Help:    "Duration of checkout attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	outcome := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts by terminal outcome.",
	}, []string{"outcome"})
	upstream := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_call_duration_seconds",
		Help:    "Duration of upstream marketplace API calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"call"})
	reg.MustRegister(duration, outcome, upstream)
	return &CheckoutMetrics{
		duration: duration,
		outcome:  outcome,
		upstream: upstream,
	}
}

// ObserveAttempt records the outcome and duration for a checkout attempt.
func (c *CheckoutMetrics) ObserveAttempt(outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	label := normalizeLabel(outcome)
	if c.outcome != nil {
		c.outcome.WithLabelValues(label).Inc()
	}
	if c.duration != nil {
		c.duration.WithLabelValues(label).Observe(duration.Seconds())
	}
}

// ObserveUpstreamCall records the duration for the named upstream call.
func (c *CheckoutMetrics) ObserveUpstreamCall(call string, duration time.Duration) {
	if c == nil || c.upstream == nil {
		return
	}
	c.upstream.WithLabelValues(normalizeLabel(call)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
