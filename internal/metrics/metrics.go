// Package metrics defines the Prometheus collectors for the bot.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Metrics holds every collector, registered against one Registerer.
type Metrics struct {
	PendingAgents       prometheus.Gauge
	PollCycles          prometheus.Counter
	PollDuration        prometheus.Histogram
	PollCheckErrors     *prometheus.CounterVec
	Notifications       *prometheus.CounterVec
	GatewayBreakerState *prometheus.GaugeVec
	Events              *prometheus.CounterVec
}

// New creates and registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PendingAgents: f.NewGauge(prometheus.GaugeOpts{
			Name: "seekarr_pending_agents",
			Help: "Number of requests waiting for their content to become available",
		}),
		PollCycles: f.NewCounter(prometheus.CounterOpts{
			Name: "seekarr_poll_cycles_total",
			Help: "Total number of completed poll cycles",
		}),
		PollDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "seekarr_poll_duration_seconds",
			Help:    "Duration of one poll cycle in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		PollCheckErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "seekarr_poll_check_errors_total",
			Help: "Completion checks that failed, by source",
		}, []string{"source"}),
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "seekarr_notifications_total",
			Help: "Completion messages sent, by result",
		}, []string{"result"}), // "sent", "failed"
		GatewayBreakerState: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "seekarr_gateway_breaker_state",
			Help: "Circuit breaker state per backend (0=closed, 1=half-open, 2=open)",
		}, []string{"backend"}),
		Events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "seekarr_events_total",
			Help: "Recorded history events, by type",
		}, []string{"type"}),
	}
}

// SetPending records the number of pending agents.
func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.PendingAgents.Set(float64(n))
}

// ObservePoll records one finished poll cycle.
func (m *Metrics) ObservePoll(seconds float64) {
	if m == nil {
		return
	}
	m.PollCycles.Inc()
	m.PollDuration.Observe(seconds)
}

// CheckError counts a failed completion check.
func (m *Metrics) CheckError(source string) {
	if m == nil {
		return
	}
	m.PollCheckErrors.WithLabelValues(source).Inc()
}

// Notification counts a delivery attempt.
func (m *Metrics) Notification(sent bool) {
	if m == nil {
		return
	}
	result := "sent"
	if !sent {
		result = "failed"
	}
	m.Notifications.WithLabelValues(result).Inc()
}

// BreakerState matches the arr.StateObserver signature so it can be passed
// straight to the gateway clients.
func (m *Metrics) BreakerState(backend string, _, to gobreaker.State) {
	if m == nil {
		return
	}
	m.GatewayBreakerState.WithLabelValues(backend).Set(float64(to))
}

// Event counts a recorded history event.
func (m *Metrics) Event(eventType string) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(eventType).Inc()
}
