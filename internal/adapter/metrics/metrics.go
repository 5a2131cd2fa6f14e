package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const pushJobName = "send_event"

// DispatchMetrics holds all Prometheus metrics for event dispatch.
type DispatchMetrics struct {
	registry *prometheus.Registry

	EventsTotal  *prometheus.CounterVec
	BytesTotal   prometheus.Counter
	RetriesTotal prometheus.Counter
	SendDuration prometheus.Histogram
}

// NewDispatchMetrics initializes the metrics on a private registry so the
// command can push them without touching the global one.
func NewDispatchMetrics() *DispatchMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &DispatchMetrics{
		registry: reg,
		EventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "send_event",
			Subsystem: "dispatch",
			Name:      "events_total",
			Help:      "Total number of dispatched events by outcome.",
		}, []string{"status"}), // status: sent, failed
		BytesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "send_event",
			Subsystem: "dispatch",
			Name:      "bytes_total",
			Help:      "Total number of serialized event bytes handed to the transport.",
		}),
		RetriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "send_event",
			Subsystem: "dispatch",
			Name:      "retries_total",
			Help:      "Total number of send retries after a 429 or 5xx response.",
		}),
		SendDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "send_event",
			Subsystem: "dispatch",
			Name:      "send_duration_seconds",
			Help:      "Time spent in a single transport send, including retries.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Registry exposes the private registry for gathering.
func (m *DispatchMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveSent records a send outcome. A nil receiver is ignored.
func (m *DispatchMetrics) ObserveSent(ok bool, bytes int, seconds float64) {
	if m == nil {
		return
	}
	status := "sent"
	if !ok {
		status = "failed"
	}
	m.EventsTotal.WithLabelValues(status).Inc()
	m.BytesTotal.Add(float64(bytes))
	m.SendDuration.Observe(seconds)
}

// ObserveRetry records one retry. A nil receiver is ignored.
func (m *DispatchMetrics) ObserveRetry() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// Push sends the collected metrics to a Prometheus Pushgateway.
func (m *DispatchMetrics) Push(ctx context.Context, gatewayURL string) error {
	return push.New(gatewayURL, pushJobName).Gatherer(m.registry).PushContext(ctx)
}
