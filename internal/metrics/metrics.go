// Package metrics holds the Prometheus collectors for the live feed and
// match lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "scoracle"

// Metrics groups all service collectors.
type Metrics struct {
	CommentaryCreated prometheus.Counter
	FeedPublished     *prometheus.CounterVec // by event
	FeedFailures      *prometheus.CounterVec // by transport
	FeedDelivered     prometheus.Counter
	StatusTransitions *prometheus.CounterVec // by status
	WSClients         prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CommentaryCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commentary_created_total",
			Help:      "Commentary entries persisted.",
		}),
		FeedPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_published_total",
			Help:      "Feed events handed to the transport.",
		}, []string{"event"}),
		FeedFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_publish_failures_total",
			Help:      "Feed events the transport rejected after a successful write.",
		}, []string{"transport"}),
		FeedDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_delivered_total",
			Help:      "Feed events received from the transport by this instance.",
		}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_status_transitions_total",
			Help:      "Persisted match status changes, by new status.",
		}, []string{"status"}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_clients",
			Help:      "Connected WebSocket clients.",
		}),
	}

	reg.MustRegister(
		m.CommentaryCreated,
		m.FeedPublished,
		m.FeedFailures,
		m.FeedDelivered,
		m.StatusTransitions,
		m.WSClients,
	)
	return m
}

// NewNoop returns collectors registered on a private registry, for tests
// and tools that do not expose /metrics.
func NewNoop() *Metrics {
	return New(prometheus.NewRegistry())
}
