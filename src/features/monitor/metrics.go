package monitor

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Event outcomes recorded by the events_total counter.
const (
	OutcomeDispatched  = "dispatched"
	OutcomeIgnored     = "ignored"
	OutcomeUnknownPath = "unknown_path"
	OutcomeDebounced   = "debounced"
	OutcomeStopped     = "stopped"
)

// Metrics holds the Prometheus collectors of a Monitor.
type Metrics struct {
	Events             *prometheus.CounterVec
	CallbackFailures   prometheus.Counter
	CallbackDuration   prometheus.Histogram
	Rebuilds           prometheus.Counter
	SubscriptionErrors *prometheus.CounterVec
	WatchedPaths       prometheus.Gauge
	SubscribedPaths    prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer, logger *slog.Logger) *Metrics {
	m := &Metrics{
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "structwatch",
			Subsystem: "monitor",
			Name:      "events_total",
			Help:      "Filesystem events received, by dispatch outcome.",
		}, []string{"outcome"}),
		CallbackFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "structwatch",
			Subsystem: "monitor",
			Name:      "callback_failures_total",
			Help:      "Callbacks that returned an error or panicked.",
		}),
		CallbackDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "structwatch",
			Subsystem: "monitor",
			Name:      "callback_duration_seconds",
			Help:      "Time spent running change callbacks.",
			Buckets:   prometheus.DefBuckets,
		}),
		Rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "structwatch",
			Subsystem: "monitor",
			Name:      "rebuilds_total",
			Help:      "Rebuilds of the OS watch set.",
		}),
		SubscriptionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "structwatch",
			Subsystem: "monitor",
			Name:      "subscription_errors_total",
			Help:      "Failed subscribe or unsubscribe calls on the OS watch layer.",
		}, []string{"op"}),
		WatchedPaths: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "structwatch",
			Subsystem: "monitor",
			Name:      "watched_paths",
			Help:      "Paths currently in the registry.",
		}),
		SubscribedPaths: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "structwatch",
			Subsystem: "monitor",
			Name:      "subscribed_paths",
			Help:      "Paths currently subscribed on the OS watch layer.",
		}),
	}
	if reg == nil {
		return m
	}
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				logger.Warn("Metric already registered, this monitor will not be exported", "error", err)
				continue
			}
			logger.Error("Failed to register metric", "error", err)
		}
	}
	return m
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Events,
		m.CallbackFailures,
		m.CallbackDuration,
		m.Rebuilds,
		m.SubscriptionErrors,
		m.WatchedPaths,
		m.SubscribedPaths,
	}
}
