package monitor

import (
	"context"
	"time"
)

// run reconciles the layer's subscriptions with the registry until Stop.
func (m *Monitor) run(ctx context.Context) {
	var subscribed []string
	ticker := time.NewTicker(m.interval)
	defer func() {
		ticker.Stop()
		m.unsubscribeAll(subscribed)
		if err := m.layer.Close(); err != nil {
			m.logger.Error("Failed to close watch layer", "error", err)
		}
		m.running.Store(false)
		close(m.done)
		m.logger.Info("File monitor stopped")
	}()

	for !m.stopRequested.Load() {
		// Cleared before the rebuild so a registration racing it is picked up next tick.
		if m.dirty.Swap(false) {
			subscribed = m.rebuild(subscribed)
		}

		select {
		case <-ticker.C:
		case <-m.stopChan:
		case <-ctx.Done():
			m.Stop()
		}
	}
}

// rebuild drops every current subscription and subscribes to the registry's
// paths. It returns the paths that ended up subscribed.
func (m *Monitor) rebuild(subscribed []string) []string {
	m.unsubscribeAll(subscribed)

	paths := m.registry.Paths()
	current := make([]string, 0, len(paths))
	for _, path := range paths {
		if err := m.layer.Subscribe(path); err != nil {
			m.subscriptionFailed(&SubscriptionError{Op: "subscribe", Path: path, Err: err})
			continue
		}
		current = append(current, path)
	}

	m.metrics.Rebuilds.Inc()
	m.metrics.SubscribedPaths.Set(float64(len(current)))
	m.logger.Debug("Rebuilt watch set", "registered", len(paths), "subscribed", len(current))
	return current
}

func (m *Monitor) unsubscribeAll(paths []string) {
	for _, path := range paths {
		if err := m.layer.Unsubscribe(path); err != nil {
			m.subscriptionFailed(&SubscriptionError{Op: "unsubscribe", Path: path, Err: err})
		}
	}
	m.metrics.SubscribedPaths.Set(0)
}

func (m *Monitor) subscriptionFailed(err *SubscriptionError) {
	m.metrics.SubscriptionErrors.WithLabelValues(err.Op).Inc()
	m.logger.Error("Failed to update watch", "op", err.Op, "path", err.Path, "error", err.Err)
}
