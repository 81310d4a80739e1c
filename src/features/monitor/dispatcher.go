package monitor

import (
	"fmt"
	"time"
)

// Dispatch runs the callback registered for ev.Path on the calling goroutine
// when ev is a content change and no callback for that path is running.
// It reports whether the callback ran.
func (m *Monitor) Dispatch(ev Event) bool {
	e, ok := m.acquire(ev)
	if !ok {
		return false
	}
	m.invoke(e)
	return true
}

// consume reads the layer's channels until they are closed. Each accepted
// event runs on its own goroutine so paths never wait on each other.
func (m *Monitor) consume() {
	events, errs := m.layer.Events(), m.layer.Errors()
	for events != nil || errs != nil {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if e, ok := m.acquire(ev); ok {
				go m.invoke(e)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			m.logger.Error("Watch layer error", "error", err)
		}
	}
}

// acquire classifies ev and takes the debounce lock of its entry.
func (m *Monitor) acquire(ev Event) (*entry, bool) {
	if m.stopRequested.Load() {
		m.metrics.Events.WithLabelValues(OutcomeStopped).Inc()
		return nil, false
	}
	if !ev.Kind.Qualifies() {
		m.metrics.Events.WithLabelValues(OutcomeIgnored).Inc()
		return nil, false
	}

	e, ok := m.registry.lookup(ev.Path)
	if !ok {
		// Stale subscription racing a rebuild.
		m.metrics.Events.WithLabelValues(OutcomeUnknownPath).Inc()
		m.logger.Debug("Dropping event for unregistered path", "path", ev.Path, "kind", ev.Kind.String())
		return nil, false
	}

	if !e.busy.CompareAndSwap(false, true) {
		m.metrics.Events.WithLabelValues(OutcomeDebounced).Inc()
		m.logger.Debug("Callback already running, dropping event", "path", e.path, "kind", ev.Kind.String())
		return nil, false
	}

	m.metrics.Events.WithLabelValues(OutcomeDispatched).Inc()
	m.logger.Debug("Dispatching file change", "path", e.path, "kind", ev.Kind.String())
	return e, true
}

// invoke runs the entry's callback and releases its lock.
func (m *Monitor) invoke(e *entry) {
	defer e.busy.Store(false)

	start := time.Now()
	err := e.call()
	m.metrics.CallbackDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.metrics.CallbackFailures.Inc()
		m.logger.Error("Change callback failed", "path", e.path, "id", e.id, "error", &CallbackError{Path: e.path, Err: err})
	}
}

func (e *entry) call() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return e.callback()
}
