package monitor

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultPollInterval is how often the watch set is reconciled with the registry.
const DefaultPollInterval = time.Second

// Monitor owns a registry of watched paths and the goroutines that keep the
// OS watch layer subscribed to them and dispatch their change callbacks.
type Monitor struct {
	registry *Registry
	layer    Layer
	logger   *slog.Logger
	metrics  *Metrics
	interval time.Duration

	started       atomic.Bool
	running       atomic.Bool
	dirty         atomic.Bool
	stopRequested atomic.Bool

	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}

	registerer prometheus.Registerer
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithPollInterval sets the reconcile interval.
func WithPollInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithLogger sets the logger used for lifecycle, subscription and callback messages.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRegisterer registers the monitor's metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(m *Monitor) {
		m.registerer = reg
	}
}

// New creates a Monitor on top of layer. Nothing is watched until Start.
func New(layer Layer, opts ...Option) *Monitor {
	m := &Monitor{
		registry: NewRegistry(),
		layer:    layer,
		logger:   slog.Default().With("component", "monitor"),
		interval: DefaultPollInterval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.metrics = newMetrics(m.registerer, m.logger)
	m.registry.size = m.metrics.WatchedPaths
	return m
}

// Register watches path and runs callback when its content changes.
// Registering a path again replaces its callback.
func (m *Monitor) Register(path string, callback Callback) (*Handle, error) {
	if callback == nil {
		return nil, ErrNilCallback
	}
	canonical, err := Canonicalize(path)
	if err != nil {
		return nil, err
	}

	e := &entry{
		path:         canonical,
		id:           uuid.NewString(),
		registeredAt: time.Now(),
		callback:     callback,
	}
	replaced := m.registry.put(e)
	m.markDirty()

	m.logger.Debug("Registered file", "path", canonical, "id", e.id, "replaced", replaced)
	return &Handle{entry: e}, nil
}

// Unregister stops watching path. A path that no longer exists on disk is
// matched by its absolute form.
func (m *Monitor) Unregister(path string) error {
	canonical, err := Canonicalize(path)
	if err != nil {
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			return err
		}
		canonical = filepath.Clean(abs)
	}
	if !m.registry.remove(canonical) {
		return ErrNotRegistered
	}
	m.markDirty()

	m.logger.Debug("Unregistered file", "path", canonical)
	return nil
}

// Start launches the background loops. It is a no-op when the monitor is
// already running or has been stopped. Cancelling ctx has the same effect as Stop.
func (m *Monitor) Start(ctx context.Context) {
	if m.stopRequested.Load() {
		m.logger.Warn("Monitor was stopped and cannot be started again")
		return
	}
	if !m.started.CompareAndSwap(false, true) {
		return
	}
	m.running.Store(true)
	m.dirty.Store(true)
	m.logger.Info("Starting file monitor", "poll_interval", m.interval.String())

	go m.consume()
	go m.run(ctx)
}

// Stop asks the background loop to exit. It does not wait for it and does not
// interrupt a running callback. A stopped monitor cannot be restarted.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		m.stopRequested.Store(true)
		close(m.stopChan)
		// The loop closes done on exit. If it never started, nobody will.
		if m.started.CompareAndSwap(false, true) {
			close(m.done)
		}
		m.logger.Info("Stopping file monitor")
	})
}

// Running reports whether the background loop is active.
func (m *Monitor) Running() bool {
	return m.running.Load()
}

// Done is closed once the background loop has exited after Stop, or by Stop
// itself when the monitor was never started.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

// Registry returns the monitor's registry.
func (m *Monitor) Registry() *Registry {
	return m.registry
}

// Metrics returns the monitor's collectors.
func (m *Monitor) Metrics() *Metrics {
	return m.metrics
}

func (m *Monitor) markDirty() {
	if !m.stopRequested.Load() {
		m.dirty.Store(true)
	}
}
