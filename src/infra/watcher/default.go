package watcher

import (
	"context"
	"sync"

	"github.com/contre95/structwatch/src/features/monitor"
)

var (
	defaultOnce    sync.Once
	defaultMonitor *monitor.Monitor
	defaultErr     error
)

// Default returns the process-wide monitor backed by fsnotify, creating it on
// first use. Applications that manage their own lifetimes should use
// monitor.New with NewWatcher instead.
func Default() (*monitor.Monitor, error) {
	defaultOnce.Do(func() {
		layer, err := NewWatcher()
		if err != nil {
			defaultErr = err
			return
		}
		defaultMonitor = monitor.New(layer)
	})
	return defaultMonitor, defaultErr
}

// Register registers path on the default monitor.
func Register(path string, callback monitor.Callback) (*monitor.Handle, error) {
	m, err := Default()
	if err != nil {
		return nil, err
	}
	return m.Register(path, callback)
}

// Start starts the default monitor.
func Start(ctx context.Context) error {
	m, err := Default()
	if err != nil {
		return err
	}
	m.Start(ctx)
	return nil
}

// Stop stops the default monitor for the rest of the process lifetime.
func Stop() {
	if m, err := Default(); err == nil {
		m.Stop()
	}
}
