// Package documents keeps typed values in sync with YAML files on disk.
package documents

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/contre95/structwatch/src/features/monitor"
	"gopkg.in/yaml.v3"
)

var errEmptyDocument = errors.New("document is empty")

// Registrar is the part of the monitor a document needs to watch its file.
type Registrar interface {
	Register(path string, callback monitor.Callback) (*monitor.Handle, error)
}

// Document holds a value of type T backed by a YAML file.
type Document[T any] struct {
	path string

	mu    sync.RWMutex
	value T

	hooksMu sync.Mutex
	hooks   []func(T)
}

// New creates a document for path holding initial until it is loaded.
func New[T any](path string, initial T) *Document[T] {
	return &Document[T]{path: path, value: initial}
}

// Path returns the backing file path.
func (d *Document[T]) Path() string {
	return d.path
}

// Get returns the current value.
func (d *Document[T]) Get() T {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.value
}

// Set replaces the current value without touching the file.
func (d *Document[T]) Set(value T) {
	d.mu.Lock()
	d.value = value
	d.mu.Unlock()
}

// Snapshot returns the current value as any.
func (d *Document[T]) Snapshot() any {
	return d.Get()
}

// OnUpdate adds a hook run with the new value after every successful Reload.
func (d *Document[T]) OnUpdate(fn func(T)) {
	d.hooksMu.Lock()
	d.hooks = append(d.hooks, fn)
	d.hooksMu.Unlock()
}

// Save writes the current value to the file, creating parent directories.
// The file is rewritten in place so an existing watch on it survives.
func (d *Document[T]) Save() error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", d.path, err)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(d.Get()); err != nil {
		return fmt.Errorf("failed to encode %s: %w", d.path, err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to encode %s: %w", d.path, err)
	}
	if err := os.WriteFile(d.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", d.path, err)
	}
	slog.Debug("Saved document", "path", d.path)
	return nil
}

// Load reads the file into the document, writing the current value first
// when the file does not exist yet.
func (d *Document[T]) Load() error {
	if _, err := os.Stat(d.path); os.IsNotExist(err) {
		slog.Debug("Document not found, creating", "path", d.path)
		if err := d.Save(); err != nil {
			return err
		}
	}
	return d.Reload()
}

// Reload decodes the file into a fresh value, swaps it in and runs the
// update hooks. The current value is kept when reading or decoding fails.
func (d *Document[T]) Reload() error {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", d.path, err)
	}

	// An empty file is usually a write caught mid-truncation, not a real value.
	var next T
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&next); err != nil {
		if errors.Is(err, io.EOF) {
			err = errEmptyDocument
		}
		return fmt.Errorf("failed to decode %s: %w", d.path, err)
	}
	d.Set(next)

	d.hooksMu.Lock()
	hooks := slices.Clone(d.hooks)
	d.hooksMu.Unlock()
	for _, hook := range hooks {
		hook(next)
	}

	slog.Info("Data updated", "path", d.path)
	return nil
}

// Watch registers the document's file so every change triggers Reload.
// Reload errors are reported through the monitor's callback error logging.
func (d *Document[T]) Watch(r Registrar) (*monitor.Handle, error) {
	return r.Register(d.path, d.Reload)
}
