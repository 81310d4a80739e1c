package monitor

import (
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Callback runs when a registered path changes. A returned error is logged.
type Callback func() error

type entry struct {
	path         string
	id           string
	registeredAt time.Time
	busy         *atomic.Bool
	callback     Callback
}

// Handle gives read access to a registration.
type Handle struct {
	entry *entry
}

// Path returns the canonical path the handle was registered under.
func (h *Handle) Path() string {
	return h.entry.path
}

// ID returns the registration id.
func (h *Handle) ID() string {
	return h.entry.id
}

// Busy reports whether the callback is running right now.
func (h *Handle) Busy() bool {
	return h.entry.busy.Load()
}

// WatchInfo is a point-in-time view of a registry entry.
type WatchInfo struct {
	Path         string    `json:"path"`
	ID           string    `json:"id"`
	Busy         bool      `json:"busy"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Registry maps canonical paths to their watch entries.
// Entries are never mutated after insertion except for their busy flag, so
// readers always see a whole entry.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	size    prometheus.Gauge
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// put inserts e, replacing any entry with the same path. A replacement
// inherits the busy flag of the entry it replaces so a callback still
// running under the old registration keeps the path locked.
func (r *Registry) put(e *entry) (replaced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, replaced := r.entries[e.path]
	if replaced {
		e.busy = old.busy
	} else if e.busy == nil {
		e.busy = new(atomic.Bool)
	}
	r.entries[e.path] = e
	r.observeSize()
	return replaced
}

func (r *Registry) remove(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[path]; !ok {
		return false
	}
	delete(r.entries, path)
	r.observeSize()
	return true
}

// observeSize must be called with mu held.
func (r *Registry) observeSize() {
	if r.size != nil {
		r.size.Set(float64(len(r.entries)))
	}
}

func (r *Registry) lookup(path string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[filepath.Clean(path)]
	return e, ok
}

// Len returns the number of registered paths.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Paths returns the registered paths in lexical order.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	paths := make([]string, 0, len(r.entries))
	for path := range r.entries {
		paths = append(paths, path)
	}
	r.mu.RUnlock()
	sort.Strings(paths)
	return paths
}

// Snapshot returns every entry ordered by path.
func (r *Registry) Snapshot() []WatchInfo {
	r.mu.RLock()
	infos := make([]WatchInfo, 0, len(r.entries))
	for _, e := range r.entries {
		infos = append(infos, WatchInfo{
			Path:         e.path,
			ID:           e.id,
			Busy:         e.busy.Load(),
			RegisteredAt: e.registeredAt,
		})
	}
	r.mu.RUnlock()
	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })
	return infos
}

// Canonicalize resolves path to an absolute, symlink-free form. The path must exist.
func Canonicalize(path string) (string, error) {
	if path == "" {
		return "", &PathResolutionError{Path: path, Err: errEmptyPath}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &PathResolutionError{Path: path, Err: err}
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &PathResolutionError{Path: path, Err: err}
	}
	return resolved, nil
}
