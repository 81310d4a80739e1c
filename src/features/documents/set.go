package documents

import (
	"sort"
	"sync"
)

// Entry is a named document as seen by the status API.
type Entry interface {
	Path() string
	Snapshot() any
}

// Set is a collection of documents addressed by name.
type Set struct {
	mu   sync.RWMutex
	docs map[string]Entry
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{docs: make(map[string]Entry)}
}

// Add stores doc under name, replacing any previous document.
func (s *Set) Add(name string, doc Entry) {
	s.mu.Lock()
	s.docs[name] = doc
	s.mu.Unlock()
}

// Get returns the document stored under name.
func (s *Set) Get(name string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[name]
	return doc, ok
}

// Names returns the document names in lexical order.
func (s *Set) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names
}
