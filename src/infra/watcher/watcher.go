package watcher

import (
	"log/slog"
	"sync"

	"github.com/contre95/structwatch/src/features/monitor"
	"github.com/fsnotify/fsnotify"
)

// Watcher adapts an fsnotify watcher to the monitor's watch layer.
type Watcher struct {
	watcher   *fsnotify.Watcher
	events    chan monitor.Event
	errors    chan error
	stopChan  chan struct{}
	closeOnce sync.Once
}

// NewWatcher creates a new file system watcher
func NewWatcher() (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  watcher,
		events:   make(chan monitor.Event, 64),
		errors:   make(chan error, 4),
		stopChan: make(chan struct{}),
	}
	go w.watchLoop()
	return w, nil
}

// Subscribe starts watching a single file.
func (w *Watcher) Subscribe(path string) error {
	return w.watcher.Add(path)
}

// Unsubscribe stops watching a file.
func (w *Watcher) Unsubscribe(path string) error {
	return w.watcher.Remove(path)
}

// Events returns the classified event stream.
func (w *Watcher) Events() <-chan monitor.Event {
	return w.events
}

// Errors returns errors reported by fsnotify.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// WatchList returns the paths fsnotify is currently watching.
func (w *Watcher) WatchList() []string {
	return w.watcher.WatchList()
}

// Close stops the watcher. Events and Errors are closed once the loop exits.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stopChan)
		err = w.watcher.Close()
	})
	return err
}

// watchLoop translates fsnotify events until the watcher is closed.
func (w *Watcher) watchLoop() {
	defer close(w.events)
	defer close(w.errors)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				slog.Error("File watcher error", "error", err)
			}

		case <-w.stopChan:
			return
		}
	}
}

// handleEvent forwards a single fsnotify event
func (w *Watcher) handleEvent(event fsnotify.Event) {
	translated := monitor.Event{
		Kind: Classify(event.Op),
		Path: event.Name,
	}
	select {
	case w.events <- translated:
	case <-w.stopChan:
	}
}

// Classify maps an fsnotify operation to a monitor event kind.
// fsnotify has no portable close-after-write notification, so only Write
// counts as a content change; Chmod, Create, Remove and Rename do not.
func Classify(op fsnotify.Op) monitor.Kind {
	if op.Has(fsnotify.Write) {
		return monitor.KindDataModified
	}
	return monitor.KindOther
}
