package monitor

// Kind classifies a raw notification from the OS watch layer.
type Kind int

const (
	// KindOther covers metadata, access, create, remove and rename notifications.
	KindOther Kind = iota
	// KindCloseWrite means a handle opened for writing was closed.
	KindCloseWrite
	// KindDataModified means the file content changed.
	KindDataModified
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindCloseWrite:
		return "close_write"
	case KindDataModified:
		return "data_modified"
	default:
		return "other"
	}
}

// Qualifies reports whether the kind signals a content change worth a callback.
func (k Kind) Qualifies() bool {
	return k == KindCloseWrite || k == KindDataModified
}

// Event is a single notification delivered by a Layer.
type Event struct {
	Kind Kind
	Path string
}

// Layer is the OS watch facility the monitor keeps in sync with its registry.
// Events and Errors must be closed once the layer is closed.
type Layer interface {
	Subscribe(path string) error
	Unsubscribe(path string) error
	Events() <-chan Event
	Errors() <-chan error
	Close() error
}
