package monitor

import (
	"errors"
	"fmt"
)

var (
	// ErrPathResolution is matched by every *PathResolutionError.
	ErrPathResolution = errors.New("path cannot be resolved")
	ErrNotRegistered  = errors.New("path is not registered")
	ErrNilCallback    = errors.New("callback is required")

	errEmptyPath = errors.New("path is empty")
)

// PathResolutionError is returned by Register when a path cannot be turned
// into a canonical absolute path.
type PathResolutionError struct {
	Path string
	Err  error
}

func (e *PathResolutionError) Error() string {
	return fmt.Sprintf("resolve %q: %v", e.Path, e.Err)
}

func (e *PathResolutionError) Unwrap() error {
	return e.Err
}

func (e *PathResolutionError) Is(target error) bool {
	return target == ErrPathResolution
}

// SubscriptionError reports a failed subscribe or unsubscribe on the OS layer
// during a rebuild. It is logged, never returned to callers.
type SubscriptionError struct {
	Op   string
	Path string
	Err  error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *SubscriptionError) Unwrap() error {
	return e.Err
}

// CallbackError wraps an error returned (or a panic raised) by a callback.
type CallbackError struct {
	Path string
	Err  error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("callback for %q: %v", e.Path, e.Err)
}

func (e *CallbackError) Unwrap() error {
	return e.Err
}
