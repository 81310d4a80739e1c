// Package monitor keeps a registry of watched file paths and runs a callback
// whenever one of them changes on disk.
//
// Registrations are reconciled with the OS watch layer by a background poll
// loop, so a newly registered path starts being observed within one poll
// interval. Callbacks for the same path never overlap: an event that arrives
// while the path's callback is still running is dropped, not queued.
//
// Callbacks triggered by the OS layer run on their own goroutine, one per
// path at most, so a slow callback only delays further changes to its own path.
package monitor
