package engine

import "time"

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop cancels the callback. It reports false if the callback already
	// ran or was stopped.
	Stop() bool
}

// Scheduler runs deferred transitions.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// WallClock schedules callbacks with time.AfterFunc.
type WallClock struct{}

// AfterFunc runs f on its own goroutine after d.
func (WallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
