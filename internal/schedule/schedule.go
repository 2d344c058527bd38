// Package schedule provides the cooperative scheduling primitives the
// tracking engine suspends on: delayed timers and animation-frame style
// callbacks.
//
// All callbacks of one Scheduler run on a single logical thread, so code
// driven by a Scheduler needs no locking of its own. Two implementations are
// provided:
//
//   - Loop runs callbacks on a dedicated goroutine in real time and
//     coalesces frame requests into one tick per frame interval.
//   - Manual runs callbacks only when told to, against a virtual clock.
//     It is intended for deterministic tests.
package schedule

import "time"

// DefaultFrameInterval approximates a 60Hz display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// Handle controls a scheduled callback.
type Handle interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or was already stopped.
	Stop() bool
}

// Scheduler runs deferred work.
type Scheduler interface {
	// AfterFunc runs fn once after d has elapsed.
	AfterFunc(d time.Duration, fn func()) Handle

	// RequestFrame runs fn at the next frame. Every callback requested
	// before a frame starts runs in that frame, in request order.
	RequestFrame(fn func()) Handle
}
