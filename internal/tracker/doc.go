// Package tracker keeps floating elements attached to target elements of a
// host document.
//
// A Tracker owns a registry of tracked elements keyed by selector. Every
// Subscribe call adds one subscriber to the record for its selector and
// returns a Subscription handle; the record lives exactly as long as it has
// subscribers.
//
// # Strategies
//
// Absolute subscriptions are computed once (optionally after a delay) with
// page-relative coordinates and never observe the document.
//
// Fixed subscriptions join the continuously tracked set. While at least one
// fixed record exists, the tracker holds exactly one scroll listener
// (capturing), one resize listener, one element resize observer (when the
// host supports it) and one mutation observer, no matter how many elements
// are tracked. Any event schedules at most one recompute pass per frame;
// the pass re-resolves every selector and delivers fresh coordinates, or nil
// when the target is absent, to every subscriber whose initial delay has
// elapsed.
//
// # Delays
//
// Each subscriber may request an initial delay, for targets that are still
// animating into place. A delayed subscriber receives nothing, not even
// recompute broadcasts, until its own timer fires. Unsubscribing cancels
// only that subscriber's timer.
//
// # Threading
//
// A Tracker is not safe for concurrent use. All calls, including the host's
// listener callbacks, must happen on the thread that runs the Scheduler's
// callbacks.
package tracker
