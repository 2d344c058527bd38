package tracker

import "github.com/dshills/repere/internal/anchor"

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	id       string
	selector string
	strategy anchor.Strategy
	tracker  *Tracker
	done     bool
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Selector returns the subscribed selector.
func (s *Subscription) Selector() string {
	return s.selector
}

// Strategy returns the positioning strategy in effect.
func (s *Subscription) Strategy() anchor.Strategy {
	return s.strategy
}

// Unsubscribe stops all future deliveries to this subscription's callback,
// including a pending initial delay. It is idempotent and safe to call
// after the tracker has been destroyed.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.done {
		return
	}
	s.done = true
	s.tracker.unsubscribe(s.selector, s.id)
}
