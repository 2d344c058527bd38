package tracker

import (
	"time"

	"github.com/dshills/repere/internal/anchor"
	"github.com/dshills/repere/internal/logging"
)

// Settings holds the defaults applied to subscriptions that leave an
// option unset.
type Settings struct {
	ZIndex   int
	Strategy anchor.Strategy
	Delay    time.Duration
}

// DefaultSettings returns z-index 9999, absolute strategy and no delay.
func DefaultSettings() Settings {
	return Settings{
		ZIndex:   anchor.DefaultZIndex,
		Strategy: anchor.DefaultStrategy,
	}
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used for debug tracing and callback panics.
func WithLogger(l *logging.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

// WithSettings replaces the subscription defaults.
func WithSettings(s Settings) Option {
	return func(t *Tracker) {
		t.settings = s
	}
}

// spec is a subscriber's resolved request.
type spec struct {
	point    anchor.Point
	offset   anchor.Offset
	zIndex   int
	delay    time.Duration
	strategy anchor.Strategy

	zIndexSet   bool
	delaySet    bool
	strategySet bool
}

// SubscribeOption configures a single subscription.
type SubscribeOption func(*spec)

// WithOffset shifts the anchor point by a pixel offset.
func WithOffset(x, y float64) SubscribeOption {
	return func(s *spec) {
		s.offset = anchor.Offset{X: x, Y: y}
	}
}

// WithZIndex sets the stacking order reported with each placement.
func WithZIndex(z int) SubscribeOption {
	return func(s *spec) {
		s.zIndex = z
		s.zIndexSet = true
	}
}

// WithDelay postpones the subscriber's first calculation.
// Non-positive delays mean no delay.
func WithDelay(d time.Duration) SubscribeOption {
	return func(s *spec) {
		s.delay = d
		s.delaySet = true
	}
}

// WithStrategy selects absolute (one-shot) or fixed (tracked) positioning.
func WithStrategy(st anchor.Strategy) SubscribeOption {
	return func(s *spec) {
		s.strategy = st
		s.strategySet = true
	}
}

func (t *Tracker) resolveSpec(point anchor.Point, opts []SubscribeOption) spec {
	s := spec{point: point}
	for _, opt := range opts {
		opt(&s)
	}

	if !s.zIndexSet {
		s.zIndex = t.settings.ZIndex
	}
	if !s.delaySet {
		s.delay = t.settings.Delay
	}
	if s.delay < 0 {
		s.delay = 0
	}
	if !s.strategySet {
		s.strategy = t.settings.Strategy
	}
	if !s.strategy.Valid() {
		s.strategy = anchor.DefaultStrategy
	}
	return s
}
