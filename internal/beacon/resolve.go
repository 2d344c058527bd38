package beacon

import (
	"time"

	"github.com/dshills/repere/internal/anchor"
)

// Defaults are the lowest-precedence settings, normally taken from the
// application config.
type Defaults struct {
	Point    anchor.Point
	ZIndex   int
	Delay    time.Duration
	Strategy anchor.Strategy
}

// BuiltinDefaults returns top-right, z-index 9999, no delay and absolute
// positioning.
func BuiltinDefaults() Defaults {
	return Defaults{
		Point:    anchor.DefaultPoint,
		ZIndex:   anchor.DefaultZIndex,
		Strategy: anchor.DefaultStrategy,
	}
}

// Resolved is a beacon's effective trigger and popover settings.
type Resolved struct {
	Point    anchor.Point
	ZIndex   int
	Offset   anchor.Offset
	Delay    time.Duration
	Strategy anchor.Strategy

	PopoverPoint  anchor.Point
	PopoverOffset anchor.Offset
}

// Resolve applies beacon settings over the file-wide ones, and those over
// d. The popover anchor falls back to the trigger anchor.
func (c *Config) Resolve(b Beacon, d Defaults) Resolved {
	var global *Trigger
	var globalPop *Popover
	if c != nil {
		global = c.Trigger
		globalPop = c.Popover
	}
	bt := b.Trigger
	bp := b.Popover

	r := Resolved{
		Point:    d.Point,
		ZIndex:   d.ZIndex,
		Delay:    d.Delay,
		Strategy: d.Strategy,
	}

	for _, t := range []*Trigger{global, bt} {
		if t == nil {
			continue
		}
		if t.Anchor != "" {
			r.Point = anchor.Point(t.Anchor)
		}
		if t.ZIndex != nil {
			r.ZIndex = *t.ZIndex
		}
		if t.Offset != nil {
			r.Offset = anchor.Offset{X: t.Offset.X, Y: t.Offset.Y}
		}
		if t.DelayMS != nil {
			r.Delay = time.Duration(*t.DelayMS) * time.Millisecond
		}
		if t.Strategy != "" {
			r.Strategy = anchor.Strategy(t.Strategy)
		}
	}
	if !r.Point.Valid() {
		r.Point = anchor.DefaultPoint
	}
	if !r.Strategy.Valid() {
		r.Strategy = anchor.DefaultStrategy
	}

	r.PopoverPoint = r.Point
	for _, p := range []*Popover{globalPop, bp} {
		if p == nil {
			continue
		}
		if p.Anchor != "" && anchor.Point(p.Anchor).Valid() {
			r.PopoverPoint = anchor.Point(p.Anchor)
		}
		if p.Offset != nil {
			r.PopoverOffset = anchor.Offset{X: p.Offset.X, Y: p.Offset.Y}
		}
	}
	return r
}
