package tracker

import (
	"github.com/google/uuid"

	"github.com/dshills/repere/internal/anchor"
	"github.com/dshills/repere/internal/host"
	"github.com/dshills/repere/internal/logging"
	"github.com/dshills/repere/internal/schedule"
)

// Callback receives a placement, or nil while the target is absent.
type Callback func(p *anchor.Placement)

// subscriber is one callback registered against a selector.
type subscriber struct {
	id       string
	selector string
	callback Callback
	spec     spec

	// waiting is set until the initial delay has elapsed.
	waiting bool
	timer   schedule.Handle
}

// trackedElement aggregates every fixed subscriber of one selector.
type trackedElement struct {
	selector string
	subs     map[string]*subscriber
	order    []string

	// element is the node found by the most recent resolution.
	element host.Element
	// observed is the node registered with the resize observer.
	observed host.Element
}

// Stats is a snapshot of the tracker's bookkeeping.
type Stats struct {
	// Tracked is the number of fixed-strategy records.
	Tracked int
	// Subscribers counts fixed subscribers plus absolute ones still waiting.
	Subscribers int
	// PendingTimers counts initial-delay timers not yet fired.
	PendingTimers int
	// Listening reports whether the shared observers are attached.
	Listening bool
	// FrameScheduled reports whether a recompute pass is queued.
	FrameScheduled bool
	// Passes counts completed recompute passes.
	Passes uint64
}

// Tracker computes and tracks anchor placements for selectors.
type Tracker struct {
	env      host.Environment
	sched    schedule.Scheduler
	log      *logging.Logger
	settings Settings

	tracked map[string]*trackedElement
	order   []string

	// pending holds absolute subscribers whose delayed calculation has not
	// run yet.
	pending map[string]*subscriber

	mux       multiplexer
	frame     schedule.Handle
	scheduled bool
	passes    uint64
}

// New creates a tracker for env whose timers and frames run on sched.
func New(env host.Environment, sched schedule.Scheduler, opts ...Option) *Tracker {
	t := &Tracker{
		env:      env,
		sched:    sched,
		log:      logging.Null(),
		settings: DefaultSettings(),
		tracked:  make(map[string]*trackedElement),
		pending:  make(map[string]*subscriber),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Subscribe registers cb for placements of the element matching selector,
// anchored at point. The first delivery happens before Subscribe returns
// unless a delay is requested.
func (t *Tracker) Subscribe(selector string, point anchor.Point, cb Callback, opts ...SubscribeOption) (*Subscription, error) {
	if selector == "" {
		return nil, ErrEmptySelector
	}
	if cb == nil {
		return nil, ErrNilCallback
	}

	sub := &subscriber{
		id:       uuid.NewString(),
		selector: selector,
		callback: cb,
		spec:     t.resolveSpec(point, opts),
	}

	if sub.spec.strategy == anchor.Absolute {
		t.subscribeAbsolute(sub)
	} else {
		t.subscribeFixed(sub)
	}

	return &Subscription{
		id:       sub.id,
		selector: selector,
		strategy: sub.spec.strategy,
		tracker:  t,
	}, nil
}

// subscribeAbsolute performs a single calculation, now or after the delay.
func (t *Tracker) subscribeAbsolute(sub *subscriber) {
	if sub.spec.delay <= 0 {
		t.deliverOnce(sub)
		return
	}

	t.log.Debug("delaying absolute calculation for %s by %v", sub.selector, sub.spec.delay)
	sub.waiting = true
	t.pending[sub.id] = sub
	sub.timer = t.sched.AfterFunc(sub.spec.delay, func() {
		if t.pending[sub.id] != sub {
			return
		}
		delete(t.pending, sub.id)
		sub.waiting = false
		sub.timer = nil
		t.deliverOnce(sub)
	})
}

// deliverOnce resolves the selector and calls the subscriber directly.
func (t *Tracker) deliverOnce(sub *subscriber) {
	el, ok := t.env.Query(sub.selector)
	if !ok {
		t.log.Debug("element not found: %s", sub.selector)
		t.deliver(sub, nil)
		return
	}
	p := t.place(el.BoundingRect(), sub)
	t.log.Debug("calculated anchor point for %s: top=%v left=%v", sub.selector, p.Top, p.Left)
	t.deliver(sub, &p)
}

// subscribeFixed adds the subscriber to the tracked set.
func (t *Tracker) subscribeFixed(sub *subscriber) {
	rec, ok := t.tracked[sub.selector]
	if !ok {
		rec = &trackedElement{
			selector: sub.selector,
			subs:     make(map[string]*subscriber),
		}
		t.tracked[sub.selector] = rec
		t.order = append(t.order, sub.selector)
	}
	rec.subs[sub.id] = sub
	rec.order = append(rec.order, sub.id)

	if !t.mux.active {
		t.startListening()
	}

	if sub.spec.delay <= 0 {
		t.refreshOne(rec, sub)
		return
	}

	t.log.Debug("delaying initial anchor point calculation for %s by %v", sub.selector, sub.spec.delay)
	sub.waiting = true
	sub.timer = t.sched.AfterFunc(sub.spec.delay, func() {
		t.finishDelay(sub)
	})
}

// finishDelay runs when a fixed subscriber's initial delay elapses.
func (t *Tracker) finishDelay(sub *subscriber) {
	rec, ok := t.tracked[sub.selector]
	if !ok || rec.subs[sub.id] != sub {
		return
	}
	sub.waiting = false
	sub.timer = nil
	t.log.Debug("calculating anchor point for %s after delay", sub.selector)
	t.refreshOne(rec, sub)
}

// refreshOne resolves rec and delivers to a single subscriber.
func (t *Tracker) refreshOne(rec *trackedElement, sub *subscriber) {
	el, ok := t.resolve(rec)
	if !ok {
		t.deliver(sub, nil)
		return
	}
	p := t.place(el.BoundingRect(), sub)
	t.deliver(sub, &p)
}

// refresh resolves rec and delivers to every subscriber past its delay.
func (t *Tracker) refresh(rec *trackedElement) {
	el, ok := t.resolve(rec)

	var rect anchor.Rect
	if ok {
		rect = el.BoundingRect()
	}

	ids := make([]string, len(rec.order))
	copy(ids, rec.order)

	for _, id := range ids {
		// An earlier callback may have torn the record down.
		if t.tracked[rec.selector] != rec {
			return
		}
		sub, live := rec.subs[id]
		if !live || sub.waiting {
			continue
		}
		if !ok {
			t.deliver(sub, nil)
			continue
		}
		p := t.place(rect, sub)
		t.deliver(sub, &p)
	}
}

// resolve looks the selector up again and keeps the resize observer
// pointed at the current node.
func (t *Tracker) resolve(rec *trackedElement) (host.Element, bool) {
	el, ok := t.env.Query(rec.selector)
	if !ok {
		t.log.Debug("element not found: %s", rec.selector)
		rec.element = nil
		t.unobserve(rec)
		return nil, false
	}
	rec.element = el
	t.observe(rec, el)
	return el, true
}

func (t *Tracker) place(rect anchor.Rect, sub *subscriber) anchor.Placement {
	var scroll anchor.Scroll
	if sub.spec.strategy == anchor.Absolute {
		scroll = t.env.ScrollOffset()
	}
	return anchor.Place(rect, sub.spec.point, sub.spec.offset, sub.spec.strategy, scroll, sub.spec.zIndex)
}

// deliver invokes the callback, containing any panic it raises.
func (t *Tracker) deliver(sub *subscriber, p *anchor.Placement) {
	defer func() {
		if r := recover(); r != nil {
			t.log.WithField("subscription", sub.id).Error("callback for %s panicked: %v", sub.selector, r)
		}
	}()
	sub.callback(p)
}

// unsubscribe removes one subscriber and tears down what it leaves empty.
func (t *Tracker) unsubscribe(selector, id string) {
	if sub, ok := t.pending[id]; ok {
		if sub.timer != nil {
			sub.timer.Stop()
		}
		delete(t.pending, id)
		return
	}

	rec, ok := t.tracked[selector]
	if !ok {
		return
	}
	sub, ok := rec.subs[id]
	if !ok {
		return
	}
	if sub.timer != nil {
		sub.timer.Stop()
		sub.timer = nil
	}
	delete(rec.subs, id)
	rec.order = without(rec.order, id)

	if len(rec.subs) == 0 {
		t.removeRecord(rec)
	}
}

func (t *Tracker) removeRecord(rec *trackedElement) {
	for _, sub := range rec.subs {
		if sub.timer != nil {
			sub.timer.Stop()
		}
	}
	t.unobserve(rec)
	delete(t.tracked, rec.selector)
	t.order = without(t.order, rec.selector)
	t.log.Debug("stopped tracking %s", rec.selector)

	if len(t.tracked) == 0 {
		t.stopListening()
	}
}

// Refresh runs a recompute pass immediately, replacing any queued one.
func (t *Tracker) Refresh() {
	if t.frame != nil {
		t.frame.Stop()
	}
	t.runPass()
}

// Destroy cancels every pending timer, detaches all observers and empties
// the registry. It is idempotent, and the tracker may be used again.
func (t *Tracker) Destroy() {
	for _, sub := range t.pending {
		if sub.timer != nil {
			sub.timer.Stop()
		}
	}
	for _, rec := range t.tracked {
		for _, sub := range rec.subs {
			if sub.timer != nil {
				sub.timer.Stop()
				sub.timer = nil
			}
		}
	}
	t.stopListening()

	t.pending = make(map[string]*subscriber)
	t.tracked = make(map[string]*trackedElement)
	t.order = nil
}

// Tracked returns the tracked selectors in registration order.
func (t *Tracker) Tracked() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Stats returns a snapshot of the tracker's state.
func (t *Tracker) Stats() Stats {
	s := Stats{
		Tracked:        len(t.tracked),
		Listening:      t.mux.active,
		FrameScheduled: t.scheduled,
		Passes:         t.passes,
	}
	for _, sub := range t.pending {
		s.Subscribers++
		if sub.timer != nil {
			s.PendingTimers++
		}
	}
	for _, rec := range t.tracked {
		s.Subscribers += len(rec.subs)
		for _, sub := range rec.subs {
			if sub.timer != nil {
				s.PendingTimers++
			}
		}
	}
	return s
}

func without(list []string, v string) []string {
	for i, s := range list {
		if s == v {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
