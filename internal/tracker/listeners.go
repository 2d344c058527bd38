package tracker

import "github.com/dshills/repere/internal/host"

// multiplexer is the single set of host observers shared by every tracked
// record. It is attached when the registry gains its first record and
// detached when the registry empties.
type multiplexer struct {
	active   bool
	scroll   host.Listener
	resize   host.Listener
	mutation host.Listener
	elements host.ResizeObserver
	// refs counts the records observing each node. Several selectors can
	// resolve to the same node.
	refs map[host.Element]int
}

func (t *Tracker) startListening() {
	t.mux.scroll = t.env.OnScroll(t.scheduleUpdate)
	t.mux.resize = t.env.OnResize(t.scheduleUpdate)
	if f, ok := t.env.(host.ResizeObserverFactory); ok {
		t.mux.elements = f.NewResizeObserver(t.scheduleUpdate)
		t.mux.refs = make(map[host.Element]int)
	}
	t.mux.mutation = t.env.ObserveMutations(t.scheduleUpdate)
	t.mux.active = true
	t.log.Debug("listeners attached")
}

func (t *Tracker) stopListening() {
	if t.mux.scroll != nil {
		t.mux.scroll.Detach()
	}
	if t.mux.resize != nil {
		t.mux.resize.Detach()
	}
	if t.mux.elements != nil {
		t.mux.elements.Disconnect()
	}
	if t.mux.mutation != nil {
		t.mux.mutation.Detach()
	}
	for _, rec := range t.tracked {
		rec.observed = nil
	}
	if t.frame != nil {
		t.frame.Stop()
		t.frame = nil
	}
	t.scheduled = false

	if t.mux.active {
		t.log.Debug("listeners detached")
	}
	t.mux = multiplexer{}
}

// scheduleUpdate coalesces any number of triggers into one recompute pass
// at the next frame.
func (t *Tracker) scheduleUpdate() {
	if t.scheduled || !t.mux.active {
		return
	}
	t.scheduled = true
	t.frame = t.sched.RequestFrame(t.runPass)
}

// runPass recomputes every tracked record in registration order.
func (t *Tracker) runPass() {
	t.scheduled = false
	t.frame = nil
	t.passes++

	selectors := make([]string, len(t.order))
	copy(selectors, t.order)

	for _, sel := range selectors {
		rec, ok := t.tracked[sel]
		if !ok {
			continue
		}
		t.refresh(rec)
	}
}

func (t *Tracker) observe(rec *trackedElement, el host.Element) {
	if t.mux.elements == nil || rec.observed == el {
		return
	}
	t.unobserve(rec)
	if t.mux.refs[el] == 0 {
		t.mux.elements.Observe(el)
	}
	t.mux.refs[el]++
	rec.observed = el
}

// unobserve drops rec's interest in its node. The node stays observed while
// another record still points at it.
func (t *Tracker) unobserve(rec *trackedElement) {
	if t.mux.elements == nil || rec.observed == nil {
		return
	}
	el := rec.observed
	rec.observed = nil
	t.mux.refs[el]--
	if t.mux.refs[el] > 0 {
		return
	}
	delete(t.mux.refs, el)
	t.mux.elements.Unobserve(el)
}
