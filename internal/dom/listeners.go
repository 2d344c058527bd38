package dom

import "github.com/dshills/repere/internal/host"

// OnScroll implements host.Window. Scrolling of the window and of any
// container is reported.
func (d *Document) OnScroll(fn func()) host.Listener {
	return d.listen(d.scrolls, fn)
}

// OnResize implements host.Window.
func (d *Document) OnResize(fn func()) host.Listener {
	return d.listen(d.resizes, fn)
}

// ObserveMutations implements host.Document.
func (d *Document) ObserveMutations(fn func()) host.Listener {
	return d.listen(d.mutations, fn)
}

// ListenerCount returns the number of attached listeners and observers.
func (d *Document) ListenerCount() int {
	d.lmu.Lock()
	defer d.lmu.Unlock()
	return len(d.scrolls) + len(d.resizes) + len(d.mutations) + len(d.observers)
}

func (d *Document) listen(set map[int]func(), fn func()) host.Listener {
	d.lmu.Lock()
	d.nextID++
	id := d.nextID
	set[id] = fn
	d.lmu.Unlock()

	return host.ListenerFunc(func() {
		d.lmu.Lock()
		delete(set, id)
		d.lmu.Unlock()
	})
}

// notify calls every listener in set without holding any lock.
func (d *Document) notify(set map[int]func()) {
	d.lmu.Lock()
	fns := make([]func(), 0, len(set))
	for _, fn := range set {
		fns = append(fns, fn)
	}
	d.lmu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// NewResizeObserver implements host.ResizeObserverFactory.
// Unlike browsers, observing an element does not produce an initial
// notification.
func (d *Document) NewResizeObserver(fn func()) host.ResizeObserver {
	d.lmu.Lock()
	defer d.lmu.Unlock()

	d.nextID++
	o := &resizeObserver{
		doc:      d,
		id:       d.nextID,
		fn:       fn,
		observed: make(map[*Element]struct{}),
	}
	d.observers[o.id] = o
	return o
}

func (d *Document) notifyResized(el *Element) {
	d.lmu.Lock()
	var fns []func()
	for _, o := range d.observers {
		if _, ok := o.observed[el]; ok {
			fns = append(fns, o.fn)
		}
	}
	d.lmu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// resizeObserver state is guarded by doc.lmu.
type resizeObserver struct {
	doc      *Document
	id       int
	fn       func()
	observed map[*Element]struct{}
}

func (o *resizeObserver) Observe(el host.Element) {
	e, ok := el.(*Element)
	if !ok || e.doc != o.doc {
		return
	}
	o.doc.lmu.Lock()
	o.observed[e] = struct{}{}
	o.doc.lmu.Unlock()
}

func (o *resizeObserver) Unobserve(el host.Element) {
	e, ok := el.(*Element)
	if !ok {
		return
	}
	o.doc.lmu.Lock()
	delete(o.observed, e)
	o.doc.lmu.Unlock()
}

func (o *resizeObserver) Disconnect() {
	o.doc.lmu.Lock()
	o.observed = make(map[*Element]struct{})
	delete(o.doc.observers, o.id)
	o.doc.lmu.Unlock()
}

// Observed returns how many elements the document's resize observers are
// watching in total.
func (d *Document) Observed() int {
	d.lmu.Lock()
	defer d.lmu.Unlock()
	n := 0
	for _, o := range d.observers {
		n += len(o.observed)
	}
	return n
}
