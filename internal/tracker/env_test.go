package tracker

import (
	"github.com/dshills/repere/internal/anchor"
	"github.com/dshills/repere/internal/host"
)

// fakeElement is a test element with a settable rectangle.
type fakeElement struct {
	rect anchor.Rect
}

func (e *fakeElement) BoundingRect() anchor.Rect {
	return e.rect
}

// fakeEnv is an in-memory host that counts attached listeners.
type fakeEnv struct {
	elements map[string]*fakeElement
	scroll   anchor.Scroll
	queries  int

	nextID    int
	scrolls   map[int]func()
	resizes   map[int]func()
	mutations map[int]func()
	observers map[int]*fakeResizeObserver
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		elements:  make(map[string]*fakeElement),
		scrolls:   make(map[int]func()),
		resizes:   make(map[int]func()),
		mutations: make(map[int]func()),
		observers: make(map[int]*fakeResizeObserver),
	}
}

func (f *fakeEnv) Query(selector string) (host.Element, bool) {
	f.queries++
	el, ok := f.elements[selector]
	if !ok {
		return nil, false
	}
	return el, true
}

func (f *fakeEnv) ScrollOffset() anchor.Scroll {
	return f.scroll
}

func (f *fakeEnv) add(set map[int]func(), fn func()) host.Listener {
	f.nextID++
	id := f.nextID
	set[id] = fn
	return host.ListenerFunc(func() { delete(set, id) })
}

func (f *fakeEnv) OnScroll(fn func()) host.Listener {
	return f.add(f.scrolls, fn)
}

func (f *fakeEnv) OnResize(fn func()) host.Listener {
	return f.add(f.resizes, fn)
}

func (f *fakeEnv) ObserveMutations(fn func()) host.Listener {
	return f.add(f.mutations, fn)
}

func (f *fakeEnv) listenerCount() int {
	return len(f.scrolls) + len(f.resizes) + len(f.mutations) + len(f.observers)
}

func (f *fakeEnv) fireScroll() {
	fire(f.scrolls)
}

func (f *fakeEnv) fireResize() {
	fire(f.resizes)
}

func (f *fakeEnv) fireMutation() {
	fire(f.mutations)
}

func (f *fakeEnv) set(selector string, r anchor.Rect) {
	f.elements[selector] = &fakeElement{rect: r}
}

func (f *fakeEnv) remove(selector string) {
	delete(f.elements, selector)
}

func fire(set map[int]func()) {
	fns := make([]func(), 0, len(set))
	for _, fn := range set {
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		fn()
	}
}

// fakeResizeObserver records which elements are observed.
type fakeResizeObserver struct {
	env      *fakeEnv
	id       int
	fn       func()
	observed map[host.Element]bool
}

// withResizeObserver wraps fakeEnv so that it also implements
// host.ResizeObserverFactory.
type withResizeObserver struct {
	*fakeEnv
}

func (w withResizeObserver) NewResizeObserver(fn func()) host.ResizeObserver {
	w.nextID++
	ro := &fakeResizeObserver{env: w.fakeEnv, id: w.nextID, fn: fn, observed: make(map[host.Element]bool)}
	w.observers[ro.id] = ro
	return ro
}

func (o *fakeResizeObserver) Observe(el host.Element) {
	o.observed[el] = true
}

func (o *fakeResizeObserver) Unobserve(el host.Element) {
	delete(o.observed, el)
}

func (o *fakeResizeObserver) Disconnect() {
	o.observed = make(map[host.Element]bool)
	delete(o.env.observers, o.id)
}

// resizeElement simulates a size change reported by every observer
// watching el.
func (f *fakeEnv) resizeElement(selector string, r anchor.Rect) {
	el := f.elements[selector]
	el.rect = r
	for _, o := range f.observers {
		if o.observed[el] {
			o.fn()
		}
	}
}
