// Package host defines the read-only view of a document and its window that
// the tracking engine depends on.
//
// Implementations decide what a selector means and where elements are. The
// engine never mutates the document; it only queries elements, reads their
// bounding rectangles and the scroll offset, and attaches listeners.
package host

import "github.com/dshills/repere/internal/anchor"

// Element is a resolved node in the host document.
// Values must be comparable, and resolving the same node twice must yield
// equal values.
type Element interface {
	// BoundingRect returns the element's rectangle relative to the viewport.
	BoundingRect() anchor.Rect
}

// Listener is an attached event listener or observer.
// Detach is idempotent.
type Listener interface {
	Detach()
}

// Document resolves selectors and reports structural changes.
type Document interface {
	// Query returns the first element matching selector.
	// Invalid selectors match nothing.
	Query(selector string) (Element, bool)

	// ObserveMutations calls fn whenever nodes are added or removed
	// anywhere below the document body.
	ObserveMutations(fn func()) Listener
}

// Window reports viewport scrolling and resizing.
type Window interface {
	// ScrollOffset returns the window's scroll position.
	ScrollOffset() anchor.Scroll

	// OnScroll calls fn when the window or any scroll container scrolls.
	OnScroll(fn func()) Listener

	// OnResize calls fn when the viewport is resized.
	OnResize(fn func()) Listener
}

// Environment is everything the engine needs from its host.
type Environment interface {
	Document
	Window
}

// ResizeObserver watches individual elements for size changes.
type ResizeObserver interface {
	Observe(el Element)
	Unobserve(el Element)
	Disconnect()
}

// ResizeObserverFactory is an optional capability of an Environment.
// Hosts without element-level resize notifications simply do not implement it.
type ResizeObserverFactory interface {
	NewResizeObserver(fn func()) ResizeObserver
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func()

// Detach calls f.
func (f ListenerFunc) Detach() {
	if f != nil {
		f()
	}
}
