// Package dom implements a headless host document for the tracker.
//
// Documents are parsed with golang.org/x/net/html. Layout is not computed:
// every element that should have geometry carries a data-rect attribute
// holding its page rectangle as "x y width height" (commas are accepted as
// separators). Elements without the attribute have an empty rectangle.
//
// Selectors are CSS unless they start with "/" or "(", in which case they
// are evaluated as XPath. Invalid selectors match nothing.
//
// The document keeps a window scroll offset, per-container scroll offsets
// and a viewport size. Scrolling, resizing and structural edits notify the
// listeners registered through the host interfaces, so a Document can be
// handed directly to tracker.New.
//
// A Document is safe for concurrent use. Listeners are invoked outside the
// document lock, on the goroutine that made the change.
package dom
