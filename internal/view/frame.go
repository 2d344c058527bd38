package view

import "github.com/dshills/repere/internal/anchor"

// Box is a document element drawn as an outline.
type Box struct {
	Label string
	// Rect is relative to the viewport.
	Rect anchor.Rect
}

// Marker is a beacon trigger.
type Marker struct {
	ID    string
	Label string
	// Placement is nil while the target is absent.
	Placement *anchor.Placement
}

// Frame is everything drawn in one refresh.
type Frame struct {
	Title   string
	Route   string
	Scroll  anchor.Scroll
	Boxes   []Box
	Markers []Marker
	Focus   int
	Status  string
}

// Focused returns the focused marker, if any.
func (f Frame) Focused() (Marker, bool) {
	if f.Focus < 0 || f.Focus >= len(f.Markers) {
		return Marker{}, false
	}
	return f.Markers[f.Focus], true
}
