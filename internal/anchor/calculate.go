package anchor

// geometry describes where an anchor point sits on a rectangle and how the
// floating box is shifted relative to it.
type geometry struct {
	// fx, fy are the anchor's fractional position across the rectangle.
	fx, fy float64
	tx, ty string
}

var geometries = map[Point]geometry{
	TopLeft:      {fx: 0, fy: 0, tx: "0%", ty: "-100%"},
	TopCenter:    {fx: 0.5, fy: 0, tx: "-50%", ty: "-100%"},
	TopRight:     {fx: 1, fy: 0, tx: "-100%", ty: "-100%"},
	RightCenter:  {fx: 1, fy: 0.5, tx: "-100%", ty: "-50%"},
	BottomRight:  {fx: 1, fy: 1, tx: "-100%", ty: "0%"},
	BottomCenter: {fx: 0.5, fy: 1, tx: "-50%", ty: "0%"},
	BottomLeft:   {fx: 0, fy: 1, tx: "0%", ty: "0%"},
	LeftCenter:   {fx: 0, fy: 0.5, tx: "0%", ty: "-50%"},
}

// Calculate maps a target rectangle and an anchor point to coordinates for
// a floating element. Absolute adds the scroll offset, Fixed does not.
// Offsets are applied last. Unknown points fall back to DefaultPoint.
func Calculate(rect Rect, point Point, offset Offset, strategy Strategy, scroll Scroll) Coords {
	g, ok := geometries[point]
	if !ok {
		g = geometries[DefaultPoint]
	}

	top := edge(rect.Top, rect.Bottom, rect.Height, g.fy)
	left := edge(rect.Left, rect.Right, rect.Width, g.fx)

	if strategy != Fixed {
		top += scroll.Y
		left += scroll.X
	}

	return Coords{
		Top:       top + offset.Y,
		Left:      left + offset.X,
		Translate: Translation{X: g.tx, Y: g.ty},
	}
}

// edge picks the exact edge coordinate for 0 and 1 so that the result is
// bit-identical to the rectangle's own edges.
func edge(start, end, size, f float64) float64 {
	switch f {
	case 0:
		return start
	case 1:
		return end
	default:
		return start + size*f
	}
}

// Place runs Calculate and wraps the result as a Placement.
func Place(rect Rect, point Point, offset Offset, strategy Strategy, scroll Scroll, zIndex int) Placement {
	if !strategy.Valid() {
		strategy = DefaultStrategy
	}
	return Placement{
		Coords:   Calculate(rect, point, offset, strategy, scroll),
		Position: strategy,
		ZIndex:   zIndex,
	}
}

// InViewport reports whether rect lies entirely inside a viewport of the
// given size.
func InViewport(rect Rect, width, height float64) bool {
	return rect.Top >= 0 &&
		rect.Left >= 0 &&
		rect.Bottom <= height &&
		rect.Right <= width
}
