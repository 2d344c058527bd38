package anchor

import "fmt"

// Point names a corner or edge-midpoint of a target rectangle.
type Point string

const (
	TopLeft      Point = "top-left"
	TopCenter    Point = "top-center"
	TopRight     Point = "top-right"
	RightCenter  Point = "right-center"
	BottomRight  Point = "bottom-right"
	BottomCenter Point = "bottom-center"
	BottomLeft   Point = "bottom-left"
	LeftCenter   Point = "left-center"
)

// DefaultPoint is used when no anchor point is configured and as the
// fallback geometry for unknown points.
const DefaultPoint = TopRight

// DefaultZIndex is the stacking order applied when none is requested.
const DefaultZIndex = 9999

var allPoints = []Point{
	TopLeft, TopCenter, TopRight, RightCenter,
	BottomRight, BottomCenter, BottomLeft, LeftCenter,
}

// Points returns the eight supported anchor points, clockwise from top-left.
func Points() []Point {
	out := make([]Point, len(allPoints))
	copy(out, allPoints)
	return out
}

// Valid reports whether p is one of the supported anchor points.
func (p Point) Valid() bool {
	for _, v := range allPoints {
		if p == v {
			return true
		}
	}
	return false
}

// String returns the point name.
func (p Point) String() string {
	return string(p)
}

// ParsePoint parses an anchor point name.
func ParsePoint(s string) (Point, error) {
	p := Point(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPoint, s)
	}
	return p, nil
}

// Strategy selects how coordinates relate to the page.
type Strategy string

const (
	// Absolute coordinates are page-relative and include the scroll offset.
	// Absolute subscriptions are computed once.
	Absolute Strategy = "absolute"

	// Fixed coordinates are viewport-relative and are continuously tracked.
	Fixed Strategy = "fixed"
)

// DefaultStrategy is the positioning strategy used when none is requested.
const DefaultStrategy = Absolute

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return s == Absolute || s == Fixed
}

// String returns the strategy name.
func (s Strategy) String() string {
	return string(s)
}

// ParseStrategy parses a positioning strategy name.
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
	return st, nil
}

// Offset is a pixel displacement applied after anchor geometry.
type Offset struct {
	X float64
	Y float64
}

// Scroll is the page scroll position.
type Scroll struct {
	X float64
	Y float64
}

// Rect is a bounding rectangle with precomputed edges.
type Rect struct {
	Top    float64
	Left   float64
	Right  float64
	Bottom float64
	Width  float64
	Height float64
}

// NewRect builds a Rect from an origin and a size.
// Negative sizes extend the rectangle up or left of the origin.
func NewRect(x, y, width, height float64) Rect {
	r := Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
	if width < 0 {
		r.Left, r.Right = r.Right, r.Left
		width = -width
	}
	if height < 0 {
		r.Top, r.Bottom = r.Bottom, r.Top
		height = -height
	}
	r.Width = width
	r.Height = height
	return r
}

// Translate returns r moved by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{
		Top:    r.Top + dy,
		Left:   r.Left + dx,
		Right:  r.Right + dx,
		Bottom: r.Bottom + dy,
		Width:  r.Width,
		Height: r.Height,
	}
}

// IsEmpty reports whether r has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Translation is a CSS translate percentage pair, e.g. "-100%".
type Translation struct {
	X string
	Y string
}

// CSS renders the pair as a CSS transform function.
func (t Translation) CSS() string {
	return "translate(" + t.X + ", " + t.Y + ")"
}

// Coords is the raw result of an anchor calculation.
type Coords struct {
	Top       float64
	Left      float64
	Translate Translation
}

// Placement is what subscribers receive: coordinates plus the CSS position
// and stacking order they should be rendered with.
type Placement struct {
	Coords
	Position Strategy
	ZIndex   int
}
