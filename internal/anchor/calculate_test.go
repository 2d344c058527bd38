package anchor

import (
	"errors"
	"testing"
)

var fixture = Rect{Top: 100, Left: 50, Right: 150, Bottom: 120, Width: 100, Height: 20}

func TestCalculate_AllPoints(t *testing.T) {
	tests := []struct {
		point     Point
		top, left float64
		tx, ty    string
	}{
		{TopLeft, 100, 50, "0%", "-100%"},
		{TopCenter, 100, 100, "-50%", "-100%"},
		{TopRight, 100, 150, "-100%", "-100%"},
		{RightCenter, 110, 150, "-100%", "-50%"},
		{BottomRight, 120, 150, "-100%", "0%"},
		{BottomCenter, 120, 100, "-50%", "0%"},
		{BottomLeft, 120, 50, "0%", "0%"},
		{LeftCenter, 110, 50, "0%", "-50%"},
	}

	for _, tt := range tests {
		t.Run(string(tt.point), func(t *testing.T) {
			got := Calculate(fixture, tt.point, Offset{}, Fixed, Scroll{X: 7, Y: 9})
			if got.Top != tt.top || got.Left != tt.left {
				t.Errorf("Calculate() top/left = %v/%v, want %v/%v", got.Top, got.Left, tt.top, tt.left)
			}
			if got.Translate.X != tt.tx || got.Translate.Y != tt.ty {
				t.Errorf("Calculate() translate = %v, want {%s %s}", got.Translate, tt.tx, tt.ty)
			}
		})
	}
}

// Applying the translate percentages to a box of size w x h must put the
// box's matching corner or edge exactly on the anchor point.
func TestCalculate_TranslateAlignsBox(t *testing.T) {
	const w, h = 24.0, 12.0
	pct := map[string]float64{"0%": 0, "-50%": -0.5, "-100%": -1}

	for _, p := range Points() {
		c := Calculate(fixture, p, Offset{}, Fixed, Scroll{})
		boxLeft := c.Left + pct[c.Translate.X]*w
		boxTop := c.Top + pct[c.Translate.Y]*h
		box := NewRect(boxLeft, boxTop, w, h)

		switch p {
		case TopRight:
			if box.Right != fixture.Right || box.Bottom != fixture.Top {
				t.Errorf("%s: box bottom-right = (%v,%v), want (%v,%v)", p, box.Right, box.Bottom, fixture.Right, fixture.Top)
			}
		case TopLeft:
			if box.Left != fixture.Left || box.Bottom != fixture.Top {
				t.Errorf("%s: box bottom-left = (%v,%v), want (%v,%v)", p, box.Left, box.Bottom, fixture.Left, fixture.Top)
			}
		case BottomLeft:
			if box.Left != fixture.Left || box.Top != fixture.Bottom {
				t.Errorf("%s: box top-left = (%v,%v), want (%v,%v)", p, box.Left, box.Top, fixture.Left, fixture.Bottom)
			}
		case BottomRight:
			if box.Right != fixture.Right || box.Top != fixture.Bottom {
				t.Errorf("%s: box top-right = (%v,%v), want (%v,%v)", p, box.Right, box.Top, fixture.Right, fixture.Bottom)
			}
		case TopCenter, BottomCenter:
			if mid := box.Left + w/2; mid != fixture.Left+fixture.Width/2 {
				t.Errorf("%s: box centre x = %v, want %v", p, mid, fixture.Left+fixture.Width/2)
			}
		case RightCenter, LeftCenter:
			if mid := box.Top + h/2; mid != fixture.Top+fixture.Height/2 {
				t.Errorf("%s: box centre y = %v, want %v", p, mid, fixture.Top+fixture.Height/2)
			}
		}
	}
}

func TestCalculate_Strategy(t *testing.T) {
	scroll := Scroll{X: 30, Y: 400}

	abs := Calculate(fixture, TopRight, Offset{}, Absolute, scroll)
	if abs.Top != 500 || abs.Left != 180 {
		t.Errorf("absolute = %v/%v, want 500/180", abs.Top, abs.Left)
	}

	fixed := Calculate(fixture, TopRight, Offset{}, Fixed, scroll)
	if fixed.Top != 100 || fixed.Left != 150 {
		t.Errorf("fixed = %v/%v, want 100/150", fixed.Top, fixed.Left)
	}
}

func TestCalculate_Offset(t *testing.T) {
	got := Calculate(fixture, BottomCenter, Offset{X: -5, Y: 8}, Absolute, Scroll{Y: 10})
	if got.Top != 138 || got.Left != 95 {
		t.Errorf("Calculate() = %v/%v, want 138/95", got.Top, got.Left)
	}
	if got.Translate.X != "-50%" || got.Translate.Y != "0%" {
		t.Errorf("offset must not affect translate, got %v", got.Translate)
	}
}

func TestCalculate_UnknownPointFallsBack(t *testing.T) {
	got := Calculate(fixture, Point("middle"), Offset{}, Fixed, Scroll{})
	want := Calculate(fixture, TopRight, Offset{}, Fixed, Scroll{})
	if got != want {
		t.Errorf("Calculate(unknown) = %+v, want %+v", got, want)
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	for _, p := range Points() {
		a := Calculate(fixture, p, Offset{X: 1.5, Y: -2}, Absolute, Scroll{X: 3, Y: 4})
		b := Calculate(fixture, p, Offset{X: 1.5, Y: -2}, Absolute, Scroll{X: 3, Y: 4})
		if a != b {
			t.Errorf("%s: results differ: %+v vs %+v", p, a, b)
		}
	}
}

func TestPlace(t *testing.T) {
	p := Place(fixture, TopLeft, Offset{}, Fixed, Scroll{Y: 50}, 42)
	if p.Position != Fixed {
		t.Errorf("Position = %q, want %q", p.Position, Fixed)
	}
	if p.ZIndex != 42 {
		t.Errorf("ZIndex = %d, want 42", p.ZIndex)
	}
	if p.Top != 100 {
		t.Errorf("Top = %v, want 100", p.Top)
	}

	p = Place(fixture, TopLeft, Offset{}, Strategy("sticky"), Scroll{Y: 50}, 1)
	if p.Position != Absolute || p.Top != 150 {
		t.Errorf("invalid strategy should fall back to absolute, got %q top=%v", p.Position, p.Top)
	}
}

func TestTranslationCSS(t *testing.T) {
	got := Translation{X: "-50%", Y: "-100%"}.CSS()
	if got != "translate(-50%, -100%)" {
		t.Errorf("CSS() = %q", got)
	}
}

func TestNewRect(t *testing.T) {
	r := NewRect(10, 20, 30, 40)
	want := Rect{Top: 20, Left: 10, Right: 40, Bottom: 60, Width: 30, Height: 40}
	if r != want {
		t.Errorf("NewRect() = %+v, want %+v", r, want)
	}

	neg := NewRect(40, 60, -30, -40)
	if neg != want {
		t.Errorf("NewRect(negative) = %+v, want %+v", neg, want)
	}

	moved := r.Translate(-10, 5)
	if moved.Left != 0 || moved.Top != 25 || moved.Right != 30 || moved.Bottom != 65 {
		t.Errorf("Translate() = %+v", moved)
	}
	if r.IsEmpty() {
		t.Error("IsEmpty() = true for a sized rect")
	}
	if !(Rect{}).IsEmpty() {
		t.Error("IsEmpty() = false for zero rect")
	}
}

func TestInViewport(t *testing.T) {
	tests := []struct {
		rect Rect
		want bool
	}{
		{NewRect(0, 0, 10, 10), true},
		{NewRect(-1, 0, 10, 10), false},
		{NewRect(95, 0, 10, 10), false},
		{NewRect(0, 45, 10, 10), false},
	}
	for _, tt := range tests {
		if got := InViewport(tt.rect, 100, 50); got != tt.want {
			t.Errorf("InViewport(%+v) = %v, want %v", tt.rect, got, tt.want)
		}
	}
}

func TestParsePoint(t *testing.T) {
	for _, p := range Points() {
		got, err := ParsePoint(string(p))
		if err != nil || got != p {
			t.Errorf("ParsePoint(%q) = %q, %v", p, got, err)
		}
	}
	if _, err := ParsePoint("center"); !errors.Is(err, ErrUnknownPoint) {
		t.Errorf("ParsePoint(center) error = %v, want ErrUnknownPoint", err)
	}
	if len(Points()) != 8 {
		t.Errorf("Points() has %d entries, want 8", len(Points()))
	}
}

func TestParseStrategy(t *testing.T) {
	if s, err := ParseStrategy("fixed"); err != nil || s != Fixed {
		t.Errorf("ParseStrategy(fixed) = %q, %v", s, err)
	}
	if s, err := ParseStrategy("absolute"); err != nil || s != Absolute {
		t.Errorf("ParseStrategy(absolute) = %q, %v", s, err)
	}
	if _, err := ParseStrategy("sticky"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("ParseStrategy(sticky) error = %v, want ErrUnknownStrategy", err)
	}
}
