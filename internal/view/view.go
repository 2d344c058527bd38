// Package view draws a document and its beacon markers on a terminal.
//
// Document pixels map to cells by a fixed scale: one column covers Scale
// pixels horizontally and one row covers twice that vertically. Row 0 is a
// header and the last row a status line.
package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/repere/internal/anchor"
)

// DefaultScale is the default pixels per column.
const DefaultScale = 10

const hints = "q quit  tab next  d dismiss  ↑↓ scroll"

// View renders frames onto a tcell screen.
type View struct {
	mu      sync.Mutex
	screen  tcell.Screen
	scale   float64
	palette []tcell.Color
}

// Option configures a View.
type Option func(*View)

// WithScale sets the pixels per column.
func WithScale(px float64) Option {
	return func(v *View) {
		if px > 0 {
			v.scale = px
		}
	}
}

// WithPalette sets the marker colours.
func WithPalette(colors []tcell.Color) Option {
	return func(v *View) {
		if len(colors) > 0 {
			v.palette = colors
		}
	}
}

// New creates a view over an initialised screen.
func New(screen tcell.Screen, opts ...Option) *View {
	v := &View{
		screen:  screen,
		scale:   DefaultScale,
		palette: Palette(8),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Scale returns the pixels per column.
func (v *View) Scale() float64 {
	return v.scale
}

// ToCell maps a viewport point to a screen cell.
func (v *View) ToCell(x, y float64) (col, row int) {
	return int(math.Floor(x / v.scale)), 1 + int(math.Floor(y/(2*v.scale)))
}

// ViewportSize returns the document area in pixels.
func (v *View) ViewportSize() (width, height float64) {
	w, h := v.screen.Size()
	rows := max(h-2, 0)
	return float64(w) * v.scale, float64(rows) * 2 * v.scale
}

// Draw renders f and shows the result.
func (v *View) Draw(f Frame) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.screen.Clear()
	w, h := v.screen.Size()

	v.drawHeader(f, w)
	for _, b := range f.Boxes {
		v.drawBox(b, w, h)
	}
	for i, m := range f.Markers {
		v.drawMarker(f, i, m, w, h)
	}
	v.drawStatus(f, w, h)

	v.screen.Show()
}

func (v *View) drawHeader(f Frame, w int) {
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, 0, ' ', nil, style)
	}
	text := " " + f.Title
	if f.Route != "" {
		text += "  " + f.Route
	}
	text += fmt.Sprintf("  scroll %g,%g", f.Scroll.X, f.Scroll.Y)
	drawText(v.screen, 0, 0, w, Truncate(text, w), style)
}

func (v *View) drawStatus(f Frame, w, h int) {
	if h < 2 {
		return
	}
	y := h - 1
	style := tcell.StyleDefault.Dim(true)
	x := drawText(v.screen, 0, y, w, Truncate(f.Status, w), tcell.StyleDefault)
	hw := TextWidth(hints)
	if start := w - hw; start > x+1 {
		drawText(v.screen, start, y, w, hints, style)
	}
}

// inArea reports whether row is inside the document area.
func inArea(row, h int) bool {
	return row >= 1 && row < h-1
}

func (v *View) drawBox(b Box, w, h int) {
	if b.Rect.IsEmpty() {
		return
	}
	c0, r0 := v.ToCell(b.Rect.Left, b.Rect.Top)
	c1, r1 := v.ToCell(b.Rect.Right, b.Rect.Bottom)
	c1 = max(c1, c0+1)
	r1 = max(r1, r0+1)

	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	put := func(x, y int, r rune) {
		if x >= 0 && x < w && inArea(y, h) {
			v.screen.SetContent(x, y, r, nil, style)
		}
	}

	for x := c0 + 1; x < c1; x++ {
		put(x, r0, '─')
		put(x, r1, '─')
	}
	for y := r0 + 1; y < r1; y++ {
		put(c0, y, '│')
		put(c1, y, '│')
	}
	put(c0, r0, '┌')
	put(c1, r0, '┐')
	put(c0, r1, '└')
	put(c1, r1, '┘')

	if inArea(r0, h) && b.Label != "" {
		drawText(v.screen, c0+1, r0, min(c1, w), b.Label, style)
	}
}

func (v *View) drawMarker(f Frame, i int, m Marker, w, h int) {
	p := m.Placement
	if p == nil {
		return
	}

	top, left := p.Top, p.Left
	if p.Position == anchor.Absolute {
		top -= f.Scroll.Y
		left -= f.Scroll.X
	}

	label := m.Label
	if label == "" {
		label = m.ID
	}
	badge := " " + label + " "
	bw := TextWidth(badge)

	col, row := v.ToCell(left, top)
	col += int(math.Round(percent(p.Translate.X) * float64(bw)))
	row += int(math.Floor(percent(p.Translate.Y) + 0.5))
	if !inArea(row, h) {
		return
	}

	bg := v.palette[i%len(v.palette)]
	style := tcell.StyleDefault.Background(bg).Foreground(Contrast(bg))
	if i == f.Focus {
		style = style.Bold(true).Underline(true)
	}
	drawText(v.screen, col, row, w, badge, style)
}

// percent parses a CSS percentage such as "-50%" into -0.5.
func percent(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil {
		return 0
	}
	return f / 100
}
