package view

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// TextWidth returns the number of terminal cells s occupies.
func TextWidth(s string) int {
	return uniseg.StringWidth(s)
}

// Truncate shortens s to at most width cells, ending with "…" when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}

	out := make([]byte, 0, len(s))
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width-1 {
			break
		}
		out = append(out, g.Str()...)
		used += w
	}
	return string(out) + "…"
}

// drawText writes s starting at x, y and returns the column after it.
// Text past maxX is clipped.
func drawText(s tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		w := g.Width()
		if w == 0 {
			continue
		}
		if x+w > maxX {
			break
		}
		runes := g.Runes()
		if x >= 0 {
			s.SetContent(x, y, runes[0], runes[1:], style)
		}
		x += w
	}
	return x
}
