package view

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette returns n evenly spaced, equally bright marker colours.
func Palette(n int) []tcell.Color {
	if n <= 0 {
		return nil
	}
	out := make([]tcell.Color, n)
	for i := range out {
		hue := float64(i) * 360 / float64(n)
		c := colorful.Hcl(hue, 0.6, 0.7).Clamped()
		r, g, b := c.RGB255()
		out[i] = tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	return out
}

// Contrast returns black or white, whichever reads better on bg.
func Contrast(bg tcell.Color) tcell.Color {
	r, g, b := bg.RGB()
	if r < 0 {
		return tcell.ColorWhite
	}
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return tcell.ColorBlack
	}
	return tcell.ColorWhite
}
