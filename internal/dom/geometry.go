package dom

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/repere/internal/anchor"
)

// RectAttr is the attribute holding an element's page rectangle.
const RectAttr = "data-rect"

// ParseRect parses "x y width height". Commas may replace or accompany
// the spaces.
func ParseRect(s string) (anchor.Rect, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) != 4 {
		return anchor.Rect{}, fmt.Errorf("%w: %q: want 4 values, got %d", ErrInvalidRect, s, len(fields))
	}

	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(strings.TrimSuffix(f, "px"), 64)
		if err != nil {
			return anchor.Rect{}, fmt.Errorf("%w: %q: %v", ErrInvalidRect, s, err)
		}
		v[i] = n
	}
	return anchor.NewRect(v[0], v[1], v[2], v[3]), nil
}

// FormatRect renders r in the form accepted by ParseRect.
func FormatRect(r anchor.Rect) string {
	return strings.Join([]string{
		formatFloat(r.Left),
		formatFloat(r.Top),
		formatFloat(r.Width),
		formatFloat(r.Height),
	}, " ")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// attr returns the value of the named attribute.
func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, name, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: val})
}

// pageRect returns the node's declared rectangle, or an empty one.
func pageRect(n *html.Node) anchor.Rect {
	v, ok := attr(n, RectAttr)
	if !ok {
		return anchor.Rect{}
	}
	r, err := ParseRect(v)
	if err != nil {
		return anchor.Rect{}
	}
	return r
}

// hasRect reports whether the node declares a usable rectangle.
func hasRect(n *html.Node) bool {
	v, ok := attr(n, RectAttr)
	if !ok {
		return false
	}
	_, err := ParseRect(v)
	return err == nil
}
