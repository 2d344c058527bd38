package dom

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/repere/internal/anchor"
)

// Element wraps a node of a Document. A Document hands out one Element
// per node, so pointers compare equal for the same node.
type Element struct {
	doc  *Document
	node *html.Node
}

// BoundingRect implements host.Element. The rectangle is relative to the
// viewport.
func (e *Element) BoundingRect() anchor.Rect {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.doc.viewportRect(e.node)
}

// PageRect returns the declared rectangle without scroll adjustment.
func (e *Element) PageRect() anchor.Rect {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return pageRect(e.node)
}

// Tag returns the element name.
func (e *Element) Tag() string {
	return e.node.Data
}

// ID returns the id attribute, if any.
func (e *Element) ID() string {
	v, _ := e.Attr("id")
	return v
}

// Attr returns the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return attr(e.node, name)
}

// Text returns the concatenated, whitespace-collapsed text content.
func (e *Element) Text() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return textOf(e.node)
}

// Connected reports whether the element is still in the document.
func (e *Element) Connected() bool {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.doc.attached(e.node)
}

// Label returns a short description such as "button#save".
func (e *Element) Label() string {
	if id := e.ID(); id != "" {
		return e.Tag() + "#" + id
	}
	return e.Tag()
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
