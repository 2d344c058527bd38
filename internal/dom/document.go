package dom

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/dshills/repere/internal/anchor"
	"github.com/dshills/repere/internal/host"
	"github.com/dshills/repere/internal/logging"
)

// Default viewport dimensions.
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
)

// Document is a parsed HTML document with scroll and viewport state.
type Document struct {
	mu         sync.RWMutex
	root       *html.Node
	elements   map[*html.Node]*Element
	scroll     anchor.Scroll
	containers map[*html.Node]anchor.Scroll
	width      float64
	height     float64

	lmu       sync.Mutex
	nextID    int
	scrolls   map[int]func()
	resizes   map[int]func()
	mutations map[int]func()
	observers map[int]*resizeObserver

	log *logging.Logger
}

// Option configures a Document.
type Option func(*Document)

// WithViewport sets the initial viewport size.
func WithViewport(width, height float64) Option {
	return func(d *Document) {
		if width > 0 {
			d.width = width
		}
		if height > 0 {
			d.height = height
		}
	}
}

// WithLogger sets the document logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.log = l
		}
	}
}

// Parse reads an HTML document from r.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	d := &Document{
		root:       root,
		elements:   make(map[*html.Node]*Element),
		containers: make(map[*html.Node]anchor.Scroll),
		width:      DefaultViewportWidth,
		height:     DefaultViewportHeight,
		scrolls:    make(map[int]func()),
		resizes:    make(map[int]func()),
		mutations:  make(map[int]func()),
		observers:  make(map[int]*resizeObserver),
		log:        logging.Null(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// ParseString parses an HTML document held in s.
func ParseString(s string, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(s), opts...)
}

// ParseFile parses the HTML document at path.
func ParseFile(path string, opts ...Option) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	return Parse(f, opts...)
}

// Replace swaps in a freshly parsed tree and notifies mutation observers.
// The window scroll offset and viewport survive; container offsets do not.
func (d *Document) Replace(r io.Reader) error {
	root, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}

	d.mu.Lock()
	d.root = root
	d.elements = make(map[*html.Node]*Element)
	d.containers = make(map[*html.Node]anchor.Scroll)
	d.mu.Unlock()

	d.log.Debug("document replaced")
	d.notify(d.mutations)
	return nil
}

// Query implements host.Document.
func (d *Document) Query(selector string) (host.Element, bool) {
	el := d.Find(selector)
	if el == nil {
		return nil, false
	}
	return el, true
}

// Find returns the first element matching selector, or nil.
func (d *Document) Find(selector string) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := queryFirst(d.root, selector)
	if n == nil {
		return nil
	}
	return d.wrap(n)
}

// FindAll returns every element matching selector in document order.
func (d *Document) FindAll(selector string) []*Element {
	d.mu.Lock()
	defer d.mu.Unlock()

	nodes := queryAll(d.root, selector)
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out
}

// Elements returns every element that declares a rectangle, in document
// order.
func (d *Document) Elements() []*Element {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []*Element
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasRect(n) {
			out = append(out, d.wrap(n))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return out
}

// Title returns the text of the document's title element.
func (d *Document) Title() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	n := queryFirst(d.root, "title")
	if n == nil {
		return ""
	}
	return textOf(n)
}

// wrap returns the cached Element for n. Callers hold d.mu for writing.
func (d *Document) wrap(n *html.Node) *Element {
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n}
	d.elements[n] = el
	return el
}

// ScrollOffset implements host.Window.
func (d *Document) ScrollOffset() anchor.Scroll {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.scroll
}

// ScrollTo sets the window scroll offset. Negative values clamp to zero.
func (d *Document) ScrollTo(x, y float64) {
	d.mu.Lock()
	d.scroll = anchor.Scroll{X: max(x, 0), Y: max(y, 0)}
	d.mu.Unlock()

	d.notify(d.scrolls)
}

// ScrollBy moves the window scroll offset by dx, dy.
func (d *Document) ScrollBy(dx, dy float64) {
	d.mu.Lock()
	d.scroll = anchor.Scroll{X: max(d.scroll.X+dx, 0), Y: max(d.scroll.Y+dy, 0)}
	d.mu.Unlock()

	d.notify(d.scrolls)
}

// ScrollElement sets the scroll offset of the container matching selector.
// Descendants of the container move by the opposite amount.
func (d *Document) ScrollElement(selector string, x, y float64) error {
	d.mu.Lock()
	n := queryFirst(d.root, selector)
	if n == nil {
		d.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, selector)
	}
	d.containers[n] = anchor.Scroll{X: max(x, 0), Y: max(y, 0)}
	d.mu.Unlock()

	d.notify(d.scrolls)
	return nil
}

// ContainerScroll returns the scroll offset of the container matching
// selector.
func (d *Document) ContainerScroll(selector string) (anchor.Scroll, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	n := queryFirst(d.root, selector)
	if n == nil {
		return anchor.Scroll{}, fmt.Errorf("%w: %s", ErrNotFound, selector)
	}
	return d.containers[n], nil
}

// Viewport returns the viewport size.
func (d *Document) Viewport() (width, height float64) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.width, d.height
}

// Resize changes the viewport size and notifies resize listeners.
func (d *Document) Resize(width, height float64) {
	d.mu.Lock()
	d.width = max(width, 0)
	d.height = max(height, 0)
	d.mu.Unlock()

	d.notify(d.resizes)
}

// Append parses fragment in the context of the element matching
// parentSelector and appends the result to it.
func (d *Document) Append(parentSelector, fragment string) error {
	d.mu.Lock()
	parent := queryFirst(d.root, parentSelector)
	if parent == nil {
		d.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, parentSelector)
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), parent)
	if err != nil {
		d.mu.Unlock()
		return fmt.Errorf("parse fragment: %w", err)
	}
	if len(nodes) == 0 {
		d.mu.Unlock()
		return nil
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	d.mu.Unlock()

	d.log.Debug("appended %d nodes to %s", len(nodes), parentSelector)
	d.notify(d.mutations)
	return nil
}

// Remove detaches the first element matching selector.
func (d *Document) Remove(selector string) error {
	d.mu.Lock()
	n := queryFirst(d.root, selector)
	if n == nil || n.Parent == nil {
		d.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, selector)
	}
	n.Parent.RemoveChild(n)
	d.forget(n)
	d.mu.Unlock()

	d.log.Debug("removed %s", selector)
	d.notify(d.mutations)
	return nil
}

// forget drops container state for a detached subtree. Element wrappers
// stay cached so held references keep reporting the last geometry.
func (d *Document) forget(n *html.Node) {
	delete(d.containers, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.forget(c)
	}
}

// SetRect changes the page rectangle of the element matching selector and
// notifies resize observers watching it.
func (d *Document) SetRect(selector string, r anchor.Rect) error {
	d.mu.Lock()
	n := queryFirst(d.root, selector)
	if n == nil {
		d.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, selector)
	}
	setAttr(n, RectAttr, FormatRect(r))
	el := d.wrap(n)
	d.mu.Unlock()

	d.notifyResized(el)
	return nil
}

// viewportRect translates the node's page rectangle by the window scroll
// and the scroll of every ancestor container. Callers hold d.mu.
func (d *Document) viewportRect(n *html.Node) anchor.Rect {
	r := pageRect(n)
	dx, dy := d.scroll.X, d.scroll.Y
	for p := n.Parent; p != nil; p = p.Parent {
		if s, ok := d.containers[p]; ok {
			dx += s.X
			dy += s.Y
		}
	}
	return r.Translate(-dx, -dy)
}

// attached reports whether n is still part of the current tree.
// Callers hold d.mu.
func (d *Document) attached(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}
