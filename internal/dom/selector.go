package dom

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// IsXPath reports whether selector is evaluated as XPath.
func IsXPath(selector string) bool {
	s := strings.TrimSpace(selector)
	return strings.HasPrefix(s, "/") || strings.HasPrefix(s, "(")
}

// ValidSelector reports whether selector compiles.
func ValidSelector(selector string) bool {
	if strings.TrimSpace(selector) == "" {
		return false
	}
	if IsXPath(selector) {
		_, err := htmlquery.QueryAll(&html.Node{Type: html.DocumentNode}, selector)
		return err == nil
	}
	_, err := cascadia.ParseGroup(selector)
	return err == nil
}

// queryFirst returns the first element below root matching selector.
func queryFirst(root *html.Node, selector string) *html.Node {
	if root == nil || strings.TrimSpace(selector) == "" {
		return nil
	}
	if IsXPath(selector) {
		nodes := queryXPath(root, selector)
		if len(nodes) == 0 {
			return nil
		}
		return nodes[0]
	}
	group, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil
	}
	return cascadia.Query(root, group)
}

// queryAll returns every element below root matching selector in
// document order.
func queryAll(root *html.Node, selector string) []*html.Node {
	if root == nil || strings.TrimSpace(selector) == "" {
		return nil
	}
	if IsXPath(selector) {
		return queryXPath(root, selector)
	}
	group, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil
	}
	return cascadia.QueryAll(root, group)
}

// queryXPath keeps only elements attached to the tree. Expressions may
// select text or attribute nodes, which htmlquery returns as detached
// stand-ins.
func queryXPath(root *html.Node, expr string) []*html.Node {
	nodes, err := htmlquery.QueryAll(root, expr)
	if err != nil {
		return nil
	}
	out := nodes[:0]
	for _, n := range nodes {
		if n.Type == html.ElementNode && n.Parent != nil {
			out = append(out, n)
		}
	}
	return out
}
