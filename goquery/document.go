// Package goquery implements postpdf.Node over a parsed page snapshot.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/postpdf"
)

// Ensure Parser implements postpdf.DocumentParser at compile time.
var _ postpdf.DocumentParser = (*Parser)(nil)

// Ensure Node implements postpdf.Node at compile time.
var _ postpdf.Node = (*Node)(nil)

// Parser parses page snapshots with goquery.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses the snapshot HTML. Relative src and href attributes are
// resolved against the snapshot URL.
func (p *Parser) Parse(s *postpdf.Snapshot) (postpdf.Node, error) {
	if s == nil || strings.TrimSpace(s.HTML) == "" {
		return nil, postpdf.Errorf(postpdf.EINVALID, "empty HTML input")
	}
	return ParseHTML(s.HTML, s.URL)
}

// ParseHTML parses html as a document located at pageURL.
func ParseHTML(html string, pageURL string) (*Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, postpdf.Errorf(postpdf.EINVALID, "failed to parse HTML: %v", err)
	}

	var base *url.URL
	if pageURL != "" {
		base, err = url.Parse(pageURL)
		if err != nil {
			return nil, postpdf.Errorf(postpdf.EINVALID, "invalid page URL: %v", err)
		}
	}

	return &Node{sel: doc.Selection, base: base}, nil
}

// Node wraps a goquery selection of a single element or document.
type Node struct {
	sel  *goquery.Selection
	base *url.URL
}

// Find returns descendants matching selector in document order.
func (n *Node) Find(selector string) []postpdf.Node {
	var nodes []postpdf.Node
	n.sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &Node{sel: s, base: n.base})
	})
	return nodes
}

// Attr returns an attribute value. URL attributes are resolved.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.sel.Attr(name)
	if !ok {
		return "", false
	}
	if name == "src" || name == "href" {
		return resolveURL(n.base, v), true
	}
	return v, true
}

// Text returns an approximation of the element's innerText.
func (n *Node) Text() string {
	return innerText(n.sel.Nodes...)
}

// InnerHTML returns the markup of the node's children.
func (n *Node) InnerHTML() (string, error) {
	return n.sel.Html()
}

// Without returns a detached copy of the node with matching descendants removed.
func (n *Node) Without(selector string) postpdf.Node {
	clone := n.sel.Clone()
	clone.Find(selector).Remove()
	return &Node{sel: clone, base: n.base}
}

// resolveURL resolves a reference against base. Unparseable references
// are returned unchanged.
func resolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if base == nil || ref == "" {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
