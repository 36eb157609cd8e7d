// Package scrape navigates parsed HTML trees and fails explicitly when the
// expected structure is absent. Every miss produces an *Error naming the
// violated expectation, so that site layout drift shows up in error
// messages instead of silently wrong data.
package scrape

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Error is a parse failure over scraped markup.
type Error struct {
	// Expectation describes the structure that was expected but not found.
	Expectation string
	// Path is the selector path leading to the failure.
	Path string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("scrape: %s", e.Expectation)
	}
	return fmt.Sprintf("scrape: %s (at %q)", e.Expectation, e.Path)
}

func fail(path, format string, args ...any) error {
	return &Error{Expectation: fmt.Sprintf(format, args...), Path: path}
}

// Doc is a parsed HTML document.
type Doc struct {
	doc *goquery.Document
}

func Parse(r io.Reader) (*Doc, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Doc{doc: doc}, nil
}

func ParseString(s string) (*Doc, error) {
	return Parse(strings.NewReader(s))
}

// Root exposes the underlying goquery document for callers that transform
// the tree rather than extract from it.
func (d *Doc) Root() *goquery.Document {
	return d.doc
}

// Find returns the first element matching the selector, or an *Error when
// there is none.
func (d *Doc) Find(selector string) (Node, error) {
	return find(d.doc.Selection, "", selector)
}

// FindAll returns every element matching the selector, possibly none.
func (d *Doc) FindAll(selector string) []Node {
	return findAll(d.doc.Selection, "", selector)
}

// Node is a single element of a parsed document.
type Node struct {
	sel *goquery.Selection
	// path is the selector trail from the document root, kept for error
	// messages.
	path string
}

func find(sel *goquery.Selection, base, selector string) (Node, error) {
	path := joinPath(base, selector)
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return Node{}, fail(path, "element %q not found", selector)
	}
	return Node{sel: found, path: path}, nil
}

func findAll(sel *goquery.Selection, base, selector string) []Node {
	path := joinPath(base, selector)
	var nodes []Node
	sel.Find(selector).Each(func(i int, s *goquery.Selection) {
		nodes = append(nodes, Node{sel: s, path: fmt.Sprintf("%s[%d]", path, i)})
	})
	return nodes
}

func joinPath(base, selector string) string {
	if base == "" {
		return selector
	}
	return base + " " + selector
}

func (n Node) Find(selector string) (Node, error) {
	return find(n.sel, n.path, selector)
}

func (n Node) FindAll(selector string) []Node {
	return findAll(n.sel, n.path, selector)
}

// FindNth returns the i-th (0-based) element matching the selector.
func (n Node) FindNth(selector string, i int) (Node, error) {
	path := fmt.Sprintf("%s[%d]", joinPath(n.path, selector), i)
	found := n.sel.Find(selector).Eq(i)
	if found.Length() == 0 {
		return Node{}, fail(path, "element %q #%d not found", selector, i)
	}
	return Node{sel: found, path: path}, nil
}

// Attr returns the value of an attribute that must be present.
func (n Node) Attr(name string) (string, error) {
	val, ok := n.sel.Attr(name)
	if !ok {
		return "", fail(n.path, "attribute %q not found", name)
	}
	return val, nil
}

// Text returns the node's text content with surrounding whitespace
// stripped.
func (n Node) Text() string {
	return strings.TrimSpace(n.sel.Text())
}

// TextBr returns the node's text content with <br> elements rendered as
// newlines, as needed for preformatted example blocks.
func (n Node) TextBr() string {
	var b strings.Builder
	for _, root := range n.sel.Nodes {
		appendTextBr(&b, root)
	}
	return strings.TrimSpace(b.String())
}

func appendTextBr(b *strings.Builder, node *html.Node) {
	if node.Type == html.TextNode {
		b.WriteString(node.Data)
		return
	}
	if node.Type == html.ElementNode && node.Data == "br" {
		b.WriteByte('\n')
		return
	}
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		appendTextBr(b, c)
	}
}

// Child returns the i-th (0-based) child node, counting text nodes.
func (n Node) Child(i int) (Node, error) {
	path := fmt.Sprintf("%s > :nth-child(%d)", n.path, i)
	child := n.sel.Contents().Eq(i)
	if child.Length() == 0 {
		return Node{}, fail(path, "child #%d not found", i)
	}
	return Node{sel: child, path: path}, nil
}

// TextChild returns the trimmed content of the i-th (0-based) non-blank
// text node child.
func (n Node) TextChild(i int) (string, error) {
	seen := 0
	for _, root := range n.sel.Nodes {
		for c := root.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.TextNode || strings.TrimSpace(c.Data) == "" {
				continue
			}
			if seen == i {
				return strings.TrimSpace(c.Data), nil
			}
			seen++
		}
	}
	return "", fail(n.path, "text child #%d not found", i)
}

// Fail reports a parse failure at this node's position, for callers whose
// expectation spans more than one lookup.
func (n Node) Fail(format string, args ...any) error {
	return fail(n.path, format, args...)
}
