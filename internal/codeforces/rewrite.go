package codeforces

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ojtool/internal/scrape"
)

// statementContainer is the element the statement fragment lives in;
// everything outside it is noise from the hosting page.
const statementContainer = ".problem-statement"

// rewriteRule is one step of the statement rewrite pipeline. Rules run in
// a fixed order over the parsed page; the fragment is rendered only after
// every rule has been applied.
type rewriteRule struct {
	name  string
	apply func(doc *goquery.Document, base string) error
}

// statementRewrite prepares a statement page for display outside its
// original context: strip the hosting page around the statement container,
// relax the embedded-content security policy, absolutize every relative or
// protocol-relative URL, and override two page styles that assume the full
// site layout.
var statementRewrite = []rewriteRule{
	{"strip-to-container", stripToContainer},
	{"relax-csp", relaxCSP},
	{"absolutize-urls", absolutizeURLs},
	{"override-page-styles", overridePageStyles},
}

func rewriteStatement(sdoc *scrape.Doc, base string) (string, error) {
	doc := sdoc.Root()
	for _, rule := range statementRewrite {
		if err := rule.apply(doc, base); err != nil {
			return "", fmt.Errorf("rewrite statement (%s): %w", rule.name, err)
		}
	}
	html, err := goquery.OuterHtml(doc.Find("html"))
	if err != nil {
		return "", fmt.Errorf("render statement: %w", err)
	}
	return "<!DOCTYPE html>\n" + html, nil
}

// stripToContainer removes every body subtree that neither contains nor
// belongs to the statement container, climbing from the container up to
// the body.
func stripToContainer(doc *goquery.Document, _ string) error {
	container := doc.Find(statementContainer).First()
	if container.Length() == 0 {
		return &scrape.Error{Expectation: fmt.Sprintf("statement container %q", statementContainer)}
	}
	for cur := container; ; {
		parent := cur.Parent()
		if parent.Length() == 0 {
			break
		}
		keep := cur.Nodes[0]
		parent.Children().Each(func(_ int, s *goquery.Selection) {
			if s.Nodes[0] != keep {
				s.Remove()
			}
		})
		if goquery.NodeName(parent) == "body" {
			break
		}
		cur = parent
	}
	return nil
}

// relaxCSP drops the page's Content-Security-Policy meta and installs a
// permissive one, so images and styles referenced by the fragment load in
// an embedded viewer.
func relaxCSP(doc *goquery.Document, _ string) error {
	doc.Find(`meta[http-equiv="Content-Security-Policy"]`).Remove()
	doc.Find("head").First().AppendHtml(
		`<meta http-equiv="Content-Security-Policy" content="default-src * 'unsafe-inline' 'unsafe-eval' data: blob:;">`)
	return nil
}

// absolutizeURLs rewrites protocol-relative ("//...") and site-relative
// ("/...") href and src attributes to fully-qualified HTTPS form.
func absolutizeURLs(doc *goquery.Document, base string) error {
	doc.Find("[href], [src]").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"href", "src"} {
			val, ok := s.Attr(attr)
			if !ok {
				continue
			}
			switch {
			case strings.HasPrefix(val, "//"):
				s.SetAttr(attr, "https:"+val)
			case strings.HasPrefix(val, "/"):
				s.SetAttr(attr, base+val)
			}
		}
	})
	return nil
}

// overridePageStyles injects two scoped style overrides; the original page
// styles assume the full site chrome is present.
func overridePageStyles(doc *goquery.Document, _ string) error {
	appendStyle(doc.Find("#body"), "min-width: unset !important;")
	appendStyle(doc.Find("#pageContent"), "margin-right: 1em !important;")
	return nil
}

func appendStyle(sel *goquery.Selection, style string) {
	sel.Each(func(_ int, s *goquery.Selection) {
		merged := style
		if existing, ok := s.Attr("style"); ok && existing != "" {
			merged = strings.TrimRight(existing, "; ") + "; " + style
		}
		s.SetAttr("style", merged)
	})
}
