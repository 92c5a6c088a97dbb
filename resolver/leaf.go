package resolver

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"

	"github.com/wenzapen/harvest/dom"
)

var (
	linkExpr           = xpath.MustCompile(`self::*[starts-with(@href, 'http://') or starts-with(@href, 'https://')]`)
	linkOrFragmentExpr = xpath.MustCompile(`self::*[starts-with(@href, '/') or starts-with(@href, 'http://') or starts-with(@href, 'https://')]`)
)

// LinkResolver matches an element whose href is an absolute http(s) URL or,
// when fragments are allowed, a site-relative path. It yields
// {"url": href, "text": inline text}.
type LinkResolver struct {
	base
	expr      *xpath.Expr
	fragments bool
}

func Link(opts ...Option) *LinkResolver {
	return &LinkResolver{base: newBase(TypeLink, opts), expr: linkExpr}
}

// LinkOrFragment also accepts site-relative hrefs. When the element has no
// inline text the text of all its descendants is used.
func LinkOrFragment(opts ...Option) *LinkResolver {
	return &LinkResolver{base: newBase(TypeLinkOrFragment, opts), expr: linkOrFragmentExpr, fragments: true}
}

func (r *LinkResolver) first(n *html.Node) *html.Node {
	return htmlquery.QuerySelector(n, r.expr)
}

func (r *LinkResolver) Resolves(n *html.Node) bool {
	return r.first(n) != nil
}

func (r *LinkResolver) Resolve(n *html.Node) (any, error) {
	link := r.first(n)
	if link == nil {
		return nil, ErrNotResolved
	}
	text := strings.TrimSpace(dom.InlineText(link))
	if text == "" && r.fragments {
		text = strings.TrimSpace(dom.JoinTexts(dom.Texts(link), " "))
	}
	return Record{
		"url":  htmlquery.SelectAttr(link, "href"),
		"text": text,
	}, nil
}

func (r *LinkResolver) Debug(n *html.Node) Debug {
	return snapshot(r, n)
}

// TextResolver matches an element with any non-blank text below it and
// yields {"text": ...}, one trimmed line per text node.
type TextResolver struct {
	base
}

func Text(opts ...Option) *TextResolver {
	return &TextResolver{base: newBase(TypeText, opts)}
}

func (r *TextResolver) text(n *html.Node) string {
	return strings.TrimSpace(dom.JoinTexts(dom.Texts(n), "\n"))
}

func (r *TextResolver) Resolves(n *html.Node) bool {
	return r.text(n) != ""
}

func (r *TextResolver) Resolve(n *html.Node) (any, error) {
	return Record{"text": r.text(n)}, nil
}

func (r *TextResolver) Debug(n *html.Node) Debug {
	return snapshot(r, n)
}

// XPathResolver evaluates a query relative to the element. Node-set results
// are returned as []*html.Node; numbers, strings and booleans as they come.
// An empty node-set does not match.
type XPathResolver struct {
	base
	expr *xpath.Expr
}

func XPath(query string, opts ...Option) (*XPathResolver, error) {
	expr, err := xpath.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("compile xpath %q: %w", query, err)
	}
	return &XPathResolver{base: newBase(TypeXPath, opts), expr: expr}, nil
}

func MustXPath(query string, opts ...Option) *XPathResolver {
	r, err := XPath(query, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *XPathResolver) Query() string {
	return r.expr.String()
}

func (r *XPathResolver) evaluate(n *html.Node) any {
	v := r.expr.Evaluate(htmlquery.CreateXPathNavigator(n))
	it, ok := v.(*xpath.NodeIterator)
	if !ok {
		return v
	}
	var nodes []*html.Node
	for it.MoveNext() {
		nav := it.Current().(*htmlquery.NodeNavigator)
		if nav.NodeType() == xpath.AttributeNode {
			// attribute values come back as a detached text node
			nodes = append(nodes, &html.Node{Type: html.TextNode, Data: nav.Value()})
			continue
		}
		nodes = append(nodes, nav.Current())
	}
	return nodes
}

func (r *XPathResolver) Resolves(n *html.Node) bool {
	return present(r.evaluate(n))
}

func (r *XPathResolver) Resolve(n *html.Node) (any, error) {
	v := r.evaluate(n)
	if !present(v) {
		return nil, ErrNotResolved
	}
	return v, nil
}

func present(v any) bool {
	if nodes, ok := v.([]*html.Node); ok {
		return len(nodes) > 0
	}
	return v != nil
}

func (r *XPathResolver) Debug(n *html.Node) Debug {
	d := snapshot(r, n)
	d.Params = map[string]any{"query": r.Query()}
	return d
}
