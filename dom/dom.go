// Package dom is the node layer the resolvers run on. It walks element
// nodes of a golang.org/x/net/html tree and collects their text.
package dom

import (
	"iter"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// Parent returns the parent element, or nil when the parent is absent or is
// not an element (the document node).
func Parent(n *html.Node) *html.Node {
	if n == nil || !IsElement(n.Parent) {
		return nil
	}
	return n.Parent
}

// Children yields the element children of n, left to right.
func Children(n *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		if n == nil {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !IsElement(c) {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

// Descendants yields the element descendants of n in document order,
// excluding n itself.
func Descendants(n *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		if n == nil {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c, yield) {
				return
			}
		}
	}
}

// All yields n (when it is an element) followed by its element descendants
// in document order.
func All(n *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		if n == nil {
			return
		}
		walk(n, yield)
	}
}

func walk(n *html.Node, yield func(*html.Node) bool) bool {
	if IsElement(n) && !yield(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, yield) {
			return false
		}
	}
	return true
}

// Ancestors yields the element ancestors of n, nearest first.
func Ancestors(n *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		for p := Parent(n); p != nil; p = Parent(p) {
			if !yield(p) {
				return
			}
		}
	}
}

// Attr returns the value of the named attribute and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// InlineText is the text that directly follows the opening tag of n, before
// its first child element or comment.
func InlineText(n *html.Node) string {
	if n == nil || n.FirstChild == nil || n.FirstChild.Type != html.TextNode {
		return ""
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil && c.Type == html.TextNode; c = c.NextSibling {
		sb.WriteString(c.Data)
	}
	return sb.String()
}

// Texts returns every text node below n in document order.
func Texts(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	return htmlquery.QuerySelectorAll(n, textExpr)
}

var textExpr = xpath.MustCompile(".//text()")

// JoinTexts trims every text node and joins them with sep.
// Empty pieces are kept, so whitespace-only nodes show up as blank lines
// when sep is a newline.
func JoinTexts(texts []*html.Node, sep string) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, strings.TrimSpace(t.Data))
	}
	return strings.Join(parts, sep)
}
