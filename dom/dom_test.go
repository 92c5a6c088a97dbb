package dom

import (
	"bytes"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const page = `<html><body><div id="a"><p id="b">one <b id="c">two</b> three</p><!-- note --><span id="d"></span></div></body></html>`

func ids(seq func(func(*html.Node) bool)) []string {
	var out []string
	for n := range seq {
		if id, ok := Attr(n, "id"); ok {
			out = append(out, id)
		} else {
			out = append(out, n.Data)
		}
	}
	return out
}

func byID(t *testing.T, doc *html.Node, id string) *html.Node {
	t.Helper()
	n := htmlquery.FindOne(doc, `//*[@id="`+id+`"]`)
	require.NotNil(t, n, id)
	return n
}

func TestTraversal(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)

	a := byID(t, doc, "a")
	assert.Equal(t, []string{"b", "d"}, ids(Children(a)))
	assert.Equal(t, []string{"b", "c", "d"}, ids(Descendants(a)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(All(a)))
	assert.Equal(t, []string{"html", "head", "body", "a", "b", "c", "d"}, ids(All(doc)))

	c := byID(t, doc, "c")
	assert.Equal(t, []string{"b", "a", "body", "html"}, ids(Ancestors(c)))

	root := byID(t, doc, "a").Parent.Parent
	require.Equal(t, "html", root.Data)
	assert.Nil(t, Parent(root))
}

func TestTraversalStopsEarly(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)

	var seen []string
	for n := range All(doc) {
		seen = append(seen, n.Data)
		if n.Data == "body" {
			break
		}
	}
	assert.Equal(t, []string{"html", "head", "body"}, seen)
}

func TestText(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)

	b := byID(t, doc, "b")
	assert.Equal(t, "one ", InlineText(b))
	assert.Equal(t, "", InlineText(byID(t, doc, "d")))
	assert.Equal(t, "one\ntwo\nthree", JoinTexts(Texts(b), "\n"))
	assert.Equal(t, "one two three", JoinTexts(Texts(b), " "))
}

func TestLoadDecodesCharset(t *testing.T) {
	src := `<html><head><meta charset="iso-8859-1"></head><body><p>caf` + "\xe9" + `</p></body></html>`
	doc, err := Load(bytes.NewReader([]byte(src)))
	require.NoError(t, err)

	p := htmlquery.FindOne(doc, "//p")
	require.NotNil(t, p)
	assert.Equal(t, "café", InlineText(p))
}
