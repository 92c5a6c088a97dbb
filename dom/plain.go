package dom

import (
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Plain replaces nodes inside an extracted value with their markup (text
// nodes with their text) so the value can be encoded. Node trees link back to
// their parents and cannot be marshalled as they are.
func Plain(v any) any {
	switch v := v.(type) {
	case *html.Node:
		if v == nil {
			return nil
		}
		if v.Type == html.TextNode {
			return v.Data
		}
		return htmlquery.OutputHTML(v, true)
	case []*html.Node:
		out := make([]any, 0, len(v))
		for _, n := range v {
			out = append(out, Plain(n))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = Plain(e)
		}
		return out
	case []any:
		out := make([]any, 0, len(v))
		for _, e := range v {
			out = append(out, Plain(e))
		}
		return out
	default:
		return v
	}
}
