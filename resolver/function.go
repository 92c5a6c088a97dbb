package resolver

import (
	"reflect"
	"runtime"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/wenzapen/harvest/dom"
)

// Func extracts a value from an element. A nil value means no match.
type Func func(n *html.Node) (any, error)

// FunctionResolver wraps a caller supplied Func.
//
// Resolves treats any failure of the function, an error or a panic, as a
// non-match. Resolve does not: the error is returned and a panic propagates.
type FunctionResolver struct {
	base
	fn   Func
	name string
}

func Function(fn Func, opts ...Option) *FunctionResolver {
	return &FunctionResolver{
		base: newBase(TypeFunction, opts),
		fn:   fn,
		name: funcName(fn),
	}
}

func funcName(fn Func) string {
	if fn == nil {
		return ""
	}
	if f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()); f != nil {
		return f.Name()
	}
	return ""
}

// Name is the qualified name of the wrapped function.
func (r *FunctionResolver) Name() string {
	return r.name
}

func (r *FunctionResolver) Resolves(n *html.Node) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	v, err := r.fn(n)
	return err == nil && v != nil
}

func (r *FunctionResolver) Resolve(n *html.Node) (any, error) {
	return r.fn(n)
}

func (r *FunctionResolver) Debug(n *html.Node) Debug {
	d := snapshot(r, n)
	d.Params = map[string]any{"function_name": r.name}
	return d
}

// DateFunc parses the element's trimmed inline text with a time layout.
func DateFunc(layout string) Func {
	return func(n *html.Node) (any, error) {
		t, err := time.Parse(layout, strings.TrimSpace(dom.InlineText(n)))
		if err != nil {
			return nil, err
		}
		return t, nil
	}
}

// ISODateFunc is DateFunc formatted as RFC 3339.
func ISODateFunc(layout string) Func {
	parse := DateFunc(layout)
	return func(n *html.Node) (any, error) {
		v, err := parse(n)
		if err != nil {
			return nil, err
		}
		return v.(time.Time).Format(time.RFC3339), nil
	}
}

func Date(layout string, iso bool, opts ...Option) *FunctionResolver {
	if iso {
		return Function(ISODateFunc(layout), opts...)
	}
	return Function(DateFunc(layout), opts...)
}

// MultiDate tries several layouts, keyed by layout. With exclusive set,
// exactly one layout must parse and its value is returned as is; otherwise
// every parsing layout is reported.
func MultiDate(layouts []string, iso, exclusive bool, opts ...Option) Resolver {
	subs := make(Set, 0, len(layouts))
	for _, layout := range layouts {
		subs = append(subs, Field(layout, Date(layout, iso)))
	}
	if exclusive {
		return One(subs, opts...)
	}
	return Any(subs, opts...)
}
