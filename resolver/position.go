package resolver

import (
	"golang.org/x/net/html"

	"github.com/wenzapen/harvest/dom"
)

// HasDescendantResolver matches when some descendant satisfies every
// sub-resolver. It extracts from the first such descendant in document
// order.
type HasDescendantResolver struct {
	base
	subs Set
}

func HasDescendant(subs Set, opts ...Option) *HasDescendantResolver {
	return &HasDescendantResolver{base: newBase(TypeHasDescendant, opts), subs: subs}
}

func (r *HasDescendantResolver) Subresolvers() Set { return r.subs }

func (r *HasDescendantResolver) find(n *html.Node) *html.Node {
	for d := range dom.Descendants(n) {
		if r.subs.ResolvesAll(d) {
			return d
		}
	}
	return nil
}

func (r *HasDescendantResolver) Resolves(n *html.Node) bool {
	return r.find(n) != nil
}

func (r *HasDescendantResolver) Resolve(n *html.Node) (any, error) {
	d := r.find(n)
	if d == nil {
		return nil, ErrNotResolved
	}
	return r.subs.Extract(d)
}

func (r *HasDescendantResolver) Debug(n *html.Node) Debug {
	d := snapshot(r, n)
	d.Subresolvers = r.subs.Debug(n)
	return d
}

// DeepestResolver matches the innermost element of a chain of matching
// elements: the element satisfies every sub-resolver and none of its
// children (or, with childrenOnly unset, none of its descendants) does.
type DeepestResolver struct {
	base
	subs         Set
	childrenOnly bool
}

func Deepest(subs Set, childrenOnly bool, opts ...Option) *DeepestResolver {
	return &DeepestResolver{base: newBase(TypeDeepest, opts), subs: subs, childrenOnly: childrenOnly}
}

func (r *DeepestResolver) Subresolvers() Set { return r.subs }

func (r *DeepestResolver) Resolves(n *html.Node) bool {
	if !r.subs.ResolvesAll(n) {
		return false
	}
	deeper := dom.Descendants(n)
	if r.childrenOnly {
		deeper = dom.Children(n)
	}
	for d := range deeper {
		if r.subs.ResolvesAll(d) {
			return false
		}
	}
	return true
}

func (r *DeepestResolver) Resolve(n *html.Node) (any, error) {
	return r.subs.Extract(n)
}

func (r *DeepestResolver) Debug(n *html.Node) Debug {
	d := snapshot(r, n)
	d.Subresolvers = r.subs.Debug(n)
	d.Params = map[string]any{"children_only": r.childrenOnly}
	return d
}

// ShallowestResolver matches the outermost element of a chain of matching
// elements: the element satisfies every sub-resolver and its parent (or,
// with parentOnly unset, every ancestor) does not. The root has no parent
// and is always eligible.
type ShallowestResolver struct {
	base
	subs       Set
	parentOnly bool
}

func Shallowest(subs Set, parentOnly bool, opts ...Option) *ShallowestResolver {
	return &ShallowestResolver{base: newBase(TypeShallowest, opts), subs: subs, parentOnly: parentOnly}
}

func (r *ShallowestResolver) Subresolvers() Set { return r.subs }

func (r *ShallowestResolver) Resolves(n *html.Node) bool {
	if !r.subs.ResolvesAll(n) {
		return false
	}
	if r.parentOnly {
		p := dom.Parent(n)
		return p == nil || !r.subs.ResolvesAll(p)
	}
	for a := range dom.Ancestors(n) {
		if r.subs.ResolvesAll(a) {
			return false
		}
	}
	return true
}

func (r *ShallowestResolver) Resolve(n *html.Node) (any, error) {
	return r.subs.Extract(n)
}

func (r *ShallowestResolver) Debug(n *html.Node) Debug {
	d := snapshot(r, n)
	d.Subresolvers = r.subs.Debug(n)
	d.Params = map[string]any{"parent_only": r.parentOnly}
	return d
}
