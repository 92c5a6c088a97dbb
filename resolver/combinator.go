package resolver

import (
	"golang.org/x/net/html"
)

// AllResolver matches when every sub-resolver matches. Its record holds
// every included sub-resolver.
type AllResolver struct {
	base
	subs Set
}

func All(subs Set, opts ...Option) *AllResolver {
	return &AllResolver{base: newBase(TypeAll, opts), subs: subs}
}

func (r *AllResolver) Subresolvers() Set { return r.subs }

func (r *AllResolver) Resolves(n *html.Node) bool {
	return r.subs.ResolvesAll(n)
}

func (r *AllResolver) Resolve(n *html.Node) (any, error) {
	return r.subs.Extract(n)
}

func (r *AllResolver) Debug(n *html.Node) Debug {
	d := snapshot(r, n)
	d.Subresolvers = r.subs.Debug(n)
	return d
}

// AnyResolver matches when at least one sub-resolver matches. Its record
// holds only the included sub-resolvers that matched, so the keys vary
// from element to element.
type AnyResolver struct {
	base
	subs Set
}

func Any(subs Set, opts ...Option) *AnyResolver {
	return &AnyResolver{base: newBase(TypeAny, opts), subs: subs}
}

func (r *AnyResolver) Subresolvers() Set { return r.subs }

func (r *AnyResolver) Resolves(n *html.Node) bool {
	return r.subs.resolvesAny(n)
}

func (r *AnyResolver) Resolve(n *html.Node) (any, error) {
	return r.subs.extractMatching(n)
}

func (r *AnyResolver) Debug(n *html.Node) Debug {
	d := snapshot(r, n)
	d.Subresolvers = r.subs.Debug(n)
	return d
}

// OneResolver matches when exactly one sub-resolver matches and yields that
// sub-resolver's value unwrapped.
type OneResolver struct {
	base
	subs Set
}

func One(subs Set, opts ...Option) *OneResolver {
	return &OneResolver{base: newBase(TypeOne, opts), subs: subs}
}

func (r *OneResolver) Subresolvers() Set { return r.subs }

func (r *OneResolver) Resolves(n *html.Node) bool {
	count := 0
	for _, f := range r.subs {
		if f.Resolver.Resolves(n) {
			count++
			if count > 1 {
				return false
			}
		}
	}
	return count == 1
}

// Resolve returns nil when the matching sub-resolver is not included.
func (r *OneResolver) Resolve(n *html.Node) (any, error) {
	for _, f := range r.subs {
		if !f.Resolver.Resolves(n) {
			continue
		}
		if !f.Resolver.Include() {
			return nil, nil
		}
		return f.Resolver.Resolve(n)
	}
	return nil, ErrNotResolved
}

func (r *OneResolver) Debug(n *html.Node) Debug {
	d := snapshot(r, n)
	d.Subresolvers = r.subs.Debug(n)
	return d
}

// NoneResolver is a filter: it matches when no sub-resolver matches and
// never yields data.
type NoneResolver struct {
	subs Set
}

func None(subs Set) *NoneResolver {
	return &NoneResolver{subs: subs}
}

func (r *NoneResolver) Subresolvers() Set { return r.subs }

func (r *NoneResolver) Include() bool { return false }

func (r *NoneResolver) Type() Type { return TypeNone }

func (r *NoneResolver) Resolves(n *html.Node) bool {
	return !r.subs.resolvesAny(n)
}

func (r *NoneResolver) Resolve(*html.Node) (any, error) {
	return nil, nil
}

func (r *NoneResolver) Debug(n *html.Node) Debug {
	d := snapshot(r, n)
	d.Subresolvers = r.subs.Debug(n)
	return d
}

// OptionalResolver always matches and yields whatever its included
// sub-resolvers can extract.
type OptionalResolver struct {
	base
	subs Set
}

func Optional(subs Set, opts ...Option) *OptionalResolver {
	return &OptionalResolver{base: newBase(TypeOptional, opts), subs: subs}
}

func (r *OptionalResolver) Subresolvers() Set { return r.subs }

func (r *OptionalResolver) Resolves(*html.Node) bool {
	return true
}

func (r *OptionalResolver) Resolve(n *html.Node) (any, error) {
	return r.subs.extractMatching(n)
}

func (r *OptionalResolver) Debug(n *html.Node) Debug {
	d := snapshot(r, n)
	d.Subresolvers = r.subs.Debug(n)
	return d
}

// InverseResolver is a filter matching exactly where the wrapped resolver
// does not.
type InverseResolver struct {
	of Resolver
}

func Inverse(of Resolver) *InverseResolver {
	return &InverseResolver{of: of}
}

func (r *InverseResolver) Subresolvers() Set {
	return Set{Field("inverse_of", r.of)}
}

func (r *InverseResolver) Include() bool { return false }

func (r *InverseResolver) Type() Type { return TypeInverse }

func (r *InverseResolver) Resolves(n *html.Node) bool {
	return !r.of.Resolves(n)
}

func (r *InverseResolver) Resolve(*html.Node) (any, error) {
	return nil, nil
}

func (r *InverseResolver) Debug(n *html.Node) Debug {
	d := snapshot(r, n)
	of := r.of.Debug(n)
	d.InverseOf = &of
	return d
}
