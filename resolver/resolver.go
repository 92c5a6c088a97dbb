// Package resolver holds the matching and extraction rules. A resolver
// decides whether an element matches (Resolves) and what it yields
// (Resolve). Combinators compose ordered, named sets of resolvers into rule
// trees.
//
// Resolve is only defined for an element on which Resolves returned true.
// Combinators keep that ordering for their sub-resolvers; callers of a top
// level resolver must do the same.
package resolver

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/net/html"

	"github.com/wenzapen/harvest/dom"
)

// ErrNotResolved is returned by Resolve when it is called on an element the
// resolver does not match and there is nothing to extract.
var ErrNotResolved = errors.New("resolver does not resolve element")

type Type string

const (
	TypeLink           Type = "link"
	TypeLinkOrFragment Type = "link_or_fragment"
	TypeText           Type = "text"
	TypeXPath          Type = "xpath"
	TypeFunction       Type = "function"
	TypeAll            Type = "all"
	TypeAny            Type = "any"
	TypeOne            Type = "one"
	TypeNone           Type = "none"
	TypeOptional       Type = "optional"
	TypeInverse        Type = "inverse"
	TypeHasDescendant  Type = "has_descendant"
	TypeDeepest        Type = "deepest"
	TypeShallowest     Type = "shallowest"
)

type Resolver interface {
	// Resolves reports whether the element matches. It has no side effects
	// and may be called any number of times.
	Resolves(n *html.Node) bool
	// Resolve extracts the value of a matching element.
	Resolve(n *html.Node) (any, error)
	// Include reports whether the value shows up in the parent's record.
	Include() bool
	Type() Type
	Debug(n *html.Node) Debug
}

// Record is the nested output of a combinator: resolver name to value.
type Record = map[string]any

type Named struct {
	Name     string
	Resolver Resolver
}

func Field(name string, r Resolver) Named {
	return Named{Name: name, Resolver: r}
}

// Set is an ordered collection of uniquely named resolvers. Order decides
// which entry is consulted first.
type Set []Named

func NewSet(fields ...Named) Set {
	return Set(fields)
}

func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for _, f := range s {
		names = append(names, f.Name)
	}
	return names
}

func (s Set) Get(name string) (Resolver, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.Resolver, true
		}
	}
	return nil, false
}

// Validate checks the whole tree below s for empty, duplicate and nil
// entries.
func (s Set) Validate() error {
	var err error
	seen := make(map[string]struct{}, len(s))
	for i, f := range s {
		if f.Name == "" {
			err = multierr.Append(err, fmt.Errorf("resolver #%d has no name", i))
		}
		if _, ok := seen[f.Name]; ok {
			err = multierr.Append(err, fmt.Errorf("duplicate resolver name %q", f.Name))
		}
		seen[f.Name] = struct{}{}
		if f.Resolver == nil {
			err = multierr.Append(err, fmt.Errorf("resolver %q is nil", f.Name))
			continue
		}
		if p, ok := f.Resolver.(Parent); ok {
			if subErr := p.Subresolvers().Validate(); subErr != nil {
				err = multierr.Append(err, fmt.Errorf("%s: %w", f.Name, subErr))
			}
		}
	}
	return err
}

// Parent is implemented by every combinator.
type Parent interface {
	Subresolvers() Set
}

// ResolvesAll reports whether every resolver in s matches n.
func (s Set) ResolvesAll(n *html.Node) bool {
	for _, f := range s {
		if !f.Resolver.Resolves(n) {
			return false
		}
	}
	return true
}

func (s Set) resolvesAny(n *html.Node) bool {
	for _, f := range s {
		if f.Resolver.Resolves(n) {
			return true
		}
	}
	return false
}

// Extract builds the record of the included resolvers. Every resolver in s
// must match n.
func (s Set) Extract(n *html.Node) (Record, error) {
	rec := make(Record, len(s))
	for _, f := range s {
		if !f.Resolver.Include() {
			continue
		}
		v, err := f.Resolver.Resolve(n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		rec[f.Name] = v
	}
	return rec, nil
}

// extractMatching builds the record of the included resolvers that match n
// and skips the rest.
func (s Set) extractMatching(n *html.Node) (Record, error) {
	rec := make(Record)
	for _, f := range s {
		if !f.Resolver.Include() || !f.Resolver.Resolves(n) {
			continue
		}
		v, err := f.Resolver.Resolve(n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		rec[f.Name] = v
	}
	return rec, nil
}

func (s Set) Debug(n *html.Node) map[string]Debug {
	out := make(map[string]Debug, len(s))
	for _, f := range s {
		out[f.Name] = f.Resolver.Debug(n)
	}
	return out
}

// Debug is a snapshot of a resolver evaluated on one element.
type Debug struct {
	Type         Type             `json:"resolver_type" yaml:"resolver_type"`
	Resolves     bool             `json:"does_resolve" yaml:"does_resolve"`
	Value        any              `json:"resolve,omitempty" yaml:"resolve,omitempty"`
	Error        string           `json:"error,omitempty" yaml:"error,omitempty"`
	Include      bool             `json:"include" yaml:"include"`
	Params       map[string]any   `json:"params,omitempty" yaml:"params,omitempty"`
	Subresolvers map[string]Debug `json:"subresolvers,omitempty" yaml:"subresolvers,omitempty"`
	InverseOf    *Debug           `json:"inverse_of,omitempty" yaml:"inverse_of,omitempty"`
}

func snapshot(r Resolver, n *html.Node) Debug {
	d := Debug{
		Type:     r.Type(),
		Resolves: r.Resolves(n),
		Include:  r.Include(),
	}
	if d.Resolves {
		v, err := r.Resolve(n)
		if err != nil {
			d.Error = err.Error()
		} else {
			d.Value = dom.Plain(v)
		}
	}
	return d
}

type base struct {
	include bool
	typ     Type
}

func newBase(typ Type, opts []Option) base {
	b := base{include: true, typ: typ}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b base) Include() bool {
	return b.include
}

func (b base) Type() Type {
	return b.typ
}

type Option func(b *base)

// WithInclude sets whether the resolver's value is emitted into its parent's
// record. Resolvers that never yield data ignore it.
func WithInclude(include bool) Option {
	return func(b *base) {
		b.include = include
	}
}
