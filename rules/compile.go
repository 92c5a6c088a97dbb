package rules

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/wenzapen/harvest/resolver"
)

// Funcs registers extraction functions that rule files refer to by name.
type Funcs map[string]resolver.Func

// Compile builds the resolver set of a rule file. Every problem found is
// reported, not just the first.
func (f *File) Compile(funcs Funcs) (resolver.Set, error) {
	return Compile(f.Resolvers, funcs)
}

func Compile(specs []Spec, funcs Funcs) (resolver.Set, error) {
	set, err := compileSet("", specs, funcs)
	if err != nil {
		return nil, err
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

func compileSet(prefix string, specs []Spec, funcs Funcs) (resolver.Set, error) {
	var errs error
	set := make(resolver.Set, 0, len(specs))
	for i, spec := range specs {
		path := prefix + spec.Name
		if spec.Name == "" {
			path = fmt.Sprintf("%s#%d", prefix, i)
		}
		r, err := compileOne(path, spec, funcs)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		set = append(set, resolver.Field(spec.Name, r))
	}
	return set, errs
}

func compileOne(path string, spec Spec, funcs Funcs) (resolver.Resolver, error) {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%s: %s", path, fmt.Sprintf(format, args...))
	}

	var opts []resolver.Option
	if spec.Include != nil {
		opts = append(opts, resolver.WithInclude(*spec.Include))
	}
	iso := spec.ISO == nil || *spec.ISO

	switch resolver.Type(spec.Type) {
	case resolver.TypeLink, resolver.TypeLinkOrFragment, resolver.TypeText,
		resolver.TypeXPath, resolver.TypeFunction, TypeDate, TypeDates:
		if len(spec.Sub) > 0 {
			return nil, fail("type %q takes no sub resolvers", spec.Type)
		}
	}

	switch resolver.Type(spec.Type) {
	case resolver.TypeLink:
		return resolver.Link(opts...), nil
	case resolver.TypeLinkOrFragment:
		return resolver.LinkOrFragment(opts...), nil
	case resolver.TypeText:
		return resolver.Text(opts...), nil
	case resolver.TypeXPath:
		if spec.Query == "" {
			return nil, fail("xpath needs a query")
		}
		r, err := resolver.XPath(spec.Query, opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return r, nil
	case resolver.TypeFunction:
		fn, ok := funcs[spec.Function]
		if !ok {
			return nil, fail("unknown function %q", spec.Function)
		}
		return resolver.Function(fn, opts...), nil
	case TypeDate:
		if spec.Format == "" {
			return nil, fail("date needs a format")
		}
		return resolver.Date(spec.Format, iso, opts...), nil
	case TypeDates:
		if len(spec.Formats) == 0 {
			return nil, fail("dates needs formats")
		}
		return resolver.MultiDate(spec.Formats, iso, spec.Exclusive, opts...), nil
	}

	if !combinators[resolver.Type(spec.Type)] {
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnknownType, spec.Type)
	}
	if len(spec.Sub) == 0 {
		return nil, fail("type %q needs sub resolvers", spec.Type)
	}
	subs, err := compileSet(path+".", spec.Sub, funcs)
	if err != nil {
		return nil, err
	}

	switch resolver.Type(spec.Type) {
	case resolver.TypeAll:
		return resolver.All(subs, opts...), nil
	case resolver.TypeAny:
		return resolver.Any(subs, opts...), nil
	case resolver.TypeOne:
		return resolver.One(subs, opts...), nil
	case resolver.TypeNone:
		return resolver.None(subs), nil
	case resolver.TypeOptional:
		return resolver.Optional(subs, opts...), nil
	case resolver.TypeInverse:
		if len(subs) != 1 {
			return nil, fail("inverse wraps exactly one resolver, got %d", len(subs))
		}
		return resolver.Inverse(subs[0].Resolver), nil
	case resolver.TypeHasDescendant:
		return resolver.HasDescendant(subs, opts...), nil
	case resolver.TypeDeepest:
		return resolver.Deepest(subs, spec.ChildrenOnly == nil || *spec.ChildrenOnly, opts...), nil
	case resolver.TypeShallowest:
		return resolver.Shallowest(subs, spec.ParentOnly == nil || *spec.ParentOnly, opts...), nil
	}
	return nil, fmt.Errorf("%s: %w %q", path, ErrUnknownType, spec.Type)
}

var ErrUnknownType = errors.New("unknown resolver type")

var combinators = map[resolver.Type]bool{
	resolver.TypeAll:           true,
	resolver.TypeAny:           true,
	resolver.TypeOne:           true,
	resolver.TypeNone:          true,
	resolver.TypeOptional:      true,
	resolver.TypeInverse:       true,
	resolver.TypeHasDescendant: true,
	resolver.TypeDeepest:       true,
	resolver.TypeShallowest:    true,
}
