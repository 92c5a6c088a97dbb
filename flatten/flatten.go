// Package flatten turns nested records into flat field maps by following a
// key path per field.
package flatten

import (
	"cmp"
	"slices"
	"strings"

	"github.com/ohler55/ojg/jp"
	"go.uber.org/zap"
)

// Path is an ordered list of keys to descend through.
type Path []string

// Field names an output field and where to find it.
type Field struct {
	Name string
	Path Path
}

type Mapper struct {
	fields []compiled
	logger *zap.Logger
}

type compiled struct {
	Field
	expr jp.Expr
}

type Option func(m *Mapper)

func WithLogger(logger *zap.Logger) Option {
	return func(m *Mapper) {
		m.logger = logger
	}
}

// New compiles each path into a child-only JSONPath expression. Fields are
// produced in the given order.
func New(fields []Field, opts ...Option) *Mapper {
	m := &Mapper{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	for _, f := range fields {
		x := jp.R()
		for _, key := range f.Path {
			x = x.C(key)
		}
		m.fields = append(m.fields, compiled{Field: f, expr: x})
	}
	return m
}

// FromMap builds a Mapper from a field to path mapping. Fields come out in
// name order.
func FromMap(paths map[string][]string, opts ...Option) *Mapper {
	fields := make([]Field, 0, len(paths))
	for name, path := range paths {
		fields = append(fields, Field{Name: name, Path: path})
	}
	slices.SortFunc(fields, func(a, b Field) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return New(fields, opts...)
}

func (m *Mapper) Fields() []Field {
	out := make([]Field, 0, len(m.fields))
	for _, f := range m.fields {
		out = append(out, f.Field)
	}
	return out
}

// Map flattens one record. A field whose path breaks off is left out of the
// result and reported in missing; the other fields are unaffected.
func (m *Mapper) Map(record map[string]any) (flat map[string]any, missing []string) {
	flat = make(map[string]any, len(m.fields))
	for _, f := range m.fields {
		results := f.expr.Get(record)
		if len(results) == 0 {
			m.logger.Warn("flatten path missing",
				zap.String("field", f.Name),
				zap.String("path", strings.Join(f.Path, ".")))
			missing = append(missing, f.Name)
			continue
		}
		flat[f.Name] = results[0]
	}
	return flat, missing
}
