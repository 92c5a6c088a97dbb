// Package extract applies a top-level rule set to every element of a
// document and produces one record per matching element.
package extract

import (
	"fmt"
	"iter"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/wenzapen/harvest/dom"
	"github.com/wenzapen/harvest/resolver"
)

// Record maps a top-level resolver name to its extracted value.
type Record = resolver.Record

// Engine holds a fixed rule set. An element qualifies when every resolver in
// the set matches it, as if the set were wrapped in resolver.All.
type Engine struct {
	resolvers resolver.Set
	options
}

func New(resolvers resolver.Set, opts ...Option) (*Engine, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	if err := resolvers.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule set: %w", err)
	}

	e := &Engine{resolvers: resolvers}
	e.options = options
	return e, nil
}

func (e *Engine) Resolvers() resolver.Set {
	return e.resolvers
}

// Generate walks root and its element descendants in document order and
// yields a record for every qualifying element. Records are computed on
// demand; stop ranging to stop the walk. A failed extraction is yielded once
// as an error and ends the sequence.
func (e *Engine) Generate(root *html.Node) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		visited, matched := 0, 0
		defer func() {
			e.Logger.Debug("walk finished",
				zap.Int("visited", visited),
				zap.Int("matched", matched))
		}()

		for n := range dom.All(root) {
			visited++
			if !e.resolvers.ResolvesAll(n) {
				continue
			}
			rec, err := e.resolvers.Extract(n)
			if err != nil {
				e.Logger.Error("extract record failed",
					zap.String("element", n.Data),
					zap.Int("visited", visited),
					zap.Error(err))
				yield(nil, err)
				return
			}
			matched++
			e.Logger.Debug("element matched", zap.String("element", n.Data), zap.Int("visited", visited))
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Collect runs Generate to completion.
func (e *Engine) Collect(root *html.Node) ([]Record, error) {
	var records []Record
	for rec, err := range e.Generate(root) {
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Debug snapshots every top-level resolver on n.
func (e *Engine) Debug(n *html.Node) map[string]resolver.Debug {
	return e.resolvers.Debug(n)
}
