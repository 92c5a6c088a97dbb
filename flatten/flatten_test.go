package flatten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMapMissingPath(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	m := FromMap(map[string][]string{
		"x": {"a", "b"},
		"y": {"a", "c"},
	}, WithLogger(zap.New(core)))

	flat, missing := m.Map(map[string]any{"a": map[string]any{"b": 1}})
	assert.Equal(t, map[string]any{"x": 1}, flat)
	assert.Equal(t, []string{"y"}, missing)

	entries := logs.FilterMessage("flatten path missing").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "y", entries[0].ContextMap()["field"])
		assert.Equal(t, "a.c", entries[0].ContextMap()["path"])
	}
}

func TestMap(t *testing.T) {
	record := map[string]any{
		"link": map[string]any{"url": "https://example.com", "text": "Example"},
		"date": "2024-01-02T00:00:00Z",
		"tags": []any{"go", "html"},
	}
	tests := []struct {
		name    string
		fields  []Field
		flat    map[string]any
		missing []string
	}{
		{
			name:   "nested",
			fields: []Field{{Name: "url", Path: Path{"link", "url"}}, {Name: "title", Path: Path{"link", "text"}}},
			flat:   map[string]any{"url": "https://example.com", "title": "Example"},
		},
		{
			name:   "top level",
			fields: []Field{{Name: "when", Path: Path{"date"}}, {Name: "tags", Path: Path{"tags"}}},
			flat:   map[string]any{"when": "2024-01-02T00:00:00Z", "tags": []any{"go", "html"}},
		},
		{
			name:    "path through a scalar",
			fields:  []Field{{Name: "deep", Path: Path{"date", "year"}}, {Name: "url", Path: Path{"link", "url"}}},
			flat:    map[string]any{"url": "https://example.com"},
			missing: []string{"deep"},
		},
		{
			name:    "first key missing",
			fields:  []Field{{Name: "a", Path: Path{"nope", "x"}}, {Name: "b", Path: Path{"nope"}}},
			flat:    map[string]any{},
			missing: []string{"a", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flat, missing := New(tt.fields).Map(record)
			assert.Equal(t, tt.flat, flat)
			assert.Equal(t, tt.missing, missing)
		})
	}
}

func TestFieldsOrder(t *testing.T) {
	m := FromMap(map[string][]string{"b": {"x"}, "a": {"y"}})
	assert.Equal(t, []Field{{Name: "a", Path: Path{"y"}}, {Name: "b", Path: Path{"x"}}}, m.Fields())
}
