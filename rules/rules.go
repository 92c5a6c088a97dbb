// Package rules reads declarative rule files and compiles them into
// resolver sets.
//
// A TOML rule file looks like:
//
//	logLevel = "INFO"
//
//	[[resolver]]
//	name = "post"
//	type = "deepest"
//
//	  [[resolver.sub]]
//	  name = "link"
//	  type = "link"
//
//	[[flatten]]
//	field = "url"
//	path = ["post", "link", "url"]
//
// YAML files use the same keys.
package rules

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/wenzapen/harvest/flatten"
)

// Types only available in rule files.
const (
	TypeDate  = "date"
	TypeDates = "dates"
)

type File struct {
	LogLevel  string      `toml:"logLevel" yaml:"logLevel"`
	Resolvers []Spec      `toml:"resolver" yaml:"resolver"`
	Flatten   []FieldPath `toml:"flatten" yaml:"flatten"`
}

// Spec describes one resolver. Which fields apply depends on Type.
type Spec struct {
	Name    string `toml:"name" yaml:"name"`
	Type    string `toml:"type" yaml:"type"`
	Include *bool  `toml:"include" yaml:"include"`

	// xpath
	Query string `toml:"query" yaml:"query"`
	// function
	Function string `toml:"function" yaml:"function"`
	// date, dates
	Format    string   `toml:"format" yaml:"format"`
	Formats   []string `toml:"formats" yaml:"formats"`
	ISO       *bool    `toml:"iso" yaml:"iso"`
	Exclusive bool     `toml:"exclusive" yaml:"exclusive"`
	// deepest, shallowest
	ChildrenOnly *bool `toml:"childrenOnly" yaml:"childrenOnly"`
	ParentOnly   *bool `toml:"parentOnly" yaml:"parentOnly"`

	Sub []Spec `toml:"sub" yaml:"sub"`
}

type FieldPath struct {
	Field string   `toml:"field" yaml:"field"`
	Path  []string `toml:"path" yaml:"path"`
}

// Load reads a rule file, picking the format from the extension.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var format string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		format = "toml"
	case ".yaml", ".yml":
		format = "yaml"
	default:
		return nil, fmt.Errorf("%s: unsupported rule file extension", path)
	}
	f, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode parses a rule file. Unknown keys are rejected.
func Decode(data []byte, format string) (*File, error) {
	var f File
	switch format {
	case "toml":
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown rule file format %q", format)
	}
	return &f, nil
}

// Fields converts the flatten section, or returns nil when it is empty.
func (f *File) Fields() []flatten.Field {
	if len(f.Flatten) == 0 {
		return nil
	}
	fields := make([]flatten.Field, 0, len(f.Flatten))
	for _, fp := range f.Flatten {
		fields = append(fields, flatten.Field{Name: fp.Field, Path: fp.Path})
	}
	return fields
}
