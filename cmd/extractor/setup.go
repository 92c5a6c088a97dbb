// Package extractor implements the extract and debug commands.
package extractor

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wenzapen/harvest/extract"
	"github.com/wenzapen/harvest/log"
	"github.com/wenzapen/harvest/rules"
)

type options struct {
	rulesPath string
	format    string
	logLevel  string
	logFile   string
}

func (o *options) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.rulesPath, "rules", "rules.toml", "rule file (.toml, .yaml or .yml)")
	cmd.Flags().StringVar(&o.format, "format", "json", "output format: json or yaml")
	cmd.Flags().StringVar(&o.logLevel, "log-level", "", "log level, overrides the rule file's logLevel")
	cmd.Flags().StringVar(&o.logFile, "log-file", "", "write logs to a rotating file instead of stderr")
}

// session is what both commands need: the loaded rule file, its engine and
// a logger. close flushes the logger.
type session struct {
	file   *rules.File
	engine *extract.Engine
	logger *zap.Logger
	close  func()
}

func (o *options) open() (*session, error) {
	f, err := rules.Load(o.rulesPath)
	if err != nil {
		return nil, err
	}

	level := o.logLevel
	if level == "" {
		level = f.LogLevel
	}
	logger, closer, err := log.New(level, o.logFile)
	if err != nil {
		return nil, err
	}
	closeAll := func() {
		_ = logger.Sync()
		_ = closer.Close()
	}
	logger.Debug("rules loaded", zap.String("path", o.rulesPath), zap.Int("resolvers", len(f.Resolvers)))

	set, err := f.Compile(nil)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("%s: %w", o.rulesPath, err)
	}
	e, err := extract.New(set, extract.WithLogger(logger))
	if err != nil {
		closeAll()
		return nil, err
	}
	return &session{file: f, engine: e, logger: logger, close: closeAll}, nil
}

type encoder interface {
	Encode(v any) error
}

// newEncoder writes one JSON document per line, or a YAML stream.
func newEncoder(w io.Writer, format string) (encoder, func() error, error) {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		return enc, func() error { return nil }, nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		return enc, enc.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown output format %q", format)
	}
}
