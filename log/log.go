// Package log builds the zap loggers of the command line. Records go to
// stdout, so logs go to stderr, or to a rotating JSON file when one is
// given.
package log

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger(core zapcore.Core, options ...zap.Option) *zap.Logger {
	return zap.New(core, append(defaultOptions(), options...)...)
}

// ParseLevel accepts zap level names in any case. An empty level is INFO.
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return lvl, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

// New builds a logger at the given level. The closer releases the log file
// and must be called once logging is done.
func New(level string, filePath string) (*zap.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	if filePath == "" {
		core := zapcore.NewCore(consoleEncoder(), zapcore.Lock(zapcore.AddSync(os.Stderr)), lvl)
		return NewLogger(core), nopCloser{}, nil
	}
	writer := rotatingFile(filePath)
	core := zapcore.NewCore(jsonEncoder(), zapcore.AddSync(writer), lvl)
	return NewLogger(core), writer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
