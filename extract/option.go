package extract

import (
	"go.uber.org/zap"
)

type Option func(opts *options)

type options struct {
	Logger *zap.Logger
}

var defaultOptions = options{
	Logger: zap.NewNop(),
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.Logger = logger
	}
}
