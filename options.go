package fixedpoint

import (
	"io"
	"log/slog"
)

// Option configures Solve and the individual pipeline stages.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sends diagnostics to l. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
