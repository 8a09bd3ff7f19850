package check

import (
	"io"
	"log/slog"
	"runtime"
)

type options struct {
	logger  *slog.Logger
	workers int
}

// Option configures a check.
type Option func(*options)

// WithLogger sets the logger used for debug traces of the exploration.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithWorkers sets the number of determinism workers. Values below one are
// ignored.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// DefaultWorkers leaves one CPU to the caller.
func DefaultWorkers() int {
	return max(1, runtime.NumCPU()-1)
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		workers: DefaultWorkers(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
