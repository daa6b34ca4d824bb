package replaysort

import (
	"log/slog"
	"runtime"

	"github.com/simonhull/replaysort/internal/registry"
)

// Option configures Decode and Scan.
//
// Options use the functional options pattern:
//
//	res, err := replaysort.Scan(ctx, dir,
//	    replaysort.WithConcurrency(4),
//	    replaysort.WithLogger(slog.Default()),
//	)
type Option func(*options)

// options holds configuration for decoding.
type options struct {
	concurrency int                // Files decoded at once by Scan
	logger      *slog.Logger       // Receives skip notices
	registry    *registry.Registry // Schemas by client build
}

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		concurrency: 1,
		logger:      slog.New(slog.DiscardHandler),
		registry:    registry.Default(),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithConcurrency sets how many files Scan decodes at once.
//
// The default is 1: files are decoded one after another. Values below 1
// use one worker per CPU. Results keep directory order either way.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		o.concurrency = n
	}
}

// WithLogger sets the logger receiving skip notices.
//
// By default nothing is logged. Scan logs stray files and malformed replays
// at Debug, replays from unsupported clients at Warn and read failures at
// Error.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRegistry replaces the built-in schema registry.
//
// Example:
//
//	reg := replaysort.NewRegistry()
//	reg.Register(80000, 95000, myProtocol)
//	m, err := replaysort.Decode("game.SC2Replay", replaysort.WithRegistry(reg))
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// NewRegistry returns an empty registry for use with WithRegistry.
func NewRegistry() *Registry {
	return registry.New()
}
