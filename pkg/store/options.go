package store

import (
	"log/slog"

	"github.com/getmockd/mockapi/internal/matching"
	"github.com/getmockd/mockapi/pkg/logging"
	"github.com/getmockd/mockapi/pkg/model"
)

// Options holds settings shared by every backend variant.
type Options struct {
	Log      *slog.Logger
	Compiler *matching.Compiler
	// OnSkip is called in addition to logging when resolution skips an
	// endpoint with a malformed pattern.
	OnSkip matching.SkipFunc
}

// Option configures a backend.
type Option func(*Options)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *Options) { o.Log = log }
}

// WithCompiler shares a pattern compiler (and its cache) with the backend.
func WithCompiler(c *matching.Compiler) Option {
	return func(o *Options) { o.Compiler = c }
}

// WithSkipHook registers a callback for skipped malformed endpoints.
func WithSkipHook(fn matching.SkipFunc) Option {
	return func(o *Options) { o.OnSkip = fn }
}

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) Options {
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Log == nil {
		o.Log = logging.Nop()
	}
	if o.Compiler == nil {
		o.Compiler = matching.NewCompiler()
	}
	return o
}

// Select runs pattern selection over candidates, logging skipped endpoints.
func (o Options) Select(candidates []*model.Endpoint, path, method string) *matching.Match {
	return o.Compiler.Select(candidates, method, path, func(ep *model.Endpoint, err error) {
		o.Log.Warn("skipping endpoint with malformed path pattern",
			"endpoint_id", ep.ID,
			"project_id", ep.ProjectID,
			"method", ep.Method,
			"path", ep.Path,
			"error", err,
		)
		if o.OnSkip != nil {
			o.OnSkip(ep, err)
		}
	})
}
