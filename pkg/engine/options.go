package engine

import (
	"log/slog"
	"net/http"

	"github.com/getmockd/mockapi/pkg/logging"
	"github.com/getmockd/mockapi/pkg/metrics"
)

type options struct {
	log     *slog.Logger
	metrics *metrics.Metrics
	admin   http.Handler
}

// Option configures engine components.
type Option func(*options)

// WithLogger sets the operational logger. A nil logger keeps the no-op default.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithMetrics enables Prometheus instrumentation and the /metrics route.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithAdmin mounts h under /api/admin/.
func WithAdmin(h http.Handler) Option {
	return func(o *options) { o.admin = h }
}

func newOptions(opts []Option) options {
	o := options{log: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
