package admin

import (
	"log/slog"
	"time"

	"github.com/getmockd/mockapi/internal/matching"
	"github.com/getmockd/mockapi/pkg/metrics"
)

// Option configures an API.
type Option func(*API)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *API) {
		if log != nil {
			a.log = log
		}
	}
}

// WithMetrics records storage failures on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *API) { a.metrics = m }
}

// WithPassword enables authentication with the given admin password.
func WithPassword(password string) Option {
	return func(a *API) { a.authCfg.Password = password }
}

// WithJWTSecret sets the HMAC key used to sign admin tokens. Without it a
// random key is generated, so tokens do not survive a restart.
func WithJWTSecret(secret string) Option {
	return func(a *API) { a.authCfg.Secret = []byte(secret) }
}

// WithTokenTTL overrides DefaultTokenTTL.
func WithTokenTTL(ttl time.Duration) Option {
	return func(a *API) {
		if ttl > 0 {
			a.authCfg.TTL = ttl
		}
	}
}

// WithCompiler shares the pattern compiler used to validate endpoint paths.
func WithCompiler(c *matching.Compiler) Option {
	return func(a *API) {
		if c != nil {
			a.compiler = c
		}
	}
}

// withClock replaces time.Now for token issuing and validation.
func withClock(now func() time.Time) Option {
	return func(a *API) { a.authCfg.Now = now }
}
