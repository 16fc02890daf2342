package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/getmockd/mockapi/internal/matching"
	"github.com/getmockd/mockapi/pkg/metrics"
	"github.com/getmockd/mockapi/pkg/model"
	"github.com/getmockd/mockapi/pkg/store"
)

// Resolver maps (method, path, scope) onto a stored endpoint.
type Resolver struct {
	backend store.Backend
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewResolver creates a Resolver over backend.
func NewResolver(backend store.Backend, opts ...Option) *Resolver {
	o := newOptions(opts)
	return &Resolver{backend: backend, log: o.log, metrics: o.metrics}
}

// Resolve returns the best endpoint for the request, or nil when nothing
// matches. The only error it returns wraps store.ErrStorageUnavailable.
func (r *Resolver) Resolve(ctx context.Context, method, path, projectScope string) (*matching.Match, error) {
	m, err := r.backend.GetEndpointByPath(ctx, path, projectScope, model.NormalizeMethod(method))
	if err != nil {
		r.metrics.StorageError("resolve")
		if !errors.Is(err, store.ErrStorageUnavailable) {
			err = fmt.Errorf("%w: %v", store.ErrStorageUnavailable, err)
		}
		return nil, fmt.Errorf("resolve %s %s: %w", method, path, err)
	}
	if m == nil {
		r.metrics.MatchMiss()
		return nil, nil
	}
	r.metrics.MatchHit(projectScope)
	return m, nil
}

// Settings returns the persisted global settings. Any failure, including a
// missing record, falls back to model.DefaultSettings and is never surfaced.
func (r *Resolver) Settings(ctx context.Context) *model.GlobalSettings {
	s, err := r.backend.GetSettings(ctx)
	switch {
	case err == nil && s != nil:
		return s
	case err == nil, errors.Is(err, store.ErrNotFound):
		r.log.Debug("no global settings stored, using defaults")
	default:
		r.metrics.StorageError("settings")
		r.log.Warn("failed to load global settings, using defaults", "error", err)
	}
	return model.DefaultSettings()
}
