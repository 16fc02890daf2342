// Package memory provides a volatile, process-local implementation of
// store.Backend. It is used whenever no durable backend is configured.
package memory

import (
	"context"
	"sync"

	"github.com/getmockd/mockapi/internal/matching"
	"github.com/getmockd/mockapi/pkg/model"
	"github.com/getmockd/mockapi/pkg/store"
)

// Store is a thread-safe in-memory store.Backend.
// Values are copied on the way in and on the way out, so readers never observe
// a partially written entity.
type Store struct {
	opts store.Options

	mu        sync.RWMutex
	closed    bool
	settings  *model.GlobalSettings
	projects  map[string]*model.Project
	endpoints map[string]*model.Endpoint
	assets    map[string]*model.Asset
}

// New creates an empty Store.
func New(opts ...store.Option) *Store {
	return &Store{
		opts:      store.NewOptions(opts...),
		projects:  make(map[string]*model.Project),
		endpoints: make(map[string]*model.Endpoint),
		assets:    make(map[string]*model.Asset),
	}
}

// Initialize stores the default settings if none exist.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrStorageUnavailable
	}
	if s.settings == nil {
		s.settings = model.DefaultSettings()
	}
	return nil
}

// Close marks the store closed. Safe to call multiple times.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Kind returns store.KindMemory.
func (s *Store) Kind() store.Kind { return store.KindMemory }

// GetSettings returns a copy of the settings, or store.ErrNotFound.
func (s *Store) GetSettings(ctx context.Context) (*model.GlobalSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, store.ErrStorageUnavailable
	}
	if s.settings == nil {
		return nil, store.ErrNotFound
	}
	return s.settings.Clone(), nil
}

// SaveSettings replaces the settings.
func (s *Store) SaveSettings(ctx context.Context, settings *model.GlobalSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrStorageUnavailable
	}
	s.settings = settings.Clone()
	return nil
}

// GetEndpointByPath resolves method and path within projectScope.
func (s *Store) GetEndpointByPath(ctx context.Context, path, projectScope, method string) (*matching.Match, error) {
	candidates, err := s.listEndpoints(&store.EndpointFilter{
		ProjectID:     projectScope,
		IncludeGlobal: true,
		Method:        method,
	})
	if err != nil {
		return nil, err
	}
	return s.opts.Select(candidates, path, method), nil
}

// Projects returns the project store.
func (s *Store) Projects() store.ProjectStore { return &projectStore{s: s} }

// Endpoints returns the endpoint store.
func (s *Store) Endpoints() store.EndpointStore { return &endpointStore{s: s} }

// Assets returns the asset store.
func (s *Store) Assets() store.AssetStore { return &assetStore{s: s} }

func (s *Store) listEndpoints(filter *store.EndpointFilter) ([]*model.Endpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, store.ErrStorageUnavailable
	}

	result := make([]*model.Endpoint, 0, len(s.endpoints))
	for _, e := range s.endpoints {
		if filter.Matches(e) {
			result = append(result, e.Clone())
		}
	}
	store.SortEndpoints(result)
	return result, nil
}

// Ensure Store implements store.Backend.
var _ store.Backend = (*Store)(nil)
