// Package store defines the persistence contract shared by mockapi backends.
//
// Two variants implement Backend:
//   - memory: process-local maps, lost on restart (package store/memory)
//   - kv: a bbolt key-value file that survives restarts (package store/kv)
//
// Both must behave identically from the resolver's point of view; the
// conformance suite in store/storetest runs against each of them.
//
// Every stored object is addressed by a deterministic key derived from its kind
// and identifier (see Key), e.g. "project:<id>", "endpoint:<id>" and
// "static:<name>".
package store

import (
	"context"
	"errors"
	"time"

	"github.com/getmockd/mockapi/internal/matching"
	"github.com/getmockd/mockapi/pkg/model"
)

// Common errors
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidID     = errors.New("invalid id")

	// ErrStorageUnavailable means the underlying medium cannot be reached.
	// It is terminal for the current request and never retried.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Kind identifies a backend variant.
type Kind string

const (
	// KindMemory keeps data in process memory (no persistence).
	KindMemory Kind = "memory"
	// KindKV keeps data in a bbolt key-value file.
	KindKV Kind = "kv"
)

// Config holds backend selection settings.
type Config struct {
	// KVPath is the bbolt database file. Empty selects the memory backend.
	KVPath string `json:"kvPath,omitempty" yaml:"kvPath,omitempty"`

	// OpenTimeout bounds how long opening the KV file waits for its lock.
	OpenTimeout time.Duration `json:"openTimeout,omitempty" yaml:"openTimeout,omitempty"`
}

// Kind returns the backend variant the configuration selects.
func (c Config) Kind() Kind {
	if c.KVPath != "" {
		return KindKV
	}
	return KindMemory
}

// Backend is the storage contract queried by the resolver and mutated by the
// admin API.
type Backend interface {
	// Initialize performs idempotent setup such as persisting default settings.
	Initialize(ctx context.Context) error

	// Close releases the backend. Calls after Close fail with ErrStorageUnavailable.
	Close() error

	// Kind reports the backend variant.
	Kind() Kind

	// GetSettings returns the persisted settings, or ErrNotFound.
	GetSettings(ctx context.Context) (*model.GlobalSettings, error)

	// SaveSettings replaces the persisted settings.
	SaveSettings(ctx context.Context, s *model.GlobalSettings) error

	// GetEndpointByPath resolves method and path within projectScope.
	// An empty scope considers every endpoint; otherwise the project's endpoints
	// and global-scope endpoints are candidates. A nil match means not found.
	GetEndpointByPath(ctx context.Context, path, projectScope, method string) (*matching.Match, error)

	Projects() ProjectStore
	Endpoints() EndpointStore
	Assets() AssetStore
}

// ProjectStore handles project persistence.
type ProjectStore interface {
	List(ctx context.Context) ([]*model.Project, error)
	Get(ctx context.Context, id string) (*model.Project, error)
	Create(ctx context.Context, p *model.Project) error
	Update(ctx context.Context, p *model.Project) error
	// Delete removes the project and every endpoint it owns.
	Delete(ctx context.Context, id string) error
}

// EndpointFilter narrows endpoint list operations.
type EndpointFilter struct {
	// ProjectID limits results to one project ("" = no project filter).
	ProjectID string
	// IncludeGlobal also returns global-scope endpoints when ProjectID is set.
	IncludeGlobal bool
	// Method limits results to one HTTP method ("" = all methods).
	Method string
}

// Matches reports whether e passes the filter.
func (f *EndpointFilter) Matches(e *model.Endpoint) bool {
	if f == nil {
		return true
	}
	if f.Method != "" && model.NormalizeMethod(e.Method) != model.NormalizeMethod(f.Method) {
		return false
	}
	if f.ProjectID != "" && e.ProjectID != f.ProjectID {
		return f.IncludeGlobal && e.ProjectID == ""
	}
	return true
}

// EndpointStore handles endpoint persistence.
type EndpointStore interface {
	List(ctx context.Context, filter *EndpointFilter) ([]*model.Endpoint, error)
	Get(ctx context.Context, id string) (*model.Endpoint, error)
	// Create fails with ErrNotFound if the owning project does not exist.
	Create(ctx context.Context, e *model.Endpoint) error
	Update(ctx context.Context, e *model.Endpoint) error
	Delete(ctx context.Context, id string) error
}

// AssetStore handles static console files.
type AssetStore interface {
	List(ctx context.Context) ([]string, error)
	Get(ctx context.Context, name string) (*model.Asset, error)
	Put(ctx context.Context, a *model.Asset) error
	Delete(ctx context.Context, name string) error
}
