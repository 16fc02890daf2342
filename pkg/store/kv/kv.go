// Package kv provides a durable store.Backend on top of a bbolt key-value file.
//
// All objects live in a single bucket under the keys produced by store.Key:
// "settings", "project:<id>", "endpoint:<id>" and "static:<name>". Values are
// JSON. Every call runs in its own bbolt transaction, so a reader sees either
// the state before or after a concurrent write, never a partial entity.
package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/getmockd/mockapi/internal/matching"
	"github.com/getmockd/mockapi/pkg/model"
	"github.com/getmockd/mockapi/pkg/store"
)

// DefaultOpenTimeout bounds how long Open waits for the file lock.
const DefaultOpenTimeout = 2 * time.Second

var bucketName = []byte("mockapi")

// Store is a bbolt-backed store.Backend.
type Store struct {
	db   *bolt.DB
	path string
	opts store.Options
}

// Open opens (creating if needed) the database file described by cfg.
// Failure to open is reported as store.ErrStorageUnavailable.
func Open(cfg store.Config, opts ...store.Option) (*Store, error) {
	if cfg.KVPath == "" {
		return nil, fmt.Errorf("%w: no kv path configured", store.ErrStorageUnavailable)
	}
	timeout := cfg.OpenTimeout
	if timeout <= 0 {
		timeout = DefaultOpenTimeout
	}

	if dir := filepath.Dir(cfg.KVPath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("%w: create data dir: %v", store.ErrStorageUnavailable, err)
		}
	}

	db, err := bolt.Open(cfg.KVPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", store.ErrStorageUnavailable, cfg.KVPath, err)
	}

	return &Store{db: db, path: cfg.KVPath, opts: store.NewOptions(opts...)}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Initialize creates the bucket and persists default settings if missing.
func (s *Store) Initialize(ctx context.Context) error {
	return s.update(func(b *bolt.Bucket) error {
		if b.Get([]byte(store.SettingsKey)) != nil {
			return nil
		}
		return putJSON(b, store.SettingsKey, model.DefaultSettings())
	})
}

// Close closes the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Kind returns store.KindKV.
func (s *Store) Kind() store.Kind { return store.KindKV }

// GetSettings returns the persisted settings, or store.ErrNotFound.
func (s *Store) GetSettings(ctx context.Context) (*model.GlobalSettings, error) {
	var settings model.GlobalSettings
	err := s.view(func(b *bolt.Bucket) error {
		return getJSON(b, store.SettingsKey, &settings)
	})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveSettings replaces the persisted settings.
func (s *Store) SaveSettings(ctx context.Context, settings *model.GlobalSettings) error {
	return s.update(func(b *bolt.Bucket) error {
		return putJSON(b, store.SettingsKey, settings)
	})
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

// view runs fn in a read-only transaction. A missing bucket reads as empty.
func (s *Store) view(fn func(b *bolt.Bucket) error) error {
	err := s.db.View(func(tx *bolt.Tx) error {
		return fn(tx.Bucket(bucketName))
	})
	return translate(err)
}

// update runs fn in a read-write transaction, creating the bucket if needed.
func (s *Store) update(fn func(b *bolt.Bucket) error) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return fn(b)
	})
	return translate(err)
}

// translate passes contract errors through and reports everything else coming
// out of bbolt as the medium being unavailable.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrAlreadyExists),
		errors.Is(err, store.ErrInvalidID),
		errors.Is(err, store.ErrStorageUnavailable):
		return err
	}
	return fmt.Errorf("%w: %v", store.ErrStorageUnavailable, err)
}

func getJSON(b *bolt.Bucket, key string, v any) error {
	if b == nil {
		return store.ErrNotFound
	}
	raw := b.Get([]byte(key))
	if raw == nil {
		return store.ErrNotFound
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func putJSON(b *bolt.Bucket, key string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return b.Put([]byte(key), bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

// endpointRecord is the stored form of an endpoint. The response body is kept
// as opaque bytes so reads return exactly what was written.
type endpointRecord struct {
	model.Endpoint
	RawBody []byte `json:"rawBody,omitempty"`
}

func newEndpointRecord(e *model.Endpoint) endpointRecord {
	r := endpointRecord{Endpoint: *e, RawBody: e.Response.Body}
	r.Response.Body = nil
	return r
}

func (r *endpointRecord) endpoint() *model.Endpoint {
	e := r.Endpoint
	if r.RawBody != nil {
		e.Response.Body = json.RawMessage(r.RawBody)
	}
	return &e
}

func decodeEndpoint(v []byte) (*model.Endpoint, error) {
	var r endpointRecord
	if err := json.Unmarshal(v, &r); err != nil {
		return nil, err
	}
	return r.endpoint(), nil
}

func getEndpoint(b *bolt.Bucket, key string) (*model.Endpoint, error) {
	var r endpointRecord
	if err := getJSON(b, key, &r); err != nil {
		return nil, err
	}
	return r.endpoint(), nil
}

func putEndpoint(b *bolt.Bucket, key string, e *model.Endpoint) error {
	return putJSON(b, key, newEndpointRecord(e))
}

// scan calls fn for every key with the given kind prefix.
func scan(b *bolt.Bucket, kind string, fn func(key, value []byte) error) error {
	if b == nil {
		return nil
	}
	prefix := []byte(store.Prefix(kind))
	c := b.Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) listEndpoints(filter *store.EndpointFilter) ([]*model.Endpoint, error) {
	result := []*model.Endpoint{}
	err := s.view(func(b *bolt.Bucket) error {
		return scan(b, store.KindEndpoint, func(k, v []byte) error {
			e, err := decodeEndpoint(v)
			if err != nil {
				s.opts.Log.Warn("skipping undecodable endpoint", "key", string(k), "error", err)
				return nil
			}
			if filter.Matches(e) {
				result = append(result, e)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	store.SortEndpoints(result)
	return result, nil
}

// Ensure Store implements store.Backend.
var _ store.Backend = (*Store)(nil)
