package kv

import (
	"context"
	"encoding/json"

	bolt "go.etcd.io/bbolt"

	"github.com/getmockd/mockapi/pkg/model"
	"github.com/getmockd/mockapi/pkg/store"
)

type projectStore struct {
	s *Store
}

func (p *projectStore) List(ctx context.Context) ([]*model.Project, error) {
	result := []*model.Project{}
	err := p.s.view(func(b *bolt.Bucket) error {
		return scan(b, store.KindProject, func(k, v []byte) error {
			var proj model.Project
			if err := json.Unmarshal(v, &proj); err != nil {
				p.s.opts.Log.Warn("skipping undecodable project", "key", string(k), "error", err)
				return nil
			}
			result = append(result, &proj)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	store.SortProjects(result)
	return result, nil
}

func (p *projectStore) Get(ctx context.Context, id string) (*model.Project, error) {
	var proj model.Project
	err := p.s.view(func(b *bolt.Bucket) error {
		return getJSON(b, store.Key(store.KindProject, id), &proj)
	})
	if err != nil {
		return nil, err
	}
	return &proj, nil
}

func (p *projectStore) Create(ctx context.Context, proj *model.Project) error {
	if err := store.PrepareProjectCreate(proj, store.Now()); err != nil {
		return err
	}
	key := store.Key(store.KindProject, proj.ID)
	return p.s.update(func(b *bolt.Bucket) error {
		if b.Get([]byte(key)) != nil {
			return store.ErrAlreadyExists
		}
		return putJSON(b, key, proj)
	})
}

func (p *projectStore) Update(ctx context.Context, proj *model.Project) error {
	key := store.Key(store.KindProject, proj.ID)
	return p.s.update(func(b *bolt.Bucket) error {
		var existing model.Project
		if err := getJSON(b, key, &existing); err != nil {
			return err
		}
		store.PrepareProjectUpdate(proj, &existing, store.Now())
		return putJSON(b, key, proj)
	})
}

func (p *projectStore) Delete(ctx context.Context, id string) error {
	key := store.Key(store.KindProject, id)
	return p.s.update(func(b *bolt.Bucket) error {
		if b.Get([]byte(key)) == nil {
			return store.ErrNotFound
		}

		// Collect first: deleting while a cursor walks the bucket skips keys.
		var owned [][]byte
		err := scan(b, store.KindEndpoint, func(k, v []byte) error {
			if e, err := decodeEndpoint(v); err == nil && e.ProjectID == id {
				owned = append(owned, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range owned {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return b.Delete([]byte(key))
	})
}

type endpointStore struct {
	s *Store
}

func (es *endpointStore) List(ctx context.Context, filter *store.EndpointFilter) ([]*model.Endpoint, error) {
	return es.s.listEndpoints(filter)
}

func (es *endpointStore) Get(ctx context.Context, id string) (*model.Endpoint, error) {
	var e *model.Endpoint
	err := es.s.view(func(b *bolt.Bucket) error {
		var err error
		e, err = getEndpoint(b, store.Key(store.KindEndpoint, id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (es *endpointStore) Create(ctx context.Context, e *model.Endpoint) error {
	if err := store.PrepareEndpointCreate(e, store.Now()); err != nil {
		return err
	}
	key := store.Key(store.KindEndpoint, e.ID)
	return es.s.update(func(b *bolt.Bucket) error {
		if b.Get([]byte(key)) != nil {
			return store.ErrAlreadyExists
		}
		if err := requireProject(b, e.ProjectID); err != nil {
			return err
		}
		return putEndpoint(b, key, e)
	})
}

func (es *endpointStore) Update(ctx context.Context, e *model.Endpoint) error {
	key := store.Key(store.KindEndpoint, e.ID)
	return es.s.update(func(b *bolt.Bucket) error {
		existing, err := getEndpoint(b, key)
		if err != nil {
			return err
		}
		if err := requireProject(b, e.ProjectID); err != nil {
			return err
		}
		store.PrepareEndpointUpdate(e, existing, store.Now())
		return putEndpoint(b, key, e)
	})
}

func (es *endpointStore) Delete(ctx context.Context, id string) error {
	key := store.Key(store.KindEndpoint, id)
	return es.s.update(func(b *bolt.Bucket) error {
		if b.Get([]byte(key)) == nil {
			return store.ErrNotFound
		}
		return b.Delete([]byte(key))
	})
}

func requireProject(b *bolt.Bucket, projectID string) error {
	if projectID == "" {
		return nil
	}
	if b.Get([]byte(store.Key(store.KindProject, projectID))) == nil {
		return store.ErrNotFound
	}
	return nil
}

type assetStore struct {
	s *Store
}

func (as *assetStore) List(ctx context.Context) ([]string, error) {
	names := []string{}
	err := as.s.view(func(b *bolt.Bucket) error {
		return scan(b, store.KindStatic, func(k, _ []byte) error {
			_, name := store.SplitKey(string(k))
			names = append(names, name)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (as *assetStore) Get(ctx context.Context, name string) (*model.Asset, error) {
	var a model.Asset
	err := as.s.view(func(b *bolt.Bucket) error {
		return getJSON(b, store.Key(store.KindStatic, name), &a)
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (as *assetStore) Put(ctx context.Context, a *model.Asset) error {
	if a == nil || a.Name == "" {
		return store.ErrInvalidID
	}
	return as.s.update(func(b *bolt.Bucket) error {
		return putJSON(b, store.Key(store.KindStatic, a.Name), a)
	})
}

func (as *assetStore) Delete(ctx context.Context, name string) error {
	key := store.Key(store.KindStatic, name)
	return as.s.update(func(b *bolt.Bucket) error {
		if b.Get([]byte(key)) == nil {
			return store.ErrNotFound
		}
		return b.Delete([]byte(key))
	})
}
