package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/getmockd/mockapi/pkg/model"
	"github.com/getmockd/mockapi/pkg/store"
)

type projectStore struct {
	s *Store
}

func (p *projectStore) List(ctx context.Context) ([]*model.Project, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	if p.s.closed {
		return nil, store.ErrStorageUnavailable
	}

	result := make([]*model.Project, 0, len(p.s.projects))
	for _, proj := range p.s.projects {
		result = append(result, proj.Clone())
	}
	store.SortProjects(result)
	return result, nil
}

func (p *projectStore) Get(ctx context.Context, id string) (*model.Project, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	if p.s.closed {
		return nil, store.ErrStorageUnavailable
	}
	proj, ok := p.s.projects[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return proj.Clone(), nil
}

func (p *projectStore) Create(ctx context.Context, proj *model.Project) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.closed {
		return store.ErrStorageUnavailable
	}
	if err := store.PrepareProjectCreate(proj, store.Now()); err != nil {
		return err
	}
	if _, exists := p.s.projects[proj.ID]; exists {
		return store.ErrAlreadyExists
	}
	p.s.projects[proj.ID] = proj.Clone()
	return nil
}

func (p *projectStore) Update(ctx context.Context, proj *model.Project) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.closed {
		return store.ErrStorageUnavailable
	}
	existing, ok := p.s.projects[proj.ID]
	if !ok {
		return store.ErrNotFound
	}
	store.PrepareProjectUpdate(proj, existing, store.Now())
	p.s.projects[proj.ID] = proj.Clone()
	return nil
}

func (p *projectStore) Delete(ctx context.Context, id string) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.closed {
		return store.ErrStorageUnavailable
	}
	if _, ok := p.s.projects[id]; !ok {
		return store.ErrNotFound
	}
	delete(p.s.projects, id)
	for eid, e := range p.s.endpoints {
		if e.ProjectID == id {
			delete(p.s.endpoints, eid)
		}
	}
	return nil
}

type endpointStore struct {
	s *Store
}

func (es *endpointStore) List(ctx context.Context, filter *store.EndpointFilter) ([]*model.Endpoint, error) {
	return es.s.listEndpoints(filter)
}

func (es *endpointStore) Get(ctx context.Context, id string) (*model.Endpoint, error) {
	es.s.mu.RLock()
	defer es.s.mu.RUnlock()
	if es.s.closed {
		return nil, store.ErrStorageUnavailable
	}
	e, ok := es.s.endpoints[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return e.Clone(), nil
}

func (es *endpointStore) Create(ctx context.Context, e *model.Endpoint) error {
	es.s.mu.Lock()
	defer es.s.mu.Unlock()
	if es.s.closed {
		return store.ErrStorageUnavailable
	}
	if err := store.PrepareEndpointCreate(e, store.Now()); err != nil {
		return err
	}
	if _, exists := es.s.endpoints[e.ID]; exists {
		return store.ErrAlreadyExists
	}
	if e.ProjectID != "" {
		if _, ok := es.s.projects[e.ProjectID]; !ok {
			return store.ErrNotFound
		}
	}
	es.s.endpoints[e.ID] = e.Clone()
	return nil
}

func (es *endpointStore) Update(ctx context.Context, e *model.Endpoint) error {
	es.s.mu.Lock()
	defer es.s.mu.Unlock()
	if es.s.closed {
		return store.ErrStorageUnavailable
	}
	existing, ok := es.s.endpoints[e.ID]
	if !ok {
		return store.ErrNotFound
	}
	if e.ProjectID != "" {
		if _, ok := es.s.projects[e.ProjectID]; !ok {
			return store.ErrNotFound
		}
	}
	store.PrepareEndpointUpdate(e, existing, store.Now())
	es.s.endpoints[e.ID] = e.Clone()
	return nil
}

func (es *endpointStore) Delete(ctx context.Context, id string) error {
	es.s.mu.Lock()
	defer es.s.mu.Unlock()
	if es.s.closed {
		return store.ErrStorageUnavailable
	}
	if _, ok := es.s.endpoints[id]; !ok {
		return store.ErrNotFound
	}
	delete(es.s.endpoints, id)
	return nil
}

type assetStore struct {
	s *Store
}

func (as *assetStore) List(ctx context.Context) ([]string, error) {
	as.s.mu.RLock()
	defer as.s.mu.RUnlock()
	if as.s.closed {
		return nil, store.ErrStorageUnavailable
	}
	names := make([]string, 0, len(as.s.assets))
	for name := range as.s.assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (as *assetStore) Get(ctx context.Context, name string) (*model.Asset, error) {
	as.s.mu.RLock()
	defer as.s.mu.RUnlock()
	if as.s.closed {
		return nil, store.ErrStorageUnavailable
	}
	a, ok := as.s.assets[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneAsset(a), nil
}

func (as *assetStore) Put(ctx context.Context, a *model.Asset) error {
	if a == nil || a.Name == "" {
		return store.ErrInvalidID
	}
	as.s.mu.Lock()
	defer as.s.mu.Unlock()
	if as.s.closed {
		return store.ErrStorageUnavailable
	}
	as.s.assets[a.Name] = cloneAsset(a)
	return nil
}

func (as *assetStore) Delete(ctx context.Context, name string) error {
	as.s.mu.Lock()
	defer as.s.mu.Unlock()
	if as.s.closed {
		return store.ErrStorageUnavailable
	}
	if _, ok := as.s.assets[name]; !ok {
		return store.ErrNotFound
	}
	delete(as.s.assets, name)
	return nil
}

func cloneAsset(a *model.Asset) *model.Asset {
	c := *a
	c.Data = slices.Clone(a.Data)
	return &c
}
