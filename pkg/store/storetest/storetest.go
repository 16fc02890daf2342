// Package storetest provides a conformance suite for store.Backend
// implementations. Every backend variant runs the same suite so the resolver
// can treat them interchangeably.
package storetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockapi/internal/matching"
	"github.com/getmockd/mockapi/pkg/model"
	"github.com/getmockd/mockapi/pkg/store"
)

// Factory returns a fresh, uninitialized backend. Options must be forwarded to
// the backend constructor.
type Factory func(t *testing.T, opts ...store.Option) store.Backend

// Run executes the conformance suite against backends produced by newBackend.
func Run(t *testing.T, newBackend Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, newBackend Factory)
	}{
		{"Settings", testSettings},
		{"ProjectCRUD", testProjectCRUD},
		{"ProjectErrors", testProjectErrors},
		{"EndpointCRUD", testEndpointCRUD},
		{"EndpointErrors", testEndpointErrors},
		{"EndpointFilter", testEndpointFilter},
		{"CascadeDelete", testCascadeDelete},
		{"ReturnedCopiesAreIndependent", testCopies},
		{"BodyIsStoredVerbatim", testBodyVerbatim},
		{"Resolve", testResolve},
		{"ResolveScope", testResolveScope},
		{"ResolveTieBreakByUpdate", testResolveTieBreak},
		{"ResolveSkipsMalformed", testResolveSkipsMalformed},
		{"Assets", testAssets},
		{"Closed", testClosed},
		{"ConcurrentAccess", testConcurrent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newBackend)
		})
	}
}

func open(t *testing.T, newBackend Factory, opts ...store.Option) store.Backend {
	t.Helper()
	b := newBackend(t, opts...)
	require.NoError(t, b.Initialize(context.Background()))
	return b
}

func endpoint(projectID, method, path, body string) *model.Endpoint {
	e := &model.Endpoint{
		ProjectID: projectID,
		Method:    method,
		Path:      path,
		Response:  model.ResponseSpec{Status: 200},
	}
	if body != "" {
		e.Response.Body = json.RawMessage(body)
	}
	return e
}

// tick makes sure consecutive writes get distinct timestamps.
func tick() { time.Sleep(2 * time.Millisecond) }

func testSettings(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := newBackend(t)

	_, err := b.GetSettings(ctx)
	require.ErrorIs(t, err, store.ErrNotFound, "settings before Initialize")

	require.NoError(t, b.Initialize(ctx))
	got, err := b.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), got)

	custom := &model.GlobalSettings{
		CORSOrigins:    []string{"https://a.test"},
		CORSMethods:    []string{"GET"},
		CORSHeaders:    []string{"X-Token"},
		DefaultHeaders: map[string]string{"X-Powered-By": "mock"},
	}
	require.NoError(t, b.SaveSettings(ctx, custom))

	// Initialize is idempotent and keeps persisted settings.
	require.NoError(t, b.Initialize(ctx))
	got, err = b.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, custom, got)
}

func testProjectCRUD(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)
	ps := b.Projects()

	p := &model.Project{Name: "shop", Description: "storefront"}
	require.NoError(t, ps.Create(ctx, p))
	require.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	got, err := ps.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	tick()
	q := &model.Project{ID: "fixed-id", Name: "billing"}
	require.NoError(t, ps.Create(ctx, q))
	assert.Equal(t, "fixed-id", q.ID)

	list, err := ps.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, p.ID, list[0].ID)
	assert.Equal(t, q.ID, list[1].ID)

	tick()
	upd := &model.Project{ID: p.ID, Name: "shop v2"}
	require.NoError(t, ps.Update(ctx, upd))
	got, err = ps.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "shop v2", got.Name)
	assert.Equal(t, p.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(p.UpdatedAt))

	require.NoError(t, ps.Delete(ctx, p.ID))
	_, err = ps.Get(ctx, p.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	list, err = ps.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, q.ID, list[0].ID)
}

func testProjectErrors(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)
	ps := b.Projects()

	require.NoError(t, ps.Create(ctx, &model.Project{ID: "dup", Name: "a"}))
	require.ErrorIs(t, ps.Create(ctx, &model.Project{ID: "dup", Name: "b"}), store.ErrAlreadyExists)
	require.ErrorIs(t, ps.Create(ctx, &model.Project{ID: "bad:id", Name: "c"}), store.ErrInvalidID)
	require.ErrorIs(t, ps.Update(ctx, &model.Project{ID: "missing", Name: "x"}), store.ErrNotFound)
	require.ErrorIs(t, ps.Delete(ctx, "missing"), store.ErrNotFound)

	_, err := ps.Get(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testEndpointCRUD(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)

	p := &model.Project{Name: "shop"}
	require.NoError(t, b.Projects().Create(ctx, p))

	es := b.Endpoints()
	e := endpoint(p.ID, "get", "/users/:id", `{"ok":true}`)
	e.Response.Headers = map[string]string{"X-Custom": "1"}
	e.Response.Delay = 25
	require.NoError(t, es.Create(ctx, e))
	require.NotEmpty(t, e.ID)
	assert.Equal(t, "GET", e.Method, "method is normalized on create")

	got, err := es.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e, got)

	tick()
	upd := got.Clone()
	upd.Response.Status = 201
	upd.Method = "post"
	require.NoError(t, es.Update(ctx, upd))

	got, err = es.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 201, got.Response.Status)
	assert.Equal(t, "POST", got.Method)
	assert.Equal(t, e.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(e.UpdatedAt))

	global := endpoint("", "GET", "/health", "")
	require.NoError(t, es.Create(ctx, global))
	assert.Equal(t, 200, global.Response.Status)

	all, err := es.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, es.Delete(ctx, e.ID))
	_, err = es.Get(ctx, e.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	all, err = es.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, global.ID, all[0].ID)
}

func testEndpointErrors(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)
	es := b.Endpoints()

	require.ErrorIs(t, es.Create(ctx, endpoint("no-such-project", "GET", "/a", "")), store.ErrNotFound)

	e := endpoint("", "GET", "/a", "")
	e.ID = "ep-1"
	require.NoError(t, es.Create(ctx, e))

	dup := endpoint("", "GET", "/b", "")
	dup.ID = "ep-1"
	require.ErrorIs(t, es.Create(ctx, dup), store.ErrAlreadyExists)

	moved := e.Clone()
	moved.ProjectID = "no-such-project"
	require.ErrorIs(t, es.Update(ctx, moved), store.ErrNotFound)

	missing := endpoint("", "GET", "/c", "")
	missing.ID = "missing"
	require.ErrorIs(t, es.Update(ctx, missing), store.ErrNotFound)
	require.ErrorIs(t, es.Delete(ctx, "missing"), store.ErrNotFound)
}

func testEndpointFilter(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)

	p1 := &model.Project{Name: "one"}
	p2 := &model.Project{Name: "two"}
	require.NoError(t, b.Projects().Create(ctx, p1))
	require.NoError(t, b.Projects().Create(ctx, p2))

	es := b.Endpoints()
	require.NoError(t, es.Create(ctx, endpoint(p1.ID, "GET", "/a", "")))
	require.NoError(t, es.Create(ctx, endpoint(p1.ID, "POST", "/a", "")))
	require.NoError(t, es.Create(ctx, endpoint(p2.ID, "GET", "/b", "")))
	require.NoError(t, es.Create(ctx, endpoint("", "GET", "/c", "")))

	count := func(f *store.EndpointFilter) int {
		list, err := es.List(ctx, f)
		require.NoError(t, err)
		return len(list)
	}

	assert.Equal(t, 4, count(nil))
	assert.Equal(t, 2, count(&store.EndpointFilter{ProjectID: p1.ID}))
	assert.Equal(t, 3, count(&store.EndpointFilter{ProjectID: p1.ID, IncludeGlobal: true}))
	assert.Equal(t, 3, count(&store.EndpointFilter{Method: "get"}))
	assert.Equal(t, 2, count(&store.EndpointFilter{ProjectID: p1.ID, IncludeGlobal: true, Method: "GET"}))
}

func testCascadeDelete(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)

	p := &model.Project{Name: "doomed"}
	keep := &model.Project{Name: "kept"}
	require.NoError(t, b.Projects().Create(ctx, p))
	require.NoError(t, b.Projects().Create(ctx, keep))

	es := b.Endpoints()
	for i := 0; i < 5; i++ {
		require.NoError(t, es.Create(ctx, endpoint(p.ID, "GET", fmt.Sprintf("/d/%d", i), "")))
	}
	kept := endpoint(keep.ID, "GET", "/k", "")
	require.NoError(t, es.Create(ctx, kept))

	require.NoError(t, b.Projects().Delete(ctx, p.ID))

	list, err := es.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ID)

	m, err := b.GetEndpointByPath(ctx, "/d/1", "", "GET")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func testCopies(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)

	e := endpoint("", "GET", "/copy", `{"a":1}`)
	e.Response.Headers = map[string]string{"X-A": "1"}
	require.NoError(t, b.Endpoints().Create(ctx, e))

	// Mutating the caller's value after Create must not leak into the store.
	e.Response.Headers["X-A"] = "changed"

	got, err := b.Endpoints().Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "1", got.Response.Headers["X-A"])

	got.Response.Headers["X-A"] = "mutated"
	again, err := b.Endpoints().Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "1", again.Response.Headers["X-A"])

	s, err := b.GetSettings(ctx)
	require.NoError(t, err)
	s.CORSOrigins[0] = "https://evil.test"
	s2, err := b.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "*", s2.CORSOrigins[0])
}

func testBodyVerbatim(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)
	es := b.Endpoints()

	const body = "{ \"html\": \"<b>a & b</b>\",\n  \"n\": 1.50 }"
	e := endpoint("", "GET", "/page", body)
	require.NoError(t, es.Create(ctx, e))

	got, err := es.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, body, string(got.Response.Body))

	m, err := b.GetEndpointByPath(ctx, "/page", "", "GET")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, body, string(m.Endpoint.Response.Body))

	list, err := es.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, body, string(list[0].Response.Body))

	// Updates keep the new bytes as given too.
	updated := endpoint("", "GET", "/page", "[ 1,\t2 ]")
	updated.ID = e.ID
	require.NoError(t, es.Update(ctx, updated))
	got, err = es.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "[ 1,\t2 ]", string(got.Response.Body))
}

func testResolve(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)
	es := b.Endpoints()

	param := endpoint("", "GET", "/users/:id", `{"ok":true}`)
	require.NoError(t, es.Create(ctx, param))
	tick()
	literal := endpoint("", "GET", "/users/admin", `{"admin":true}`)
	require.NoError(t, es.Create(ctx, literal))

	m, err := b.GetEndpointByPath(ctx, "/users/42", "", "GET")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, param.ID, m.Endpoint.ID)
	assert.Equal(t, map[string]string{"id": "42"}, m.Params)

	m, err = b.GetEndpointByPath(ctx, "/users/admin", "", "get")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, literal.ID, m.Endpoint.ID)

	m, err = b.GetEndpointByPath(ctx, "/users/42", "", "DELETE")
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = b.GetEndpointByPath(ctx, "/users/42/posts", "", "GET")
	require.NoError(t, err)
	assert.Nil(t, m)

	// Repeated calls with unchanged state give identical results.
	first, err := b.GetEndpointByPath(ctx, "/users/7", "", "GET")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := b.GetEndpointByPath(ctx, "/users/7", "", "GET")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func testResolveScope(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)

	p1 := &model.Project{Name: "one"}
	p2 := &model.Project{Name: "two"}
	require.NoError(t, b.Projects().Create(ctx, p1))
	require.NoError(t, b.Projects().Create(ctx, p2))

	es := b.Endpoints()
	inP1 := endpoint(p1.ID, "GET", "/only-one", "")
	inP2 := endpoint(p2.ID, "GET", "/only-two", "")
	global := endpoint("", "GET", "/everywhere", "")
	require.NoError(t, es.Create(ctx, inP1))
	require.NoError(t, es.Create(ctx, inP2))
	require.NoError(t, es.Create(ctx, global))

	resolve := func(path, scope string) *matching.Match {
		m, err := b.GetEndpointByPath(ctx, path, scope, "GET")
		require.NoError(t, err)
		return m
	}

	assert.NotNil(t, resolve("/only-one", ""))
	assert.NotNil(t, resolve("/only-two", ""))
	assert.NotNil(t, resolve("/only-one", p1.ID))
	assert.Nil(t, resolve("/only-two", p1.ID))
	assert.NotNil(t, resolve("/everywhere", p1.ID))
	assert.NotNil(t, resolve("/everywhere", p2.ID))
}

func testResolveTieBreak(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)
	es := b.Endpoints()

	first := endpoint("", "GET", "/items/:id", `{"v":1}`)
	require.NoError(t, es.Create(ctx, first))
	tick()
	second := endpoint("", "GET", "/items/{key}", `{"v":2}`)
	require.NoError(t, es.Create(ctx, second))

	m, err := b.GetEndpointByPath(ctx, "/items/3", "", "GET")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, second.ID, m.Endpoint.ID, "newest wins at equal specificity")

	tick()
	touched := first.Clone()
	require.NoError(t, es.Update(ctx, touched))

	for i := 0; i < 5; i++ {
		m, err = b.GetEndpointByPath(ctx, "/items/3", "", "GET")
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, first.ID, m.Endpoint.ID, "most recently updated wins")
	}
}

func testResolveSkipsMalformed(t *testing.T, newBackend Factory) {
	ctx := context.Background()

	var mu sync.Mutex
	var skipped []string
	b := open(t, newBackend, store.WithSkipHook(func(ep *model.Endpoint, err error) {
		mu.Lock()
		defer mu.Unlock()
		assert.ErrorIs(t, err, matching.ErrMalformedPattern)
		skipped = append(skipped, ep.ID)
	}))

	es := b.Endpoints()
	broken := endpoint("", "GET", "/users/{id", "")
	require.NoError(t, es.Create(ctx, broken))
	good := endpoint("", "GET", "/users/:id", "")
	require.NoError(t, es.Create(ctx, good))

	m, err := b.GetEndpointByPath(ctx, "/users/1", "", "GET")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, good.ID, m.Endpoint.ID)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{broken.ID}, skipped)
}

func testAssets(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)
	as := b.Assets()

	_, err := as.Get(ctx, "index.html")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, as.Put(ctx, &model.Asset{Name: "index.html", ContentType: "text/html; charset=utf-8", Data: []byte("<h1>hi</h1>")}))
	require.NoError(t, as.Put(ctx, &model.Asset{Name: "css/app.css", ContentType: "text/css", Data: []byte("body{}")}))
	require.ErrorIs(t, as.Put(ctx, &model.Asset{}), store.ErrInvalidID)

	got, err := as.Get(ctx, "index.html")
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", got.ContentType)
	assert.Equal(t, []byte("<h1>hi</h1>"), got.Data)

	names, err := as.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"css/app.css", "index.html"}, names)

	require.NoError(t, as.Delete(ctx, "css/app.css"))
	require.ErrorIs(t, as.Delete(ctx, "css/app.css"), store.ErrNotFound)
}

func testClosed(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)
	require.NoError(t, b.Close())

	_, err := b.GetSettings(ctx)
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)

	_, err = b.GetEndpointByPath(ctx, "/a", "", "GET")
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)

	err = b.Projects().Create(ctx, &model.Project{Name: "late"})
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)
}

func testConcurrent(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)

	seed := endpoint("", "GET", "/hot/:id", `{"n":0}`)
	require.NoError(t, b.Endpoints().Create(ctx, seed))

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				e := endpoint("", "GET", fmt.Sprintf("/w%d/%d", w, i), `{"w":1}`)
				assert.NoError(t, b.Endpoints().Create(ctx, e))
				upd := seed.Clone()
				upd.Response.Body = json.RawMessage(fmt.Sprintf(`{"n":%d}`, i))
				assert.NoError(t, b.Endpoints().Update(ctx, upd))
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < 40; i++ {
				m, err := b.GetEndpointByPath(ctx, "/hot/1", "", "GET")
				if assert.NoError(t, err) && assert.NotNil(t, m) {
					assert.True(t, json.Valid(m.Endpoint.Response.Body))
				}
			}
		}()
	}
	wg.Wait()

	list, err := b.Endpoints().List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, list, 81)
}
