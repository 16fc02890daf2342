package matching

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockapi/internal/id"
	"github.com/getmockd/mockapi/pkg/model"
)

var base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func ep(id, method, path string, updated time.Duration) *model.Endpoint {
	return &model.Endpoint{
		ID:        id,
		Method:    method,
		Path:      path,
		CreatedAt: base,
		UpdatedAt: base.Add(updated),
	}
}

func TestSelectLiteralBeatsParam(t *testing.T) {
	c := NewCompiler()
	endpoints := []*model.Endpoint{
		ep("param", "GET", "/users/:id", time.Hour),
		ep("literal", "GET", "/users/admin", 0),
	}

	m := c.Select(endpoints, "GET", "/users/admin", nil)
	require.NotNil(t, m)
	assert.Equal(t, "literal", m.Endpoint.ID)
	assert.Equal(t, 2, m.Specificity)
	assert.Empty(t, m.Params)

	m = c.Select(endpoints, "GET", "/users/42", nil)
	require.NotNil(t, m)
	assert.Equal(t, "param", m.Endpoint.ID)
	assert.Equal(t, map[string]string{"id": "42"}, m.Params)
}

func TestSelectMethodFilter(t *testing.T) {
	c := NewCompiler()
	endpoints := []*model.Endpoint{
		ep("get", "GET", "/users/:id", 0),
		ep("post", "post", "/users/:id", 0),
	}

	m := c.Select(endpoints, "post", "/users/1", nil)
	require.NotNil(t, m)
	assert.Equal(t, "post", m.Endpoint.ID)

	assert.Nil(t, c.Select(endpoints, "DELETE", "/users/1", nil))
}

func TestSelectSegmentCountMismatch(t *testing.T) {
	c := NewCompiler()
	endpoints := []*model.Endpoint{
		ep("a", "GET", "/a/:x", 0),
		ep("b", "GET", "/a/b/:y/:z", 0),
	}
	assert.Nil(t, c.Select(endpoints, "GET", "/a/b/c", nil))
	assert.Nil(t, c.Select(endpoints, "GET", "/", nil))
}

func TestSelectTieBreakByRecency(t *testing.T) {
	c := NewCompiler()
	endpoints := []*model.Endpoint{
		ep("older", "GET", "/items/:id", time.Minute),
		ep("newer", "GET", "/items/{key}", 2*time.Minute),
		ep("oldest", "GET", "/items/:slug", 0),
	}

	for i := 0; i < 20; i++ {
		m := c.Select(endpoints, "GET", "/items/9", nil)
		require.NotNil(t, m)
		assert.Equal(t, "newer", m.Endpoint.ID)
		assert.Equal(t, map[string]string{"key": "9"}, m.Params)
	}
}

func TestSelectTieBreakFallsBackToCreatedThenID(t *testing.T) {
	c := NewCompiler()

	a := ep("a", "GET", "/x/:id", 0)
	b := ep("b", "GET", "/x/:id", 0)
	for _, order := range [][]*model.Endpoint{{a, b}, {b, a}} {
		m := c.Select(order, "GET", "/x/1", nil)
		require.NotNil(t, m)
		assert.Equal(t, "b", m.Endpoint.ID, "identical timestamps fall back to the later id")
	}

	a.CreatedAt = base.Add(time.Second)
	m := c.Select([]*model.Endpoint{a, b}, "GET", "/x/1", nil)
	require.NotNil(t, m)
	assert.Equal(t, "a", m.Endpoint.ID)

	// Generated ids sort by issue time.
	first, second := ep(id.New(), "GET", "/y/:id", 0), ep(id.New(), "GET", "/y/:id", 0)
	m = c.Select([]*model.Endpoint{second, first}, "GET", "/y/1", nil)
	require.NotNil(t, m)
	assert.Equal(t, second.ID, m.Endpoint.ID)
}

func TestSelectSkipsMalformed(t *testing.T) {
	c := NewCompiler()
	endpoints := []*model.Endpoint{
		ep("broken", "GET", "/users/{id", time.Hour),
		ep("good", "GET", "/users/:id", 0),
		nil,
	}

	var skipped []string
	m := c.Select(endpoints, "GET", "/users/5", func(e *model.Endpoint, err error) {
		assert.ErrorIs(t, err, ErrMalformedPattern)
		skipped = append(skipped, e.ID)
	})
	require.NotNil(t, m)
	assert.Equal(t, "good", m.Endpoint.ID)
	assert.Equal(t, []string{"broken"}, skipped)
}

func TestSelectOrderIndependent(t *testing.T) {
	c := NewCompiler()
	endpoints := []*model.Endpoint{
		ep("1", "GET", "/a/:b/:c", 3*time.Second),
		ep("2", "GET", "/a/b/:c", time.Second),
		ep("3", "GET", "/a/:b/c", 2*time.Second),
		ep("4", "GET", "/:a/:b/:c", 4*time.Second),
	}

	want := c.Select(endpoints, "GET", "/a/b/c", nil)
	require.NotNil(t, want)
	// "2" and "3" both have two literals; "3" was updated later.
	assert.Equal(t, "3", want.Endpoint.ID)

	reversed := []*model.Endpoint{endpoints[3], endpoints[2], endpoints[1], endpoints[0]}
	got := c.Select(reversed, "GET", "/a/b/c", nil)
	require.NotNil(t, got)
	assert.Equal(t, want.Endpoint.ID, got.Endpoint.ID)
}

func TestSelectConcurrent(t *testing.T) {
	c := NewCompiler()
	var endpoints []*model.Endpoint
	for i := 0; i < 50; i++ {
		endpoints = append(endpoints, ep(fmt.Sprintf("e%02d", i), "GET", fmt.Sprintf("/r%d/:id", i), 0))
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m := c.Select(endpoints, "GET", fmt.Sprintf("/r%d/x", i), nil)
			if assert.NotNil(t, m) {
				assert.Equal(t, fmt.Sprintf("e%02d", i), m.Endpoint.ID)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, c.Len())
}
