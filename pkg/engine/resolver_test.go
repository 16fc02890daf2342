package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockapi/pkg/model"
	"github.com/getmockd/mockapi/pkg/store"
)

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)

	p := &model.Project{Name: "shop"}
	require.NoError(t, b.Projects().Create(ctx, p))

	param := addEndpoint(t, b, "", "GET", "/users/:id", 200, `{"ok":true}`)
	literal := addEndpoint(t, b, "", "GET", "/users/admin", 200, `{"admin":true}`)
	scoped := addEndpoint(t, b, p.ID, "POST", "/orders", 201, "")
	root := addEndpoint(t, b, "", "GET", "/", 200, `"root"`)

	r := NewResolver(b)

	tests := []struct {
		name   string
		method string
		path   string
		scope  string
		want   *model.Endpoint
		params map[string]string
	}{
		{name: "param binds", method: "GET", path: "/users/42", want: param, params: map[string]string{"id": "42"}},
		{name: "literal beats param", method: "GET", path: "/users/admin", want: literal},
		{name: "method case-insensitive", method: "get", path: "/users/7", want: param, params: map[string]string{"id": "7"}},
		{name: "trailing slash ignored", method: "GET", path: "/users/7/", want: param, params: map[string]string{"id": "7"}},
		{name: "wrong method", method: "DELETE", path: "/users/42"},
		{name: "segment count differs", method: "GET", path: "/users/42/posts"},
		{name: "scoped endpoint in scope", method: "POST", path: "/orders", scope: p.ID, want: scoped},
		{name: "scoped endpoint from empty scope", method: "POST", path: "/orders", want: scoped},
		{name: "scoped endpoint from other scope", method: "POST", path: "/orders", scope: "other"},
		{name: "global endpoint from project scope", method: "GET", path: "/users/1", scope: p.ID, want: param, params: map[string]string{"id": "1"}},
		{name: "root", method: "GET", path: "/", want: root},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := r.Resolve(ctx, tt.method, tt.path, tt.scope)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, m)
				return
			}
			require.NotNil(t, m)
			assert.Equal(t, tt.want.ID, m.Endpoint.ID)
			if tt.params != nil {
				assert.Equal(t, tt.params, m.Params)
			}
		})
	}
}

func TestResolver_StorageUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"already classified", store.ErrStorageUnavailable},
		{"unclassified", errors.New("disk on fire")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &brokenBackend{Store: newBackend(t), resolveErr: tt.err}
			m, err := NewResolver(b).Resolve(context.Background(), "GET", "/a", "")
			assert.Nil(t, m)
			assert.ErrorIs(t, err, store.ErrStorageUnavailable)
		})
	}
}

func TestResolver_Settings(t *testing.T) {
	ctx := context.Background()

	t.Run("stored", func(t *testing.T) {
		b := newBackend(t)
		saveSettings(t, b, func(s *model.GlobalSettings) { s.CORSOrigins = []string{"https://a.test"} })
		got := NewResolver(b).Settings(ctx)
		assert.Equal(t, []string{"https://a.test"}, got.CORSOrigins)
	})

	t.Run("missing falls back to defaults", func(t *testing.T) {
		b := &brokenBackend{Store: newBackend(t), settingsErr: store.ErrNotFound}
		assert.Equal(t, model.DefaultSettings(), NewResolver(b).Settings(ctx))
	})

	t.Run("failure falls back to defaults", func(t *testing.T) {
		b := &brokenBackend{Store: newBackend(t), settingsErr: store.ErrStorageUnavailable}
		assert.Equal(t, model.DefaultSettings(), NewResolver(b).Settings(ctx))
	})
}
