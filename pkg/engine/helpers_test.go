package engine

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockapi/internal/matching"
	"github.com/getmockd/mockapi/pkg/model"
	"github.com/getmockd/mockapi/pkg/store"
	"github.com/getmockd/mockapi/pkg/store/memory"
)

func newBackend(t *testing.T) *memory.Store {
	t.Helper()
	b := memory.New()
	require.NoError(t, b.Initialize(context.Background()))
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func addEndpoint(t *testing.T, b store.Backend, projectID, method, path string, status int, body string, mutate ...func(*model.Endpoint)) *model.Endpoint {
	t.Helper()
	e := &model.Endpoint{
		ProjectID: projectID,
		Method:    method,
		Path:      path,
		Response:  model.ResponseSpec{Status: status},
	}
	if body != "" {
		e.Response.Body = json.RawMessage(body)
	}
	for _, fn := range mutate {
		fn(e)
	}
	require.NoError(t, b.Endpoints().Create(context.Background(), e))
	return e
}

func saveSettings(t *testing.T, b store.Backend, fn func(s *model.GlobalSettings)) {
	t.Helper()
	s := model.DefaultSettings()
	fn(s)
	require.NoError(t, b.SaveSettings(context.Background(), s))
}

// brokenBackend fails every read used on the mock path.
type brokenBackend struct {
	*memory.Store
	settingsErr error
	resolveErr  error
}

func (b *brokenBackend) GetSettings(ctx context.Context) (*model.GlobalSettings, error) {
	if b.settingsErr != nil {
		return nil, b.settingsErr
	}
	return b.Store.GetSettings(ctx)
}

func (b *brokenBackend) GetEndpointByPath(ctx context.Context, path, scope, method string) (*matching.Match, error) {
	if b.resolveErr != nil {
		return nil, b.resolveErr
	}
	return b.Store.GetEndpointByPath(ctx, path, scope, method)
}
