package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockapi/pkg/model"
	"github.com/getmockd/mockapi/pkg/store"
)

func serve(h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, vs := range header {
		req.Header[k] = vs
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandler_ParamEndpoint(t *testing.T) {
	b := newBackend(t)
	addEndpoint(t, b, "", "GET", "/users/:id", 200, `{"ok":true}`)

	rec := serve(NewRouter(b), http.MethodGet, "/users/42", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestHandler_NotFound(t *testing.T) {
	b := newBackend(t)
	saveSettings(t, b, func(s *model.GlobalSettings) { s.DefaultHeaders["X-Powered-By"] = "mock" })

	rec := serve(NewRouter(b), http.MethodDelete, "/users/42", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]string{
		"error":   "Not Found",
		"message": "No mock endpoint configured for DELETE /users/42",
	}, decodeError(t, rec))
	assert.Equal(t, "mock", rec.Header().Get("X-Powered-By"))
}

func TestHandler_LiteralBeatsParam(t *testing.T) {
	b := newBackend(t)
	addEndpoint(t, b, "", "GET", "/users/admin", 200, `{"who":"literal"}`)
	time.Sleep(2 * time.Millisecond)
	addEndpoint(t, b, "", "GET", "/users/:id", 200, `{"who":"param"}`)

	rec := serve(NewRouter(b), http.MethodGet, "/users/admin", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"who":"literal"}`, rec.Body.String())
}

func TestHandler_EndpointHeaderOverridesDefault(t *testing.T) {
	b := newBackend(t)
	saveSettings(t, b, func(s *model.GlobalSettings) { s.DefaultHeaders["X-Powered-By"] = "mock" })
	addEndpoint(t, b, "", "GET", "/h", 200, `{}`, func(e *model.Endpoint) {
		e.Response.Headers = map[string]string{"X-Powered-By": "custom"}
	})

	rec := serve(NewRouter(b), http.MethodGet, "/h", nil)

	assert.Equal(t, "custom", rec.Header().Get("X-Powered-By"))
	assert.Equal(t, []string{"custom"}, rec.Header().Values("X-Powered-By"))
}

func TestHandler_CORSDenialStillAnswers(t *testing.T) {
	b := newBackend(t)
	saveSettings(t, b, func(s *model.GlobalSettings) { s.CORSOrigins = []string{"https://a.test"} })
	addEndpoint(t, b, "", "GET", "/data", 200, `{"v":1}`)
	router := NewRouter(b)
	origin := http.Header{"Origin": {"https://b.test"}}

	rec := serve(router, http.MethodGet, "/data", origin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"v":1}`, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(router, http.MethodGet, "/missing", origin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(router, http.MethodGet, "/data", http.Header{"Origin": {"https://a.test"}})
	assert.Equal(t, "https://a.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandler_Preflight(t *testing.T) {
	b := &brokenBackend{Store: newBackend(t), resolveErr: store.ErrStorageUnavailable}

	rec := serve(NewRouter(b), http.MethodOptions, "/anything", http.Header{"Origin": {"https://x.test"}})

	assert.Equal(t, http.StatusNoContent, rec.Code, "preflight never reaches the resolver")
	assert.Empty(t, rec.Body.Bytes())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PUT, DELETE, PATCH, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestHandler_StorageUnavailable(t *testing.T) {
	b := &brokenBackend{Store: newBackend(t), resolveErr: store.ErrStorageUnavailable}

	rec := serve(NewRouter(b), http.MethodGet, "/users/1", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]string{
		"error":   "Internal Server Error",
		"message": "Storage unavailable",
	}, decodeError(t, rec))
}

func TestHandler_SettingsFailureUsesDefaults(t *testing.T) {
	b := &brokenBackend{Store: newBackend(t), settingsErr: store.ErrStorageUnavailable}
	addEndpoint(t, b.Store, "", "GET", "/ok", 200, `true`)

	rec := serve(NewRouter(b), http.MethodGet, "/ok", http.Header{"Origin": {"https://any.test"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestHandler_MalformedEndpointSkipped(t *testing.T) {
	b := newBackend(t)
	addEndpoint(t, b, "", "GET", "/broken/{id", 200, `{"broken":true}`)
	addEndpoint(t, b, "", "GET", "/broken/:id", 200, `{"broken":false}`)

	rec := serve(NewRouter(b), http.MethodGet, "/broken/1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"broken":false}`, rec.Body.String())
}

func TestHandler_EmptyBodyAndStatus(t *testing.T) {
	b := newBackend(t)
	addEndpoint(t, b, "", "DELETE", "/items/:id", 204, "")

	rec := serve(NewRouter(b), http.MethodDelete, "/items/9", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestHandler_DelayDoesNotBlockOthers(t *testing.T) {
	b := newBackend(t)
	addEndpoint(t, b, "", "GET", "/slow", 200, `"slow"`, func(e *model.Endpoint) { e.Response.Delay = 1000 })
	addEndpoint(t, b, "", "GET", "/fast", 200, `"fast"`)

	srv := httptest.NewServer(NewRouter(b))
	defer srv.Close()

	var (
		mu    sync.Mutex
		order []string
		wg    sync.WaitGroup
	)
	get := func(path string) {
		defer wg.Done()
		resp, err := http.Get(srv.URL + path)
		if !assert.NoError(t, err) {
			return
		}
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mu.Lock()
		order = append(order, path)
		mu.Unlock()
	}

	wg.Add(2)
	go get("/slow")
	time.Sleep(50 * time.Millisecond)
	go get("/fast")
	wg.Wait()

	assert.Equal(t, []string{"/fast", "/slow"}, order)
}

func TestHandler_DelayAbandonedByClient(t *testing.T) {
	b := newBackend(t)
	addEndpoint(t, b, "", "GET", "/slow", 200, `"slow"`, func(e *model.Endpoint) { e.Response.Delay = 5000 })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/slow", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	start := time.Now()
	NewRouter(b).ServeHTTP(rec, req)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Empty(t, rec.Body.Bytes(), "nothing is written once the client is gone")
}
