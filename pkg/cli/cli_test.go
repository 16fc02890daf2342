package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockapi/internal/cliconfig"
	"github.com/getmockd/mockapi/pkg/logging"
	"github.com/getmockd/mockapi/pkg/portability"
	"github.com/getmockd/mockapi/pkg/store"
)

const fixtureYAML = `
projects:
  - id: shop
    name: Shop
endpoints:
  - id: list-users
    projectId: shop
    method: GET
    path: /users
    response:
      body: [{id: 1}]
  - id: ping
    method: GET
    path: /ping
    response:
      status: 204
`

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, env map[string]string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := &app{
		stdout: &stdout,
		stderr: &stderr,
		dir:    t.TempDir(),
		lookup: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	}
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "mockapi.db")
	fixture := filepath.Join(dir, "fixture.yaml")
	writeFile(t, fixture, fixtureYAML)

	res := run(t, nil, "import", fixture, "--kv-path", db)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "Imported 1 projects and 2 endpoints")

	res = run(t, nil, "import", fixture, "--kv-path", db)
	require.ErrorIs(t, res.err, ErrImportFailures)
	assert.Contains(t, res.stderr, "already exists")

	res = run(t, nil, "import", fixture, "--kv-path", db, "--replace")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "3 replaced")

	// The kv path can also come from the environment.
	res = run(t, map[string]string{cliconfig.EnvKVPath: db}, "export", "--format", "json")
	require.NoError(t, res.err, res.stderr)
	var out portability.Fixture
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.Len(t, out.Projects, 1)
	require.Len(t, out.Endpoints, 2)
	assert.NotNil(t, out.Settings)

	target := filepath.Join(dir, "shop.yaml")
	res = run(t, nil, "export", "--kv-path", db, "--project", "shop", "-o", target)
	require.NoError(t, res.err, res.stderr)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	shop, err := portability.Decode(data)
	require.NoError(t, err)
	require.Len(t, shop.Endpoints, 1)
	assert.Equal(t, "list-users", shop.Endpoints[0].ID)
}

func TestImport_Errors(t *testing.T) {
	dir := t.TempDir()

	res := run(t, nil, "import", filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, res.err, os.ErrNotExist)

	empty := filepath.Join(dir, "empty.yaml")
	writeFile(t, empty, "version: \"1.0\"\n")
	res = run(t, nil, "import", empty)
	assert.ErrorIs(t, res.err, ErrNoFixtureData)

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, `
endpoints:
  - method: GET
    path: /ok
  - method: GET
    path: /users/{id
`)
	res = run(t, nil, "import", bad, "--dry-run", "--json")
	require.ErrorIs(t, res.err, ErrImportFailures)
	assert.Contains(t, res.stderr, "endpoints[1]")
	var counts portability.ImportResult
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &counts))
	assert.Equal(t, 1, counts.Endpoints)
	assert.Equal(t, 1, counts.Failed)

	res = run(t, nil, "import")
	assert.Error(t, res.err)
}

func TestAssets(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "mockapi.db")
	site := filepath.Join(dir, "dist")
	writeFile(t, filepath.Join(site, "index.html"), "<h1>console</h1>")
	writeFile(t, filepath.Join(site, "css", "app.css"), "body{}")
	writeFile(t, filepath.Join(site, "favicon.ico"), "ico")
	writeFile(t, filepath.Join(site, "notes.txt"), "skip me")

	res := run(t, nil, "assets", "upload", site, "--kv-path", db)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stderr, "Uploaded 3 console files")
	assert.NotContains(t, res.stdout, "notes.txt")

	res = run(t, nil, "assets", "list", "--kv-path", db, "--json")
	require.NoError(t, res.err, res.stderr)
	var names []string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &names))
	assert.Equal(t, []string{"css/app.css", "favicon.ico", "index.html"}, names)

	res = run(t, nil, "assets", "list", "--kv-path", db)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "index.html")
	assert.Contains(t, res.stdout, "/css/app.css")

	res = run(t, nil, "assets", "upload", filepath.Join(site, "index.html"))
	assert.ErrorIs(t, res.err, ErrNotADirectory)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.MkdirAll(empty, 0o755))
	res = run(t, nil, "assets", "upload", empty)
	assert.ErrorIs(t, res.err, ErrNoAssetsFound)
}

func TestVersion(t *testing.T) {
	res := run(t, nil, "version", "--json")
	require.NoError(t, res.err)
	var v VersionOutput
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &v))
	assert.NotEmpty(t, v.Go)
	assert.NotEmpty(t, v.OS)

	res = run(t, nil, "version")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "mockapi "))
}

func TestInvalidConfigIsReported(t *testing.T) {
	res := run(t, nil, "export", "--log-level", "loud")
	assert.ErrorContains(t, res.err, "unknown log level")

	res = run(t, map[string]string{cliconfig.EnvPort: "http"}, "export")
	assert.ErrorContains(t, res.err, cliconfig.EnvPort)
}

func TestBuildServer(t *testing.T) {
	ctx := context.Background()
	cfg := cliconfig.NewDefault()
	cfg.AdminPassword = "pw"
	cfg.JWTSecret = "secret"

	srv, cleanup, err := buildServer(ctx, cfg, logging.Nop())
	require.NoError(t, err)
	defer cleanup()
	h := srv.Handler()

	do := func(method, path, token, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/api/admin/endpoints", "", `{"method":"GET","path":"/hello","response":{"body":{"hi":true}}}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(http.MethodPost, "/api/admin/login", "", `{"password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct{ Token string }
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = do(http.MethodPost, "/api/admin/endpoints", login.Token, `{"method":"GET","path":"/hello/:name","response":{"body":{"hi":true}}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(http.MethodGet, "/hello/world", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hi":true}`, rec.Body.String())

	// Console files can be replaced while the server runs.
	rec = do(http.MethodPut, "/api/admin/assets/index.html", login.Token, "<h1>live</h1>")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<h1>live</h1>", rec.Body.String())

	rec = do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mockapi_match_hits_total")
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	cfg := cliconfig.NewDefault()
	b, err := openStore(ctx, cfg, storeDeps{})
	require.NoError(t, err)
	assert.Equal(t, store.KindMemory, b.Kind())
	require.NoError(t, b.Close())

	cfg.KVPath = filepath.Join(t.TempDir(), "nested", "mockapi.db")
	b, err = openStore(ctx, cfg, storeDeps{})
	require.NoError(t, err)
	assert.Equal(t, store.KindKV, b.Kind())
	_, err = b.GetSettings(ctx)
	assert.NoError(t, err, "initialize persists default settings")
	require.NoError(t, b.Close())
}
