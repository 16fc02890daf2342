package engine

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/getmockd/mockapi/pkg/store"
)

// StaticPattern selects request paths served from stored console assets.
const StaticPattern = "**/*.{css,js,ico,png,jpg,svg}"

const staticCacheControl = "public, max-age=3600"

// IsStaticPath reports whether path belongs to the console rather than to mocks.
func IsStaticPath(path string) bool {
	if path == "/" || path == "/index.html" {
		return true
	}
	ok, _ := doublestar.Match(StaticPattern, strings.TrimPrefix(path, "/"))
	return ok
}

// StaticHandler serves console files stored under "static:<name>".
type StaticHandler struct {
	assets store.AssetStore
	log    *slog.Logger
}

// NewStaticHandler creates a StaticHandler reading from assets.
func NewStaticHandler(assets store.AssetStore, opts ...Option) *StaticHandler {
	o := newOptions(opts)
	return &StaticHandler{assets: assets, log: o.log}
}

func (s *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/")
	if name == "" {
		name = "index.html"
	}

	asset, err := s.assets.Get(r.Context(), name)
	if err == nil {
		contentType := asset.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", staticCacheControl)
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			_, _ = w.Write(asset.Data)
		}
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.log.Error("failed to read static asset", "name", name, "error", err)
	}

	if name == "index.html" {
		s.serveInfoPage(w, r)
		return
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}

var infoPage = template.Must(template.New("info").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>mockapi</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 720px; margin: 3rem auto; color: #222; }
code { background: #f3f3f3; padding: 0 .3rem; border-radius: 3px; }
li { margin: .4rem 0; }
</style>
</head>
<body>
<h1>mockapi is running</h1>
<p>The admin console has not been uploaded. Upload it with
<code>mockapi assets upload ./console</code>.</p>
<h2>API</h2>
<ul>
<li><code>POST /api/admin/login</code> obtain an admin token</li>
<li><code>/api/admin/projects</code> manage projects</li>
<li><code>/api/admin/endpoints</code> manage mock endpoints</li>
<li><code>/api/admin/settings</code> global CORS and default headers</li>
<li><code>/mock/&lt;projectId&gt;/...</code> project scoped mocks</li>
<li><code>/...</code> any other path is matched against all endpoints</li>
</ul>
<p>Server: {{.}}</p>
</body>
</html>
`))

func (s *StaticHandler) serveInfoPage(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	w.Header().Set("Content-Type", "text/html;charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if err := infoPage.Execute(w, scheme+"://"+r.Host); err != nil {
		s.log.Debug("failed to render info page", "error", err)
	}
}
