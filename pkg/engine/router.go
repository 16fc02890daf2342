package engine

import (
	"net/http"
	"strings"

	"github.com/getmockd/mockapi/pkg/metrics"
	"github.com/getmockd/mockapi/pkg/store"
)

const (
	adminPrefix = "/api/admin"
	mockPrefix  = "/mock/"
)

// NewRouter builds the single HTTP handler of the server.
//
//	/, /index.html, *.css|js|ico|png|jpg|svg  static console (GET, HEAD)
//	/api/admin/...                             admin API (WithAdmin)
//	GET /metrics                               Prometheus (WithMetrics)
//	/mock/{projectId}/...                      mocks scoped to one project
//	anything else                              mocks across every endpoint
func NewRouter(backend store.Backend, opts ...Option) http.Handler {
	o := newOptions(opts)

	mocks := NewHandler(NewResolver(backend, opts...), opts...)
	static := instrument(metrics.RouteStatic, o.metrics, o.log, NewStaticHandler(backend.Assets(), opts...))
	scoped := instrument(metrics.RouteMock, o.metrics, o.log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mocks.Serve(w, r, r.PathValue("projectId"), "/"+r.PathValue("rest"))
	}))
	global := instrument(metrics.RouteMock, o.metrics, o.log, mocks)

	mux := http.NewServeMux()

	if o.admin != nil {
		admin := instrument(metrics.RouteAdmin, o.metrics, o.log, AdminCORS(o.admin))
		mux.Handle(adminPrefix+"/", admin)
	}
	if o.metrics != nil {
		mux.Handle("GET /metrics", instrument(metrics.RouteMetrics, nil, o.log, o.metrics.Handler()))
	}

	mux.Handle(mockPrefix+"{projectId}", scoped)
	mux.Handle(mockPrefix+"{projectId}/{rest...}", scoped)

	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case (r.Method == http.MethodGet || r.Method == http.MethodHead) && IsStaticPath(path):
			static.ServeHTTP(w, r)
		case path == adminPrefix || strings.HasPrefix(path, adminPrefix+"/"):
			http.NotFound(w, r)
		default:
			global.ServeHTTP(w, r)
		}
	}))

	return mux
}
