package admin

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getmockd/mockapi/internal/matching"
	"github.com/getmockd/mockapi/pkg/logging"
	"github.com/getmockd/mockapi/pkg/metrics"
	"github.com/getmockd/mockapi/pkg/store"
)

// Prefix is the path every admin route lives under.
const Prefix = "/api/admin"

// API serves the admin routes.
type API struct {
	backend  store.Backend
	auth     *Auth
	authCfg  AuthConfig
	compiler *matching.Compiler
	log      *slog.Logger
	metrics  *metrics.Metrics
	mux      *http.ServeMux
}

// New creates an API over backend.
func New(backend store.Backend, opts ...Option) (*API, error) {
	a := &API{
		backend:  backend,
		compiler: matching.NewCompiler(),
		log:      logging.Nop(),
		mux:      http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(a)
	}

	auth, err := NewAuth(a.authCfg)
	if err != nil {
		return nil, fmt.Errorf("admin auth: %w", err)
	}
	a.auth = auth
	if !auth.Enabled() {
		a.log.Warn("no admin password configured, admin API is open (development mode)")
	}
	if len(a.authCfg.Secret) == 0 && auth.Enabled() {
		a.log.Warn("no jwt secret configured, admin tokens will not survive a restart")
	}

	a.registerRoutes()
	return a, nil
}

// ServeHTTP implements http.Handler.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Auth returns the token issuer/validator.
func (a *API) Auth() *Auth { return a.auth }
