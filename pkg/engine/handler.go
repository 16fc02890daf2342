package engine

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getmockd/mockapi/pkg/httputil"
	"github.com/getmockd/mockapi/pkg/metrics"
)

// Handler answers mock requests for one project scope.
type Handler struct {
	resolver *Resolver
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// NewHandler creates a mock Handler around resolver.
func NewHandler(resolver *Resolver, opts ...Option) *Handler {
	o := newOptions(opts)
	return &Handler{resolver: resolver, log: o.log, metrics: o.metrics}
}

// ServeHTTP resolves r.URL.Path against every stored endpoint.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Serve(w, r, "", r.URL.Path)
}

// Serve answers r as a mock request for path within projectScope.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, projectScope, path string) {
	ctx := r.Context()
	settings := h.resolver.Settings(ctx)

	ApplyCORS(w.Header(), settings, r.Header.Get("Origin"))
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	match, err := h.resolver.Resolve(ctx, r.Method, path, projectScope)
	if err != nil {
		h.log.Error("mock resolution failed", "method", r.Method, "path", path, "project_id", projectScope, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Internal Server Error", "Storage unavailable")
		return
	}
	if match == nil {
		setHeaders(w.Header(), settings.DefaultHeaders)
		httputil.WriteError(w, http.StatusNotFound, "Not Found",
			fmt.Sprintf("No mock endpoint configured for %s %s", r.Method, path))
		return
	}

	resp := Materialize(match.Endpoint, settings)
	if resp.Delay > 0 {
		if !Wait(ctx, resp.Delay) {
			h.metrics.DelayedResponse(true)
			h.log.Debug("client went away during simulated delay", "endpoint_id", match.Endpoint.ID, "delay", resp.Delay)
			return
		}
		h.metrics.DelayedResponse(false)
	}

	if err := resp.Write(w); err != nil {
		h.log.Debug("failed to write mock response", "endpoint_id", match.Endpoint.ID, "error", err)
	}
}
