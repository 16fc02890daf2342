package admin

import (
	"net/http"

	"github.com/getmockd/mockapi/pkg/httputil"
)

func (a *API) registerRoutes() {
	public := func(pattern string, h http.HandlerFunc) {
		a.mux.HandleFunc(pattern, h)
	}
	private := func(pattern string, h http.HandlerFunc) {
		a.mux.Handle(pattern, a.requireAuth(h))
	}

	public("POST "+Prefix+"/login", a.handleLogin)
	public("GET "+Prefix+"/health", a.handleHealth)

	private("GET "+Prefix+"/projects", a.handleListProjects)
	private("POST "+Prefix+"/projects", a.handleCreateProject)
	private("GET "+Prefix+"/projects/{id}", a.handleGetProject)
	private("PUT "+Prefix+"/projects/{id}", a.handleUpdateProject)
	private("DELETE "+Prefix+"/projects/{id}", a.handleDeleteProject)
	private("GET "+Prefix+"/projects/{id}/endpoints", a.handleListProjectEndpoints)

	private("GET "+Prefix+"/endpoints", a.handleListEndpoints)
	private("POST "+Prefix+"/endpoints", a.handleCreateEndpoint)
	private("GET "+Prefix+"/endpoints/{id}", a.handleGetEndpoint)
	private("PUT "+Prefix+"/endpoints/{id}", a.handleUpdateEndpoint)
	private("DELETE "+Prefix+"/endpoints/{id}", a.handleDeleteEndpoint)

	private("GET "+Prefix+"/settings", a.handleGetSettings)
	private("PUT "+Prefix+"/settings", a.handleUpdateSettings)

	private("GET "+Prefix+"/assets", a.handleListAssets)
	private("PUT "+Prefix+"/assets/{name...}", a.handlePutAsset)
	private("DELETE "+Prefix+"/assets/{name...}", a.handleDeleteAsset)

	a.mux.HandleFunc(Prefix+"/", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteNotFound(w, ErrMsgRouteNotFound)
	})
}
